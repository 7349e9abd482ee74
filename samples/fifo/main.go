package main

import (
	"fmt"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/cyclone/api"
	"github.com/sarchlab/cyclone/core"
	"github.com/sarchlab/cyclone/dataflow"
)

// queue is an ordinary structured payload. The kernel treats it as opaque;
// the manager component below is the only place that knows its shape.
type queue struct {
	items []int
	cap   int
}

func (q queue) push(n int) (queue, bool) {
	if len(q.items) >= q.cap {
		return q, false
	}
	items := make([]int, len(q.items), len(q.items)+1)
	copy(items, q.items)
	return queue{items: append(items, n), cap: q.cap}, true
}

func (q queue) pop() (queue, int, bool) {
	if len(q.items) == 0 {
		return q, 0, false
	}
	items := make([]int, len(q.items)-1)
	copy(items, q.items[1:])
	return queue{items: items, cap: q.cap}, q.items[0], true
}

// A producer streams numbers into a bounded FIFO owned by a queue manager;
// a consumer accumulates whatever the manager pops. The FIFO adds one cycle
// of latency, like any path through memory.
func main() {
	b := api.NewSimulation()

	producer := b.AddProcessing(dataflow.NewProcessing("Producer",
		nil,
		[]dataflow.PortDecl{dataflow.Port[int]("out")},
		[]dataflow.PortDecl{dataflow.Port[int]("next")},
		func(_ dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			n, _, err := dataflow.ReadMem[int](mem, "next")
			if err != nil {
				return nil, err
			}
			if err := dataflow.WriteMem(mem, "next", n+1); err != nil {
				return nil, err
			}
			out := dataflow.OutputMap{}
			dataflow.Emit(out, "out", n)
			return out, nil
		}))

	manager := b.AddProcessing(dataflow.NewProcessing("QueueManager",
		[]dataflow.PortDecl{dataflow.Port[int]("push")},
		[]dataflow.PortDecl{dataflow.Port[int]("pop")},
		[]dataflow.PortDecl{dataflow.Port[queue]("q")},
		func(in dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			q, _, err := dataflow.ReadMem[queue](mem, "q")
			if err != nil {
				return nil, err
			}

			out := dataflow.OutputMap{}
			if popped, head, ok := q.pop(); ok {
				q = popped
				dataflow.Emit(out, "pop", head)
			}
			if n, ok, err := dataflow.InputAs[int](in, "push"); err != nil {
				return nil, err
			} else if ok {
				// A full queue drops the element; backpressure would be
				// another output port wired back through a cell.
				q, _ = q.push(n)
			}

			return out, dataflow.WriteMem(mem, "q", q)
		}))

	consumer := b.AddProcessing(dataflow.NewProcessing("Consumer",
		[]dataflow.PortDecl{dataflow.Port[int]("in")},
		nil,
		[]dataflow.PortDecl{dataflow.Port[int]("sum")},
		func(in dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			n, ok, err := dataflow.InputAs[int](in, "in")
			if err != nil || !ok {
				return nil, err
			}
			sum, _, err := dataflow.ReadMem[int](mem, "sum")
			if err != nil {
				return nil, err
			}
			return nil, dataflow.WriteMem(mem, "sum", sum+n)
		}))

	next := b.AddMemory(dataflow.NewMemory("Next", 1))
	q := b.AddMemory(dataflow.NewMemory("Q", queue{cap: 4}))
	sum := b.AddMemory(dataflow.NewMemory("Sum", 0))

	driver := b.
		ConnectEdge(producer, "out", manager, "push").
		ConnectEdge(manager, "pop", consumer, "in").
		ConnectMemory(producer, "next", next).
		ConnectMemory(manager, "q", q).
		ConnectMemory(consumer, "sum", sum).
		MustBuild()

	if _, err := driver.Run(10, nil); err != nil {
		panic(err)
	}

	total, err := api.InspectAs[int](driver, sum)
	if err != nil {
		panic(err)
	}
	depth, err := api.InspectAs[queue](driver, q)
	if err != nil {
		panic(err)
	}
	fmt.Printf("after %d cycles: consumed sum %d, %d still queued\n",
		driver.CurrentCycle(), total, len(depth.items))
	fmt.Println(core.RenderPlan(driver.Plan()))

	atexit.Exit(0)
}
