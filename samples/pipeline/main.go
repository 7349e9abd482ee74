package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/cyclone/api"
	"github.com/sarchlab/cyclone/core"
	"github.com/sarchlab/cyclone/dataflow"
)

// A three-stage arithmetic pipeline run in parallel mode, with the kernel's
// trace narration enabled.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: core.LevelTrace,
	})))

	b := api.NewSimulation().
		WithExecutionMode(core.Parallel).
		WithParallelism(4)

	a := b.AddProcessing(dataflow.NewProcessing("Mod3",
		nil,
		[]dataflow.PortDecl{dataflow.Port[int]("out")},
		[]dataflow.PortDecl{dataflow.Port[int]("count")},
		func(_ dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			n, _, err := dataflow.ReadMem[int](mem, "count")
			if err != nil {
				return nil, err
			}
			if err := dataflow.WriteMem(mem, "count", n+1); err != nil {
				return nil, err
			}
			out := dataflow.OutputMap{}
			dataflow.Emit(out, "out", n%3)
			return out, nil
		}))

	double := b.AddProcessing(dataflow.NewProcessing("Double",
		[]dataflow.PortDecl{dataflow.Port[int]("in")},
		[]dataflow.PortDecl{dataflow.Port[int]("out")},
		nil,
		func(in dataflow.InputMap, _ dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			n, ok, err := dataflow.InputAs[int](in, "in")
			if err != nil || !ok {
				return nil, err
			}
			out := dataflow.OutputMap{}
			dataflow.Emit(out, "out", n*2)
			return out, nil
		}))

	addTen := b.AddProcessing(dataflow.NewProcessing("AddTen",
		[]dataflow.PortDecl{dataflow.Port[int]("in")},
		nil,
		[]dataflow.PortDecl{dataflow.Port[int]("last")},
		func(in dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			n, ok, err := dataflow.InputAs[int](in, "in")
			if err != nil || !ok {
				return nil, err
			}
			return nil, dataflow.WriteMem(mem, "last", n+10)
		}))

	count := b.AddMemory(dataflow.NewMemory("Count", 0))
	last := b.AddMemory(dataflow.NewMemory("Last", 0))

	driver := b.
		ConnectEdge(a, "out", double, "in").
		ConnectEdge(double, "out", addTen, "in").
		ConnectMemory(a, "count", count).
		ConnectMemory(addTen, "last", last).
		MustBuild()

	fmt.Println(core.RenderPlan(driver.Plan()))

	for i := 0; i < 6; i++ {
		if err := driver.Cycle(); err != nil {
			panic(err)
		}
		got, err := api.InspectAs[int](driver, last)
		if err != nil {
			panic(err)
		}
		fmt.Printf("cycle %d: pipeline output %d\n", driver.CurrentCycle(), got)
	}

	atexit.Exit(0)
}
