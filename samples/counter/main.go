package main

import (
	"fmt"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/cyclone/api"
	"github.com/sarchlab/cyclone/dataflow"
	"github.com/sarchlab/cyclone/util/valgen"
)

func main() {
	b := api.NewSimulation()

	inc := b.AddProcessing(dataflow.NewProcessing("Inc",
		nil,
		[]dataflow.PortDecl{dataflow.Port[int]("out")},
		[]dataflow.PortDecl{dataflow.Port[int]("k")},
		func(_ dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			n, _, err := dataflow.ReadMem[int](mem, "k")
			if err != nil {
				return nil, err
			}
			if err := dataflow.WriteMem(mem, "k", n+1); err != nil {
				return nil, err
			}
			out := dataflow.OutputMap{}
			dataflow.Emit(out, "out", n)
			return out, nil
		}))

	tap := b.AddProcessing(dataflow.NewProcessing("Tap",
		[]dataflow.PortDecl{dataflow.Port[int]("in")},
		nil,
		[]dataflow.PortDecl{dataflow.Port[int]("last")},
		func(in dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			n, ok, err := dataflow.InputAs[int](in, "in")
			if err != nil || !ok {
				return nil, err
			}
			return nil, dataflow.WriteMem(mem, "last", n)
		}))

	k := b.AddMemory(dataflow.NewMemory("K", 5))
	last := b.AddMemory(dataflow.NewMemory("Last", -1))

	driver := b.
		ConnectEdge(inc, "out", tap, "in").
		ConnectMemory(inc, "k", k).
		ConnectMemory(tap, "last", last).
		MustBuild()

	// The expected emissions are the same closed-form sequence the cell
	// produces: 5, 6, 7, ...
	expect := valgen.MakeIncreasingGen(4)

	for i := 0; i < 4; i++ {
		if err := driver.Cycle(); err != nil {
			panic(err)
		}
		got, err := api.InspectAs[int](driver, last)
		if err != nil {
			panic(err)
		}
		fmt.Printf("cycle %d: emitted %d (expected %d)\n",
			driver.CurrentCycle(), got, expect())
	}

	final, err := api.InspectAs[int](driver, k)
	if err != nil {
		panic(err)
	}
	fmt.Printf("counter cell ends at %d\n", final)

	atexit.Exit(0)
}
