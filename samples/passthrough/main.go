package main

import (
	"fmt"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/cyclone/api"
	"github.com/sarchlab/cyclone/core"
	"github.com/sarchlab/cyclone/dataflow"
	"github.com/sarchlab/cyclone/util/valgen"
)

func main() {
	b := api.NewSimulation()

	gen := valgen.MakeConstGen(7)
	src := b.AddProcessing(dataflow.NewProcessing("Src",
		nil,
		[]dataflow.PortDecl{dataflow.Port[int]("out")},
		nil,
		func(_ dataflow.InputMap, _ dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			out := dataflow.OutputMap{}
			dataflow.Emit(out, "out", gen())
			return out, nil
		}))

	relay := b.AddProcessing(dataflow.NewProcessing("Relay",
		[]dataflow.PortDecl{dataflow.Port[int]("in")},
		[]dataflow.PortDecl{dataflow.Port[int]("out")},
		nil,
		func(in dataflow.InputMap, _ dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			v, ok := in.Get("in")
			if !ok {
				return nil, nil
			}
			return dataflow.OutputMap{"out": v}, nil
		}))

	sink := b.AddProcessing(dataflow.NewProcessing("Sink",
		[]dataflow.PortDecl{dataflow.Port[int]("in")},
		nil,
		[]dataflow.PortDecl{dataflow.Port[int]("cell")},
		func(in dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
			n, ok, err := dataflow.InputAs[int](in, "in")
			if err != nil || !ok {
				return nil, err
			}
			return nil, dataflow.WriteMem(mem, "cell", n)
		}))

	cell := b.AddMemory(dataflow.NewMemory("M", 0))

	driver := b.
		ConnectEdge(src, "out", relay, "in").
		ConnectEdge(relay, "out", sink, "in").
		ConnectMemory(sink, "cell", cell).
		MustBuild()

	fmt.Println(core.RenderPlan(driver.Plan()))

	if _, err := driver.Run(3, nil); err != nil {
		panic(err)
	}

	got, err := api.InspectAs[int](driver, cell)
	if err != nil {
		panic(err)
	}
	fmt.Printf("after %d cycles, cell %s = %d\n", driver.CurrentCycle(), cell, got)

	atexit.Exit(0)
}
