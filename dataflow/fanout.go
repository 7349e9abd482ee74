package dataflow

import "fmt"

// The graph enforces one consumer per output port. Fan-out is expressed by
// inserting one of these duplicators between the producer and its consumers.

const FanoutIn = "in"

// FanoutOut returns the name of the i-th duplicated output, "out0", "out1", ...
func FanoutOut(i int) string {
	return fmt.Sprintf("out%d", i)
}

// Fanout declares a duplicator with n outputs carrying payloads of type T.
// Each output repeats the input value; an absent input produces no outputs.
func Fanout[T any](name string, n int) ProcessingModule {
	if n < 2 {
		panic("fanout needs at least 2 outputs")
	}
	outputs := make([]PortDecl, n)
	for i := range outputs {
		outputs[i] = Port[T](FanoutOut(i))
	}
	return NewProcessing(name,
		[]PortDecl{Port[T](FanoutIn)},
		outputs,
		nil,
		func(in InputMap, _ MemoryAccess) (OutputMap, error) {
			v, ok := in.Get(FanoutIn)
			if !ok {
				return nil, nil
			}
			if _, err := As[T](v); err != nil {
				return nil, err
			}
			out := make(OutputMap, n)
			for i := 0; i < n; i++ {
				out[FanoutOut(i)] = v
			}
			return out, nil
		})
}

// Fanout2 declares a two-way duplicator.
func Fanout2[T any](name string) ProcessingModule {
	return Fanout[T](name, 2)
}

// Fanout3 declares a three-way duplicator.
func Fanout3[T any](name string) ProcessingModule {
	return Fanout[T](name, 3)
}
