package dataflow

import "reflect"

// EvalFunc is the evaluate operation of a function-backed processing module.
type EvalFunc func(in InputMap, mem MemoryAccess) (OutputMap, error)

type funcProcessing struct {
	name    string
	inputs  []PortDecl
	outputs []PortDecl
	memory  []PortDecl
	eval    EvalFunc
}

// NewProcessing declares a processing module from port lists and an evaluate
// closure, without writing a struct type. The closure is subject to the same
// purity contract as any Evaluate.
func NewProcessing(name string, inputs, outputs, memory []PortDecl, eval EvalFunc) ProcessingModule {
	if name == "" {
		panic("processing module needs a name")
	}
	if eval == nil {
		panic("processing module " + name + " needs an evaluate function")
	}
	return &funcProcessing{
		name:    name,
		inputs:  inputs,
		outputs: outputs,
		memory:  memory,
		eval:    eval,
	}
}

func (m *funcProcessing) Name() string            { return m.name }
func (m *funcProcessing) Inputs() []PortDecl      { return m.inputs }
func (m *funcProcessing) Outputs() []PortDecl     { return m.outputs }
func (m *funcProcessing) MemoryPorts() []PortDecl { return m.memory }

func (m *funcProcessing) Evaluate(in InputMap, mem MemoryAccess) (OutputMap, error) {
	return m.eval(in, mem)
}

type funcMemory[T any] struct {
	name  string
	init  T
	cycle func(T) T
}

// MemoryOption configures a memory module declared with NewMemory.
type MemoryOption[T any] func(*funcMemory[T])

// WithCycleHook installs the per-cycle bookkeeping hook. The hook receives
// each occupied current slot and returns its advanced payload.
func WithCycleHook[T any](hook func(T) T) MemoryOption[T] {
	return func(m *funcMemory[T]) {
		m.cycle = hook
	}
}

// NewMemory declares a memory module storing payloads of type T, seeded
// with init.
func NewMemory[T any](name string, init T, opts ...MemoryOption[T]) MemoryModule {
	if name == "" {
		panic("memory module needs a name")
	}
	m := &funcMemory[T]{name: name, init: init}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *funcMemory[T]) Name() string              { return m.name }
func (m *funcMemory[T]) PayloadType() reflect.Type { return TypeOf[T]() }
func (m *funcMemory[T]) InitialValue() Value       { return NewValue(m.init) }

func (m *funcMemory[T]) Cycle(current Value) Value {
	if m.cycle == nil {
		return current
	}
	payload, err := As[T](current)
	if err != nil {
		// Slots are type-checked on write, so a foreign payload cannot be
		// in here.
		return current
	}
	return NewValue(m.cycle(payload))
}
