// Package dataflow defines the commonly used data structures for component
// dataflow graphs: type-erased values, port declarations, and the module
// contracts that processing and memory components are instantiated from.
package dataflow

import "reflect"

// PortRole classifies a port on a component.
type PortRole int

const (
	RoleInput PortRole = iota
	RoleOutput
	RoleMemory
)

var roleNames = []string{"Input", "Output", "Memory"}

// Name returns the name of the role.
func (r PortRole) Name() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "Unknown"
}

// The two fixed port names every memory component carries. Edges never
// attach to them; they exist so a cell is addressable like any other
// component.
const (
	MemoryIn  = "in"
	MemoryOut = "out"
)

// DefaultKey is the conventional slot key for cells that store a single
// value. The single-value proxy helpers and Inspect use it.
const DefaultKey = "state"

// PortDecl declares a named port. Type is the declared payload type, or nil
// when the port is untyped; typed ports are checked at connect time, untyped
// ones only when the value is read.
type PortDecl struct {
	Name string
	Type reflect.Type
}

// Port declares a port carrying payloads of type T.
func Port[T any](name string) PortDecl {
	return PortDecl{Name: name, Type: TypeOf[T]()}
}

// UntypedPort declares a port with no declared payload type.
func UntypedPort(name string) PortDecl {
	return PortDecl{Name: name}
}

// InputMap carries one cycle's inputs into Evaluate, keyed by input port
// name. Unconnected ports and ports whose source produced nothing this
// cycle are simply absent.
type InputMap map[string]Value

// Get returns the value on the named port and whether it is present.
func (m InputMap) Get(port string) (Value, bool) {
	v, ok := m[port]
	return v, ok
}

// InputAs extracts the value on the named port as T. The second return is
// false when the port carries nothing this cycle.
func InputAs[T any](m InputMap, port string) (T, bool, error) {
	v, ok := m[port]
	if !ok {
		var zero T
		return zero, false, nil
	}
	payload, err := As[T](v)
	if err != nil {
		var zero T
		return zero, true, err
	}
	return payload, true, nil
}

// OutputMap carries one cycle's outputs out of Evaluate, keyed by output
// port name. Emitting twice on the same port within a cycle overwrites.
type OutputMap map[string]Value

// Emit records a payload on the named output port.
func Emit[T any](m OutputMap, port string, payload T) {
	m[port] = NewValue(payload)
}

// MemoryAccess is the view onto a component's memory neighborhood that the
// scheduler hands to Evaluate. Reads observe the snapshot slots, writes land
// in the current slots; nothing written becomes visible before the next
// cycle.
type MemoryAccess interface {
	// Read returns the snapshot slot of the cell bound to the named memory
	// port. The bool is false when the slot holds nothing under key.
	Read(port, key string) (Value, bool, error)

	// Write replaces the current slot of the bound cell. Writing a payload
	// type other than the cell's declared one fails with ErrTypeMismatch
	// and leaves the slot unchanged.
	Write(port, key string, v Value) error
}

// ReadMem reads the conventional single-value slot of the cell behind port.
func ReadMem[T any](m MemoryAccess, port string) (T, bool, error) {
	return ReadMemKey[T](m, port, DefaultKey)
}

// ReadMemKey reads a keyed slot of the cell behind port as T.
func ReadMemKey[T any](m MemoryAccess, port, key string) (T, bool, error) {
	v, ok, err := m.Read(port, key)
	if err != nil || !ok {
		var zero T
		return zero, ok, err
	}
	payload, err := As[T](v)
	if err != nil {
		var zero T
		return zero, true, err
	}
	return payload, true, nil
}

// WriteMem writes the conventional single-value slot of the cell behind port.
func WriteMem[T any](m MemoryAccess, port string, payload T) error {
	return m.Write(port, DefaultKey, NewValue(payload))
}

// WriteMemKey writes a keyed slot of the cell behind port.
func WriteMemKey[T any](m MemoryAccess, port, key string, payload T) error {
	return m.Write(port, key, NewValue(payload))
}

// A ProcessingModule is the template processing components are instantiated
// from. Evaluate must be a pure function of its inputs and the snapshot
// state reachable through mem: no hidden state, no I/O, no wall clock, no
// OS randomness. State and seeds live in memory cells.
type ProcessingModule interface {
	// Name is the human name of the module. It prefixes the identifiers of
	// instances created from it.
	Name() string

	Inputs() []PortDecl
	Outputs() []PortDecl
	MemoryPorts() []PortDecl

	Evaluate(in InputMap, mem MemoryAccess) (OutputMap, error)
}

// A MemoryModule is the template memory cells are instantiated from. A cell
// holds keyed slots over a single declared payload type, double-buffered as
// current and snapshot.
type MemoryModule interface {
	Name() string

	// PayloadType is the declared type of every slot in the cell.
	PayloadType() reflect.Type

	// InitialValue seeds both slots of a fresh cell under DefaultKey, so
	// the first cycle already observes it.
	InitialValue() Value

	// Cycle is the per-cycle bookkeeping hook, applied to every occupied
	// current slot after processing and before the snapshot advance.
	// Modules without internal bookkeeping return the slot unchanged.
	Cycle(current Value) Value
}
