package core

import (
	"reflect"

	"github.com/sarchlab/cyclone/dataflow"
)

// ComponentID is the stable handle of one component instance. Two instances
// of the same module have different identifiers; identifiers are assigned at
// registration and never reused.
type ComponentID string

// PortRef addresses one port on one component.
type PortRef struct {
	Component ComponentID
	Port      string
}

func (r PortRef) String() string {
	return string(r.Component) + "." + r.Port
}

// A Cell is an instance of a memory module: keyed slots over one declared
// payload type, double-buffered as current and snapshot. During a cycle,
// reads observe snapshot and writes land in current; Advance promotes
// current to snapshot exactly once per cycle, after all processing.
type Cell struct {
	id          ComponentID
	module      dataflow.MemoryModule
	payloadType reflect.Type

	current  map[string]dataflow.Value
	snapshot map[string]dataflow.Value
}

// NewCell instantiates module as a cell. Both slots start at the module's
// initial value under the conventional key, so the very first cycle reads
// the initial value.
func NewCell(id ComponentID, module dataflow.MemoryModule) *Cell {
	init := module.InitialValue()
	return &Cell{
		id:          id,
		module:      module,
		payloadType: module.PayloadType(),
		current:     map[string]dataflow.Value{dataflow.DefaultKey: init},
		snapshot:    map[string]dataflow.Value{dataflow.DefaultKey: init},
	}
}

func (c *Cell) ID() ComponentID {
	return c.id
}

func (c *Cell) Module() dataflow.MemoryModule {
	return c.module
}

// PayloadType is the declared type every slot of this cell holds.
func (c *Cell) PayloadType() reflect.Type {
	return c.payloadType
}

// ReadSnapshot returns the snapshot slot under key. The bool is false when
// the slot is empty.
func (c *Cell) ReadSnapshot(key string) (dataflow.Value, bool) {
	v, ok := c.snapshot[key]
	return v, ok
}

// WriteCurrent replaces the current slot under key. A payload of a type
// other than the declared one fails with ErrTypeMismatch and leaves the
// slot unchanged.
func (c *Cell) WriteCurrent(key string, v dataflow.Value) error {
	if v.Type() != c.payloadType {
		return &dataflow.TypeMismatchError{
			Key:      key,
			Expected: c.payloadType.String(),
			Actual:   v.TypeName(),
		}
	}
	c.current[key] = v
	return nil
}

// Cycle runs the module's bookkeeping hook over every occupied current
// slot. The engine calls it once per cycle, before Advance.
func (c *Cell) Cycle() {
	for key, v := range c.current {
		c.current[key] = c.module.Cycle(v)
	}
}

// Advance promotes current into snapshot. The engine calls it exactly once
// per cycle, after all processing; components never call it.
func (c *Cell) Advance() {
	// Slots are only ever added or replaced, so copying forward is a full
	// snapshot assignment.
	for key, v := range c.current {
		c.snapshot[key] = v
	}
}
