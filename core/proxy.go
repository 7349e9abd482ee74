package core

import (
	"fmt"

	"github.com/sarchlab/cyclone/dataflow"
)

// memoryProxy is the per-component view onto a memory neighborhood. The
// scheduler builds one per Evaluate call, holding direct handles to exactly
// the cells the component's memory links reach. Two proxies of the same
// stage therefore touch disjoint cells, which is why stage-parallel
// execution needs no locking around memory.
type memoryProxy struct {
	owner ComponentID
	cells map[string]*Cell
}

var _ dataflow.MemoryAccess = (*memoryProxy)(nil)

func newMemoryProxy(owner ComponentID, cells map[string]*Cell) *memoryProxy {
	return &memoryProxy{owner: owner, cells: cells}
}

// Read returns the snapshot slot of the cell bound to the named memory
// port. Writes done earlier in the same cycle are not visible here.
func (p *memoryProxy) Read(port, key string) (dataflow.Value, bool, error) {
	cell, ok := p.cells[port]
	if !ok {
		return dataflow.Value{}, false,
			fmt.Errorf("component %s has no bound memory port %q: %w",
				p.owner, port, ErrUnknownPort)
	}
	v, ok := cell.ReadSnapshot(key)
	return v, ok, nil
}

// Write replaces the current slot of the cell bound to the named memory
// port. The write becomes visible to reads on the next cycle.
func (p *memoryProxy) Write(port, key string, v dataflow.Value) error {
	cell, ok := p.cells[port]
	if !ok {
		return fmt.Errorf("component %s has no bound memory port %q: %w",
			p.owner, port, ErrUnknownPort)
	}
	if err := cell.WriteCurrent(key, v); err != nil {
		return fmt.Errorf("component %s port %q: %w", p.owner, port, err)
	}
	return nil
}
