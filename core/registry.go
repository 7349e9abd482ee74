package core

import (
	"fmt"
	"sort"

	"github.com/sarchlab/cyclone/dataflow"
)

// Registry owns every component instance of one simulation, keyed by
// identifier. Components come in two kinds with distinct lifecycles, so the
// registry keeps them in two tables instead of one polymorphic one.
type Registry struct {
	seq        int
	processing map[ComponentID]dataflow.ProcessingModule
	cells      map[ComponentID]*Cell
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		processing: make(map[ComponentID]dataflow.ProcessingModule),
		cells:      make(map[ComponentID]*Cell),
	}
}

func (r *Registry) nextID(moduleName string) ComponentID {
	r.seq++
	return ComponentID(fmt.Sprintf("%s.%d", moduleName, r.seq))
}

func (r *Registry) taken(id ComponentID) bool {
	if _, ok := r.processing[id]; ok {
		return true
	}
	_, ok := r.cells[id]
	return ok
}

// AddProcessing instantiates module, assigning a fresh identifier.
func (r *Registry) AddProcessing(module dataflow.ProcessingModule) ComponentID {
	id := r.nextID(module.Name())
	r.processing[id] = module
	return id
}

// AddProcessingAs instantiates module under a caller-chosen identifier.
func (r *Registry) AddProcessingAs(id ComponentID, module dataflow.ProcessingModule) error {
	if r.taken(id) {
		return fmt.Errorf("registering %s: %w", id, ErrDuplicateIdentifier)
	}
	r.processing[id] = module
	return nil
}

// AddMemory instantiates module as a cell, assigning a fresh identifier.
func (r *Registry) AddMemory(module dataflow.MemoryModule) ComponentID {
	id := r.nextID(module.Name())
	r.cells[id] = NewCell(id, module)
	return id
}

// AddMemoryAs instantiates module as a cell under a caller-chosen identifier.
func (r *Registry) AddMemoryAs(id ComponentID, module dataflow.MemoryModule) error {
	if r.taken(id) {
		return fmt.Errorf("registering %s: %w", id, ErrDuplicateIdentifier)
	}
	r.cells[id] = NewCell(id, module)
	return nil
}

// Processing looks up a processing component.
func (r *Registry) Processing(id ComponentID) (dataflow.ProcessingModule, error) {
	m, ok := r.processing[id]
	if !ok {
		return nil, fmt.Errorf("processing component %s: %w", id, ErrUnknownIdentifier)
	}
	return m, nil
}

// MemoryCell looks up a memory cell.
func (r *Registry) MemoryCell(id ComponentID) (*Cell, error) {
	c, ok := r.cells[id]
	if !ok {
		return nil, fmt.Errorf("memory cell %s: %w", id, ErrUnknownIdentifier)
	}
	return c, nil
}

// ProcessingIDs returns every processing component identifier, sorted.
func (r *Registry) ProcessingIDs() []ComponentID {
	ids := make([]ComponentID, 0, len(r.processing))
	for id := range r.processing {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CellIDs returns every memory cell identifier, sorted.
func (r *Registry) CellIDs() []ComponentID {
	ids := make([]ComponentID, 0, len(r.cells))
	for id := range r.cells {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Cells returns every memory cell in identifier order.
func (r *Registry) Cells() []*Cell {
	ids := r.CellIDs()
	cells := make([]*Cell, len(ids))
	for i, id := range ids {
		cells[i] = r.cells[id]
	}
	return cells
}

// NumProcessing returns the number of processing components.
func (r *Registry) NumProcessing() int {
	return len(r.processing)
}

// NumCells returns the number of memory cells.
func (r *Registry) NumCells() int {
	return len(r.cells)
}
