// Package api provides the user-facing surface of the simulation kernel:
// a builder for the build phase and a driver for the run phase.
package api

import (
	"github.com/sarchlab/cyclone/core"
	"github.com/sarchlab/cyclone/dataflow"
)

// Driver runs a built simulation. The graph behind it is frozen; all that
// is left to do is advance cycles and look at memory.
type Driver interface {
	// Cycle advances the simulation exactly one cycle. A failing cycle
	// changes no state and is re-attempted by the next call.
	Cycle() error

	// Run repeats Cycle until maxCycles cycles have completed, the
	// optional predicate reports true, or a cycle fails. It returns the
	// number of cycles completed by this call.
	Run(maxCycles int, until func(Driver) bool) (int, error)

	// CurrentCycle returns the number of completed cycles.
	CurrentCycle() uint64

	// Inspect reads a cell's snapshot under the conventional key. Meant
	// for tests and probes, not for driving logic.
	Inspect(cell core.ComponentID) (dataflow.Value, error)

	// InspectKey reads a keyed slot of a cell's snapshot.
	InspectKey(cell core.ComponentID, key string) (dataflow.Value, error)

	// Plan exposes the staged execution order, for diagnostics.
	Plan() *core.Plan
}

type driverImpl struct {
	scheduler *core.Scheduler
	plan      *core.Plan
}

func (d *driverImpl) Cycle() error {
	return d.scheduler.Cycle()
}

func (d *driverImpl) Run(maxCycles int, until func(Driver) bool) (int, error) {
	if until == nil {
		return d.scheduler.Run(maxCycles, nil)
	}
	return d.scheduler.Run(maxCycles, func(*core.Scheduler) bool {
		return until(d)
	})
}

func (d *driverImpl) CurrentCycle() uint64 {
	return d.scheduler.CurrentCycle()
}

func (d *driverImpl) Inspect(cell core.ComponentID) (dataflow.Value, error) {
	return d.scheduler.Snapshot(cell, dataflow.DefaultKey)
}

func (d *driverImpl) InspectKey(cell core.ComponentID, key string) (dataflow.Value, error) {
	return d.scheduler.Snapshot(cell, key)
}

func (d *driverImpl) Plan() *core.Plan {
	return d.plan
}

// InspectAs reads a cell's snapshot under the conventional key as T.
func InspectAs[T any](d Driver, cell core.ComponentID) (T, error) {
	v, err := d.Inspect(cell)
	if err != nil {
		var zero T
		return zero, err
	}
	return dataflow.As[T](v)
}

// InspectKeyAs reads a keyed slot of a cell's snapshot as T.
func InspectKeyAs[T any](d Driver, cell core.ComponentID, key string) (T, error) {
	v, err := d.InspectKey(cell, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return dataflow.As[T](v)
}
