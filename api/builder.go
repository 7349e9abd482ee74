package api

import (
	"fmt"

	"github.com/sarchlab/cyclone/core"
	"github.com/sarchlab/cyclone/dataflow"
)

// SimulationBuilder assembles a simulation: register modules, wire ports,
// pick the execution mode, then Build. The first wiring error sticks and
// comes back from Build; the add and connect calls stay chainable in
// between.
type SimulationBuilder struct {
	cfg      core.Config
	registry *core.Registry
	graph    *core.Graph
	err      error
}

// NewSimulation creates an empty simulation builder in sequential mode.
func NewSimulation() *SimulationBuilder {
	registry := core.NewRegistry()
	return &SimulationBuilder{
		cfg:      core.DefaultConfig(),
		registry: registry,
		graph:    core.NewGraph(registry),
	}
}

// WithExecutionMode selects sequential or parallel stage execution.
func (b *SimulationBuilder) WithExecutionMode(mode core.ExecutionMode) *SimulationBuilder {
	b.cfg.Mode = mode
	return b
}

// WithParallelism bounds the worker pool in parallel mode. Zero means the
// platform's reported parallelism.
func (b *SimulationBuilder) WithParallelism(n int) *SimulationBuilder {
	b.cfg.Parallelism = n
	return b
}

// AddProcessing instantiates a processing module and returns the instance's
// identifier.
func (b *SimulationBuilder) AddProcessing(module dataflow.ProcessingModule) core.ComponentID {
	return b.registry.AddProcessing(module)
}

// AddProcessingAs instantiates a processing module under a caller-chosen
// identifier.
func (b *SimulationBuilder) AddProcessingAs(id core.ComponentID, module dataflow.ProcessingModule) *SimulationBuilder {
	b.record(b.registry.AddProcessingAs(id, module))
	return b
}

// AddMemory instantiates a memory module as a cell and returns the cell's
// identifier.
func (b *SimulationBuilder) AddMemory(module dataflow.MemoryModule) core.ComponentID {
	return b.registry.AddMemory(module)
}

// AddMemoryAs instantiates a memory module under a caller-chosen identifier.
func (b *SimulationBuilder) AddMemoryAs(id core.ComponentID, module dataflow.MemoryModule) *SimulationBuilder {
	b.record(b.registry.AddMemoryAs(id, module))
	return b
}

// ConnectEdge wires an output port to an input port.
func (b *SimulationBuilder) ConnectEdge(source core.ComponentID, sourcePort string, target core.ComponentID, targetPort string) *SimulationBuilder {
	b.record(b.graph.ConnectEdge(
		core.PortRef{Component: source, Port: sourcePort},
		core.PortRef{Component: target, Port: targetPort},
	))
	return b
}

// ConnectMemory binds a processing component's memory port to a cell.
func (b *SimulationBuilder) ConnectMemory(component core.ComponentID, memPort string, cell core.ComponentID) *SimulationBuilder {
	b.record(b.graph.ConnectMemory(
		core.PortRef{Component: component, Port: memPort},
		cell,
	))
	return b
}

func (b *SimulationBuilder) record(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Err returns the first wiring error recorded so far.
func (b *SimulationBuilder) Err() error {
	return b.err
}

// Build freezes the graph, runs the planner, and returns the driver. After
// a successful Build the builder is spent; further wiring fails with
// ErrGraphFrozen.
func (b *SimulationBuilder) Build() (Driver, error) {
	if b.err != nil {
		return nil, fmt.Errorf("building simulation: %w", b.err)
	}

	b.graph.Freeze()
	plan, err := core.NewPlanner(b.graph).Plan()
	if err != nil {
		return nil, fmt.Errorf("building simulation: %w", err)
	}

	core.Trace("simulation built",
		"components", plan.NumComponents(),
		"stages", plan.NumStages(),
		"cells", b.registry.NumCells(),
		"mode", b.cfg.Mode.String(),
	)

	return &driverImpl{
		scheduler: core.NewScheduler(b.graph, plan, b.cfg),
		plan:      plan,
	}, nil
}

// MustBuild is Build that panics on error. For samples and tests.
func (b *SimulationBuilder) MustBuild() Driver {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
