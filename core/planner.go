package core

import (
	"sort"
)

// A Plan is the staged execution order of the processing components: every
// component appears in exactly one stage, every edge crosses from an earlier
// stage into a strictly later one, and stage contents are sorted by
// identifier so two plans of the same graph are identical.
//
// Alongside the stages the plan carries the tables the scheduler consumes
// every cycle: the input-source map and each component's memory
// neighborhood.
type Plan struct {
	Stages [][]ComponentID

	// inputSources maps each connected input port to the output port
	// feeding it. Absent entries mean the input is unconnected.
	inputSources map[PortRef]PortRef

	// neighborhoods maps each processing component to the cells reachable
	// through its memory links, keyed by memory port name. Each cell shows
	// up in at most one neighborhood.
	neighborhoods map[ComponentID]map[string]*Cell

	// inputPorts caches each component's declared input ports so the
	// scheduler does not walk module declarations every cycle.
	inputPorts map[ComponentID][]string
}

// NumStages returns the number of stages.
func (p *Plan) NumStages() int {
	return len(p.Stages)
}

// NumComponents returns the number of scheduled processing components.
func (p *Plan) NumComponents() int {
	n := 0
	for _, stage := range p.Stages {
		n += len(stage)
	}
	return n
}

// StageOf returns the stage index of the component, or -1 if the component
// is not scheduled.
func (p *Plan) StageOf(id ComponentID) int {
	for i, stage := range p.Stages {
		for _, member := range stage {
			if member == id {
				return i
			}
		}
	}
	return -1
}

// InputSource returns the output port feeding the given input port.
func (p *Plan) InputSource(target PortRef) (PortRef, bool) {
	src, ok := p.inputSources[target]
	return src, ok
}

// Neighborhood returns the cells the component may touch, keyed by memory
// port name.
func (p *Plan) Neighborhood(id ComponentID) map[string]*Cell {
	return p.neighborhoods[id]
}

// Equal reports whether two plans stage the same components identically.
func (p *Plan) Equal(other *Plan) bool {
	if len(p.Stages) != len(other.Stages) {
		return false
	}
	for i, stage := range p.Stages {
		if len(stage) != len(other.Stages[i]) {
			return false
		}
		for j, id := range stage {
			if other.Stages[i][j] != id {
				return false
			}
		}
	}
	return true
}

// Planner produces the execution plan of a frozen graph. One planner
// produces one plan; a second Plan call fails with ErrDuplicatePlan.
type Planner struct {
	graph   *Graph
	planned bool
}

// NewPlanner creates a planner over the graph.
func NewPlanner(graph *Graph) *Planner {
	return &Planner{graph: graph}
}

// Plan stages the processing components with a Kahn-style topological sort.
// Only edges between processing components count; memory links never enter
// the dependency graph, which is how feedback through a cell stays legal
// while a combinational loop is rejected with ErrDependencyCycle.
func (p *Planner) Plan() (*Plan, error) {
	if p.planned {
		return nil, ErrDuplicatePlan
	}
	if !p.graph.Frozen() {
		p.graph.Freeze()
	}
	p.planned = true

	reg := p.graph.Registry()
	ids := reg.ProcessingIDs()

	inDegree := make(map[ComponentID]int, len(ids))
	successors := make(map[ComponentID][]ComponentID, len(ids))
	for _, id := range ids {
		inDegree[id] = 0
	}
	for sink, source := range p.graph.edgeBySink {
		inDegree[sink.Component]++
		successors[source.Component] = append(successors[source.Component], sink.Component)
	}

	var stages [][]ComponentID
	frontier := make([]ComponentID, 0, len(ids))
	for _, id := range ids {
		if inDegree[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	scheduled := 0
	for len(frontier) > 0 {
		sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })
		stages = append(stages, frontier)
		scheduled += len(frontier)

		var next []ComponentID
		for _, id := range frontier {
			for _, succ := range successors[id] {
				inDegree[succ]--
				if inDegree[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		frontier = next
	}

	if scheduled != len(ids) {
		var remaining []ComponentID
		for _, id := range ids {
			if inDegree[id] > 0 {
				remaining = append(remaining, id)
			}
		}
		return nil, &DependencyCycleError{Remaining: remaining}
	}

	plan := &Plan{
		Stages:        stages,
		inputSources:  make(map[PortRef]PortRef, len(p.graph.edgeBySink)),
		neighborhoods: make(map[ComponentID]map[string]*Cell),
		inputPorts:    make(map[ComponentID][]string, len(ids)),
	}
	for sink, source := range p.graph.edgeBySink {
		plan.inputSources[sink] = source
	}
	for _, id := range ids {
		module, err := reg.Processing(id)
		if err != nil {
			return nil, err
		}

		ports := make([]string, 0, len(module.Inputs()))
		for _, decl := range module.Inputs() {
			ports = append(ports, decl.Name)
		}
		plan.inputPorts[id] = ports

		neighborhood := make(map[string]*Cell)
		for _, decl := range module.MemoryPorts() {
			cellID, ok := p.graph.LinkedCell(PortRef{Component: id, Port: decl.Name})
			if !ok {
				continue
			}
			cell, err := reg.MemoryCell(cellID)
			if err != nil {
				return nil, err
			}
			neighborhood[decl.Name] = cell
		}
		if len(neighborhood) > 0 {
			plan.neighborhoods[id] = neighborhood
		}
	}

	return plan, nil
}
