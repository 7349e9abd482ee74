package core

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/cyclone/dataflow"
)

// Scheduler advances a planned graph one cycle at a time. Within a cycle it
// evaluates every processing component stage by stage, feeding each one the
// outputs its upstream stages settled earlier in the cycle and a proxy over
// its memory neighborhood, then advances every memory cell and swaps the
// output buffers.
//
// A failing cycle changes nothing: the counter rolls back, no cell
// advances, and the next Cycle call re-attempts the same cycle number.
type Scheduler struct {
	graph *Graph
	plan  *Plan
	cfg   Config

	// pending collects the cycle in progress: each stage's outputs land
	// here at the stage barrier and are what later stages read, so data
	// settles through the whole combinational path within one cycle and
	// only memory cells add latency. active keeps the last completed
	// cycle's outputs for probes; the two swap at cycle end.
	active  map[PortRef]dataflow.Value
	pending map[PortRef]dataflow.Value

	cycle uint64
}

// NewScheduler creates a scheduler over a frozen graph and its plan.
func NewScheduler(graph *Graph, plan *Plan, cfg Config) *Scheduler {
	return &Scheduler{
		graph:   graph,
		plan:    plan,
		cfg:     cfg,
		active:  make(map[PortRef]dataflow.Value),
		pending: make(map[PortRef]dataflow.Value),
	}
}

// CurrentCycle returns the number of completed cycles.
func (s *Scheduler) CurrentCycle() uint64 {
	return s.cycle
}

// Config returns the scheduler's configuration.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// ActiveOutput returns the value the named output port produced in the last
// completed cycle. Probes and tests use it; components read inputs through
// their InputMap.
func (s *Scheduler) ActiveOutput(ref PortRef) (dataflow.Value, bool) {
	v, ok := s.active[ref]
	return v, ok
}

// Snapshot reads a keyed slot of a cell's snapshot.
func (s *Scheduler) Snapshot(cell ComponentID, key string) (dataflow.Value, error) {
	c, err := s.graph.Registry().MemoryCell(cell)
	if err != nil {
		return dataflow.Value{}, err
	}
	v, _ := c.ReadSnapshot(key)
	return v, nil
}

// Cycle advances the simulation exactly one cycle.
func (s *Scheduler) Cycle() error {
	s.cycle++
	clear(s.pending)

	Trace("cycle begin", "cycle", s.cycle, "mode", s.cfg.Mode.String())

	var err error
	switch s.cfg.Mode {
	case Parallel:
		err = s.runStagesParallel()
	default:
		err = s.runStagesSequential()
	}
	if err != nil {
		// No memory advance, no buffer swap; the failed cycle never
		// happened as far as state is concerned.
		s.cycle--
		return err
	}

	s.advanceMemory()

	s.active, s.pending = s.pending, s.active
	Trace("cycle end", "cycle", s.cycle)
	return nil
}

// Run repeats Cycle until maxCycles cycles have completed, until the
// optional predicate reports true, or until a cycle fails. It returns the
// number of cycles completed by this call.
func (s *Scheduler) Run(maxCycles int, until func(*Scheduler) bool) (int, error) {
	for n := 0; n < maxCycles; n++ {
		if until != nil && until(s) {
			return n, nil
		}
		if err := s.Cycle(); err != nil {
			return n, err
		}
	}
	return maxCycles, nil
}

func (s *Scheduler) runStagesSequential() error {
	for stageIdx, stage := range s.plan.Stages {
		for _, id := range stage {
			out, err := s.evaluate(id)
			if err != nil {
				return &CycleError{
					Cycle:    s.cycle,
					Failures: []*ComponentError{{Component: id, Err: err}},
				}
			}
			if err := s.collect(id, out); err != nil {
				return &CycleError{
					Cycle:    s.cycle,
					Failures: []*ComponentError{{Component: id, Err: err}},
				}
			}
		}
		Trace("stage done", "cycle", s.cycle, "stage", stageIdx)
	}
	return nil
}

func (s *Scheduler) runStagesParallel() error {
	workers := s.cfg.workers()

	for stageIdx, stage := range s.plan.Stages {
		outs := make([]dataflow.OutputMap, len(stage))
		errs := make([]error, len(stage))

		var group errgroup.Group
		group.SetLimit(workers)
		for i, id := range stage {
			group.Go(func() error {
				outs[i], errs[i] = s.evaluate(id)
				return nil
			})
		}
		// Stage barrier: nothing of stage k+1 starts before all of stage
		// k returned, and the merge below runs single-threaded.
		if err := group.Wait(); err != nil {
			return err
		}

		var failures []*ComponentError
		for i, id := range stage {
			if errs[i] != nil {
				failures = append(failures, &ComponentError{Component: id, Err: errs[i]})
			}
		}
		if len(failures) > 0 {
			return &CycleError{Cycle: s.cycle, Failures: failures}
		}

		// Merge in stage order so any collision resolves the same way on
		// every run.
		for i, id := range stage {
			if err := s.collect(id, outs[i]); err != nil {
				return &CycleError{
					Cycle:    s.cycle,
					Failures: []*ComponentError{{Component: id, Err: err}},
				}
			}
		}
		Trace("stage done", "cycle", s.cycle, "stage", stageIdx, "workers", workers)
	}
	return nil
}

// evaluate assembles the component's input map, builds its memory proxy,
// and invokes the module.
func (s *Scheduler) evaluate(id ComponentID) (dataflow.OutputMap, error) {
	module, err := s.graph.Registry().Processing(id)
	if err != nil {
		return nil, err
	}

	in := make(dataflow.InputMap)
	for _, port := range s.plan.inputPorts[id] {
		source, ok := s.plan.InputSource(PortRef{Component: id, Port: port})
		if !ok {
			continue
		}
		// Sources sit in strictly earlier stages, so their outputs for
		// this cycle are already collected. A source that emitted nothing
		// this cycle leaves the input absent.
		if v, ok := s.pending[source]; ok {
			in[port] = v
		}
	}

	proxy := newMemoryProxy(id, s.plan.Neighborhood(id))
	return module.Evaluate(in, proxy)
}

// collect records a component's emitted outputs into the pending buffer.
// Emits on undeclared ports and typed-port violations are component
// failures.
func (s *Scheduler) collect(id ComponentID, out dataflow.OutputMap) error {
	if len(out) == 0 {
		return nil
	}
	module, err := s.graph.Registry().Processing(id)
	if err != nil {
		return err
	}
	for port, v := range out {
		decl, ok := findDecl(module.Outputs(), port)
		if !ok {
			return fmt.Errorf("emitted on undeclared output %q: %w", port, ErrUnknownPort)
		}
		if decl.Type != nil && v.Type() != decl.Type {
			return &dataflow.TypeMismatchError{
				Port:     port,
				Expected: decl.Type.String(),
				Actual:   v.TypeName(),
			}
		}
		s.pending[PortRef{Component: id, Port: port}] = v
	}
	return nil
}

// advanceMemory runs every cell's bookkeeping hook and promotes current to
// snapshot. Cells have exclusive owners, so Parallel mode fans the advance
// out across the pool.
func (s *Scheduler) advanceMemory() {
	cells := s.graph.Registry().Cells()

	if s.cfg.Mode == Parallel && len(cells) > 1 {
		var group errgroup.Group
		group.SetLimit(s.cfg.workers())
		for _, cell := range cells {
			group.Go(func() error {
				cell.Cycle()
				cell.Advance()
				return nil
			})
		}
		_ = group.Wait()
		return
	}

	for _, cell := range cells {
		cell.Cycle()
		cell.Advance()
	}
}
