package core_test

import (
	"errors"
	"fmt"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cyclone/core"
	"github.com/sarchlab/cyclone/dataflow"
)

// buildScheduler plans the graph and wraps it in a scheduler.
func buildScheduler(graph *core.Graph, cfg core.Config) *core.Scheduler {
	plan, err := core.NewPlanner(graph).Plan()
	Expect(err).ToNot(HaveOccurred())
	return core.NewScheduler(graph, plan, cfg)
}

var _ = Describe("Scheduler", func() {
	var (
		registry *core.Registry
		graph    *core.Graph
	)

	BeforeEach(func() {
		registry = core.NewRegistry()
		graph = core.NewGraph(registry)
	})

	connect := func(s core.ComponentID, sp string, t core.ComponentID, tp string) {
		Expect(graph.ConnectEdge(
			core.PortRef{Component: s, Port: sp},
			core.PortRef{Component: t, Port: tp})).To(Succeed())
	}
	link := func(c core.ComponentID, port string, cell core.ComponentID) {
		Expect(graph.ConnectMemory(
			core.PortRef{Component: c, Port: port}, cell)).To(Succeed())
	}

	It("should count cycles", func() {
		registry.AddProcessing(constSource("Src", 1))
		s := buildScheduler(graph, core.DefaultConfig())

		Expect(s.CurrentCycle()).To(Equal(uint64(0)))
		Expect(s.Cycle()).To(Succeed())
		Expect(s.Cycle()).To(Succeed())
		Expect(s.CurrentCycle()).To(Equal(uint64(2)))
	})

	It("should settle data through all stages within one cycle", func() {
		src := registry.AddProcessing(constSource("Src", 7))
		p := registry.AddProcessing(identity("P"))
		sink := registry.AddProcessing(memSink("Sink"))
		cell := registry.AddMemory(dataflow.NewMemory("M", 0))
		connect(src, "out", p, "in")
		connect(p, "out", sink, "in")
		link(sink, "cell", cell)

		s := buildScheduler(graph, core.DefaultConfig())
		Expect(s.Cycle()).To(Succeed())

		v, err := s.Snapshot(cell, dataflow.DefaultKey)
		Expect(err).ToNot(HaveOccurred())
		n, err := dataflow.As[int](v)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(7))
	})

	It("should expose the completed cycle's outputs to probes", func() {
		src := registry.AddProcessing(constSource("Src", 7))
		s := buildScheduler(graph, core.DefaultConfig())

		_, ok := s.ActiveOutput(core.PortRef{Component: src, Port: "out"})
		Expect(ok).To(BeFalse())

		Expect(s.Cycle()).To(Succeed())

		v, ok := s.ActiveOutput(core.PortRef{Component: src, Port: "out"})
		Expect(ok).To(BeTrue())
		n, _ := dataflow.As[int](v)
		Expect(n).To(Equal(7))
	})

	It("should give memory writes one-cycle latency", func() {
		inc := registry.AddProcessing(incrementer("Inc"))
		cell := registry.AddMemory(dataflow.NewMemory("K", 5))
		link(inc, "cell", cell)

		s := buildScheduler(graph, core.DefaultConfig())

		var emitted []int
		for i := 0; i < 4; i++ {
			Expect(s.Cycle()).To(Succeed())
			v, ok := s.ActiveOutput(core.PortRef{Component: inc, Port: "out"})
			Expect(ok).To(BeTrue())
			n, err := dataflow.As[int](v)
			Expect(err).ToNot(HaveOccurred())
			emitted = append(emitted, n)
		}

		Expect(emitted).To(Equal([]int{5, 6, 7, 8}))

		final, err := s.Snapshot(cell, dataflow.DefaultKey)
		Expect(err).ToNot(HaveOccurred())
		n, _ := dataflow.As[int](final)
		Expect(n).To(Equal(9))
	})

	It("should leave unconnected inputs absent", func() {
		var sawInput bool
		probe := dataflow.NewProcessing("Probe",
			[]dataflow.PortDecl{dataflow.Port[int]("in")},
			nil, nil,
			func(in dataflow.InputMap, _ dataflow.MemoryAccess) (dataflow.OutputMap, error) {
				_, sawInput = in.Get("in")
				return nil, nil
			})
		registry.AddProcessing(probe)

		s := buildScheduler(graph, core.DefaultConfig())
		Expect(s.Cycle()).To(Succeed())

		Expect(sawInput).To(BeFalse())
	})

	Context("failure behavior", func() {
		var evalErr error

		BeforeEach(func() {
			evalErr = fmt.Errorf("blown fuse")
		})

		failing := func(name string) dataflow.ProcessingModule {
			return dataflow.NewProcessing(name,
				nil,
				[]dataflow.PortDecl{dataflow.Port[int]("out")},
				nil,
				func(dataflow.InputMap, dataflow.MemoryAccess) (dataflow.OutputMap, error) {
					return nil, evalErr
				})
		}

		It("should name the failing component", func() {
			id := registry.AddProcessing(failing("Bad"))
			s := buildScheduler(graph, core.DefaultConfig())

			err := s.Cycle()

			Expect(err).To(HaveOccurred())
			var cycleErr *core.CycleError
			Expect(errors.As(err, &cycleErr)).To(BeTrue())
			Expect(cycleErr.Failures).To(HaveLen(1))
			Expect(cycleErr.Failures[0].Component).To(Equal(id))
			Expect(errors.Is(err, evalErr)).To(BeTrue())
		})

		It("should not advance state on a failing cycle", func() {
			inc := registry.AddProcessing(incrementer("Inc"))
			cell := registry.AddMemory(dataflow.NewMemory("K", 5))
			link(inc, "cell", cell)
			bad := registry.AddProcessing(failing("Bad"))
			sink := registry.AddProcessing(identity("Sink"))
			connect(bad, "out", sink, "in")

			s := buildScheduler(graph, core.DefaultConfig())

			Expect(s.Cycle()).ToNot(Succeed())
			Expect(s.CurrentCycle()).To(Equal(uint64(0)))

			// The incrementer may have run and written its cell, but the
			// advance was skipped, so the snapshot is untouched.
			v, err := s.Snapshot(cell, dataflow.DefaultKey)
			Expect(err).ToNot(HaveOccurred())
			n, _ := dataflow.As[int](v)
			Expect(n).To(Equal(5))
			_ = bad
		})

		It("should abort on the first failure in sequential mode", func() {
			registry.AddProcessingAs("a", failing("Bad"))
			registry.AddProcessingAs("b", failing("Bad"))

			s := buildScheduler(graph, core.DefaultConfig())
			err := s.Cycle()

			var cycleErr *core.CycleError
			Expect(errors.As(err, &cycleErr)).To(BeTrue())
			Expect(cycleErr.Failures).To(HaveLen(1))
			Expect(cycleErr.Failures[0].Component).To(Equal(core.ComponentID("a")))
		})

		It("should aggregate every stage failure in parallel mode", func() {
			registry.AddProcessingAs("a", failing("Bad"))
			registry.AddProcessingAs("b", failing("Bad"))
			registry.AddProcessingAs("c", constSource("Good", 1))

			s := buildScheduler(graph, core.Config{Mode: core.Parallel, Parallelism: 2})
			err := s.Cycle()

			var cycleErr *core.CycleError
			Expect(errors.As(err, &cycleErr)).To(BeTrue())
			Expect(cycleErr.Failures).To(HaveLen(2))

			var names []core.ComponentID
			for _, f := range cycleErr.Failures {
				names = append(names, f.Component)
			}
			Expect(names).To(ConsistOf(
				core.ComponentID("a"), core.ComponentID("b")))
		})

		It("should reject emits on undeclared output ports", func() {
			rogue := dataflow.NewProcessing("Rogue",
				nil,
				[]dataflow.PortDecl{dataflow.Port[int]("out")},
				nil,
				func(dataflow.InputMap, dataflow.MemoryAccess) (dataflow.OutputMap, error) {
					out := dataflow.OutputMap{}
					dataflow.Emit(out, "sideband", 1)
					return out, nil
				})
			registry.AddProcessing(rogue)

			s := buildScheduler(graph, core.DefaultConfig())

			Expect(s.Cycle()).To(MatchError(core.ErrUnknownPort))
		})

		It("should reject mistyped emits on declared ports", func() {
			rogue := dataflow.NewProcessing("Rogue",
				nil,
				[]dataflow.PortDecl{dataflow.Port[int]("out")},
				nil,
				func(dataflow.InputMap, dataflow.MemoryAccess) (dataflow.OutputMap, error) {
					out := dataflow.OutputMap{}
					dataflow.Emit(out, "out", "one")
					return out, nil
				})
			registry.AddProcessing(rogue)

			s := buildScheduler(graph, core.DefaultConfig())

			Expect(s.Cycle()).To(MatchError(core.ErrTypeMismatch))
		})
	})

	Context("with mocked modules", func() {
		var mockCtrl *gomock.Controller

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
		})

		It("should hand each evaluate its proxy and collected inputs", func() {
			src := NewMockProcessingModule(mockCtrl)
			src.EXPECT().Name().Return("Src").AnyTimes()
			src.EXPECT().Inputs().Return(nil).AnyTimes()
			src.EXPECT().Outputs().
				Return([]dataflow.PortDecl{dataflow.Port[int]("out")}).AnyTimes()
			src.EXPECT().MemoryPorts().Return(nil).AnyTimes()
			src.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
				DoAndReturn(func(in dataflow.InputMap, _ dataflow.MemoryAccess) (dataflow.OutputMap, error) {
					Expect(in).To(BeEmpty())
					return dataflow.OutputMap{"out": dataflow.NewValue(3)}, nil
				})

			sink := NewMockProcessingModule(mockCtrl)
			sink.EXPECT().Name().Return("Sink").AnyTimes()
			sink.EXPECT().Inputs().
				Return([]dataflow.PortDecl{dataflow.Port[int]("in")}).AnyTimes()
			sink.EXPECT().Outputs().Return(nil).AnyTimes()
			sink.EXPECT().MemoryPorts().Return(nil).AnyTimes()
			sink.EXPECT().Evaluate(gomock.Any(), gomock.Any()).
				DoAndReturn(func(in dataflow.InputMap, mem dataflow.MemoryAccess) (dataflow.OutputMap, error) {
					n, ok, err := dataflow.InputAs[int](in, "in")
					Expect(err).ToNot(HaveOccurred())
					Expect(ok).To(BeTrue())
					Expect(n).To(Equal(3))

					_, _, err = mem.Read("nothere", dataflow.DefaultKey)
					Expect(err).To(MatchError(core.ErrUnknownPort))
					return nil, nil
				})

			srcID := registry.AddProcessing(src)
			sinkID := registry.AddProcessing(sink)
			connect(srcID, "out", sinkID, "in")

			s := buildScheduler(graph, core.DefaultConfig())
			Expect(s.Cycle()).To(Succeed())
		})

		It("should run the memory module's cycle hook each cycle", func() {
			mem := NewMockMemoryModule(mockCtrl)
			mem.EXPECT().Name().Return("Hooked").AnyTimes()
			mem.EXPECT().PayloadType().Return(dataflow.TypeOf[int]()).AnyTimes()
			mem.EXPECT().InitialValue().Return(dataflow.NewValue(0)).AnyTimes()
			mem.EXPECT().Cycle(gomock.Any()).
				DoAndReturn(func(v dataflow.Value) dataflow.Value {
					n, err := dataflow.As[int](v)
					Expect(err).ToNot(HaveOccurred())
					return dataflow.NewValue(n + 10)
				}).Times(3)

			cell := registry.AddMemory(mem)

			s := buildScheduler(graph, core.DefaultConfig())
			for i := 0; i < 3; i++ {
				Expect(s.Cycle()).To(Succeed())
			}

			v, err := s.Snapshot(cell, dataflow.DefaultKey)
			Expect(err).ToNot(HaveOccurred())
			n, _ := dataflow.As[int](v)
			Expect(n).To(Equal(30))
		})
	})

	Context("run loop", func() {
		It("should stop at the cycle budget", func() {
			registry.AddProcessing(constSource("Src", 1))
			s := buildScheduler(graph, core.DefaultConfig())

			n, err := s.Run(5, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(5))
			Expect(s.CurrentCycle()).To(Equal(uint64(5)))
		})

		It("should stop when the predicate fires", func() {
			registry.AddProcessing(constSource("Src", 1))
			s := buildScheduler(graph, core.DefaultConfig())

			n, err := s.Run(100, func(s *core.Scheduler) bool {
				return s.CurrentCycle() >= 3
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(3))
			Expect(s.CurrentCycle()).To(Equal(uint64(3)))
		})
	})

	Context("determinism", func() {
		// A small mesh: sources feeding mappers feeding memory sinks,
		// plus a self-incrementing counter.
		build := func(cfg core.Config) (*core.Scheduler, []core.ComponentID) {
			r := core.NewRegistry()
			g := core.NewGraph(r)

			var cells []core.ComponentID
			for i := 0; i < 8; i++ {
				src := r.AddProcessing(constSource("Src", i))
				m := r.AddProcessing(mapper("Map", func(n int) int { return n*3 + 1 }))
				sink := r.AddProcessing(memSink("Sink"))
				cell := r.AddMemory(dataflow.NewMemory("M", 0))
				Expect(g.ConnectEdge(
					core.PortRef{Component: src, Port: "out"},
					core.PortRef{Component: m, Port: "in"})).To(Succeed())
				Expect(g.ConnectEdge(
					core.PortRef{Component: m, Port: "out"},
					core.PortRef{Component: sink, Port: "in"})).To(Succeed())
				Expect(g.ConnectMemory(
					core.PortRef{Component: sink, Port: "cell"}, cell)).To(Succeed())
				cells = append(cells, cell)
			}
			inc := r.AddProcessing(incrementer("Inc"))
			k := r.AddMemory(dataflow.NewMemory("K", 0))
			Expect(g.ConnectMemory(
				core.PortRef{Component: inc, Port: "cell"}, k)).To(Succeed())
			cells = append(cells, k)

			return buildScheduler(g, cfg), cells
		}

		snapshots := func(s *core.Scheduler, cells []core.ComponentID) []int {
			out := make([]int, len(cells))
			for i, cell := range cells {
				v, err := s.Snapshot(cell, dataflow.DefaultKey)
				Expect(err).ToNot(HaveOccurred())
				out[i], err = dataflow.As[int](v)
				Expect(err).ToNot(HaveOccurred())
			}
			return out
		}

		It("should match across modes and thread counts", func() {
			seq, seqCells := build(core.Config{Mode: core.Sequential})
			par2, par2Cells := build(core.Config{Mode: core.Parallel, Parallelism: 2})
			par8, par8Cells := build(core.Config{Mode: core.Parallel, Parallelism: 8})

			for i := 0; i < 50; i++ {
				Expect(seq.Cycle()).To(Succeed())
				Expect(par2.Cycle()).To(Succeed())
				Expect(par8.Cycle()).To(Succeed())
			}

			want := snapshots(seq, seqCells)
			Expect(snapshots(par2, par2Cells)).To(Equal(want))
			Expect(snapshots(par8, par8Cells)).To(Equal(want))
		})

		It("should match across repeated runs in one mode", func() {
			a, aCells := build(core.Config{Mode: core.Parallel, Parallelism: 4})
			b, bCells := build(core.Config{Mode: core.Parallel, Parallelism: 4})

			for i := 0; i < 50; i++ {
				Expect(a.Cycle()).To(Succeed())
				Expect(b.Cycle()).To(Succeed())
			}

			Expect(snapshots(a, aCells)).To(Equal(snapshots(b, bCells)))
		})
	})
})
