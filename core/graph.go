package core

import (
	"fmt"

	"github.com/sarchlab/cyclone/dataflow"
)

// Graph records the wires of a simulation: edges from output ports to input
// ports and links from memory ports to cells. Every invariant the kernel
// relies on at run time is enforced here, at wire time: one driver per
// input, one consumer per output, strict 1-to-1 memory links, and declared
// type compatibility where both ends declare a type.
//
// A graph is populated during the build phase and frozen before planning;
// mutations after Freeze fail with ErrGraphFrozen.
type Graph struct {
	registry *Registry
	frozen   bool

	// target input port -> source output port
	edgeBySink map[PortRef]PortRef
	// source output port -> target input port
	edgeBySource map[PortRef]PortRef
	// (processing component, memory port) -> cell
	linkByPort map[PortRef]ComponentID
	// cell -> its one bound memory port
	linkByCell map[ComponentID]PortRef
}

// NewGraph creates an empty graph over the registry's components.
func NewGraph(registry *Registry) *Graph {
	return &Graph{
		registry:     registry,
		edgeBySink:   make(map[PortRef]PortRef),
		edgeBySource: make(map[PortRef]PortRef),
		linkByPort:   make(map[PortRef]ComponentID),
		linkByCell:   make(map[ComponentID]PortRef),
	}
}

func (g *Graph) Registry() *Registry {
	return g.registry
}

// Freeze makes the graph read-only. Idempotent.
func (g *Graph) Freeze() {
	g.frozen = true
}

func (g *Graph) Frozen() bool {
	return g.frozen
}

func findDecl(decls []dataflow.PortDecl, name string) (dataflow.PortDecl, bool) {
	for _, d := range decls {
		if d.Name == name {
			return d, true
		}
	}
	return dataflow.PortDecl{}, false
}

// declOf resolves a port reference against the component's declarations and
// returns the declaration plus the port's role.
func (g *Graph) declOf(ref PortRef) (dataflow.PortDecl, dataflow.PortRole, error) {
	if m, ok := g.registry.processing[ref.Component]; ok {
		if d, ok := findDecl(m.Inputs(), ref.Port); ok {
			return d, dataflow.RoleInput, nil
		}
		if d, ok := findDecl(m.Outputs(), ref.Port); ok {
			return d, dataflow.RoleOutput, nil
		}
		if d, ok := findDecl(m.MemoryPorts(), ref.Port); ok {
			return d, dataflow.RoleMemory, nil
		}
		return dataflow.PortDecl{}, 0,
			fmt.Errorf("port %s: %w", ref, ErrUnknownPort)
	}

	if c, ok := g.registry.cells[ref.Component]; ok {
		switch ref.Port {
		case dataflow.MemoryIn:
			return dataflow.PortDecl{Name: ref.Port, Type: c.PayloadType()},
				dataflow.RoleInput, nil
		case dataflow.MemoryOut:
			return dataflow.PortDecl{Name: ref.Port, Type: c.PayloadType()},
				dataflow.RoleOutput, nil
		}
		return dataflow.PortDecl{}, 0,
			fmt.Errorf("port %s: %w", ref, ErrUnknownPort)
	}

	return dataflow.PortDecl{}, 0,
		fmt.Errorf("component %s: %w", ref.Component, ErrUnknownIdentifier)
}

func (g *Graph) isProcessing(id ComponentID) bool {
	_, ok := g.registry.processing[id]
	return ok
}

// ConnectEdge wires an output port of one processing component to an input
// port of another. Both ports must be free, the roles must match, and the
// declared payload types must agree when both are declared.
func (g *Graph) ConnectEdge(source, target PortRef) error {
	if g.frozen {
		return fmt.Errorf("connect %s -> %s: %w", source, target, ErrGraphFrozen)
	}

	srcDecl, srcRole, err := g.declOf(source)
	if err != nil {
		return err
	}
	dstDecl, dstRole, err := g.declOf(target)
	if err != nil {
		return err
	}

	if !g.isProcessing(source.Component) || !g.isProcessing(target.Component) {
		return fmt.Errorf(
			"connect %s -> %s: edges wire processing components, memory is attached through memory links: %w",
			source, target, ErrRoleMismatch)
	}
	if srcRole != dataflow.RoleOutput {
		return fmt.Errorf("connect %s -> %s: source is a %s port: %w",
			source, target, srcRole.Name(), ErrRoleMismatch)
	}
	if dstRole != dataflow.RoleInput {
		return fmt.Errorf("connect %s -> %s: target is a %s port: %w",
			source, target, dstRole.Name(), ErrRoleMismatch)
	}

	if prev, ok := g.edgeBySource[source]; ok {
		return fmt.Errorf("output %s already feeds %s: %w",
			source, prev, ErrPortAlreadyConnected)
	}
	if prev, ok := g.edgeBySink[target]; ok {
		return fmt.Errorf("input %s already driven by %s: %w",
			target, prev, ErrPortAlreadyConnected)
	}

	if srcDecl.Type != nil && dstDecl.Type != nil && srcDecl.Type != dstDecl.Type {
		return fmt.Errorf("connect %s -> %s: %w",
			source, target, &dataflow.TypeMismatchError{
				Port:     target.Port,
				Expected: dstDecl.Type.String(),
				Actual:   srcDecl.Type.String(),
			})
	}

	g.edgeBySource[source] = target
	g.edgeBySink[target] = source
	return nil
}

// ConnectMemory binds a memory port of a processing component to a cell.
// Each memory port binds exactly one cell and each cell is bound by at most
// one memory port, which is what makes cell ownership exclusive in-cycle.
func (g *Graph) ConnectMemory(memPort PortRef, cell ComponentID) error {
	if g.frozen {
		return fmt.Errorf("link %s -> %s: %w", memPort, cell, ErrGraphFrozen)
	}

	decl, role, err := g.declOf(memPort)
	if err != nil {
		return err
	}
	if !g.isProcessing(memPort.Component) || role != dataflow.RoleMemory {
		return fmt.Errorf("link %s -> %s: not a memory port: %w",
			memPort, cell, ErrRoleMismatch)
	}

	c, ok := g.registry.cells[cell]
	if !ok {
		if g.isProcessing(cell) {
			return fmt.Errorf("link %s -> %s: target is a processing component: %w",
				memPort, cell, ErrRoleMismatch)
		}
		return fmt.Errorf("memory cell %s: %w", cell, ErrUnknownIdentifier)
	}

	if prev, ok := g.linkByPort[memPort]; ok {
		return fmt.Errorf("memory port %s already bound to %s: %w",
			memPort, prev, ErrPortAlreadyConnected)
	}
	if prev, ok := g.linkByCell[cell]; ok {
		return fmt.Errorf("cell %s already bound by %s: %w",
			cell, prev, ErrPortAlreadyConnected)
	}

	if decl.Type != nil && decl.Type != c.PayloadType() {
		return fmt.Errorf("link %s -> %s: %w",
			memPort, cell, &dataflow.TypeMismatchError{
				Port:     memPort.Port,
				Expected: decl.Type.String(),
				Actual:   c.PayloadType().String(),
			})
	}

	g.linkByPort[memPort] = cell
	g.linkByCell[cell] = memPort
	return nil
}

// InputSource returns the output port driving the given input port.
func (g *Graph) InputSource(target PortRef) (PortRef, bool) {
	src, ok := g.edgeBySink[target]
	return src, ok
}

// LinkedCell returns the cell bound to the given memory port.
func (g *Graph) LinkedCell(memPort PortRef) (ComponentID, bool) {
	cell, ok := g.linkByPort[memPort]
	return cell, ok
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return len(g.edgeBySink)
}

// NumMemoryLinks returns the number of memory links.
func (g *Graph) NumMemoryLinks() int {
	return len(g.linkByPort)
}
