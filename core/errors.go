package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sarchlab/cyclone/dataflow"
)

// Build- and plan-time error kinds. All of them are fatal to the operation
// that raised them; none are retried internally.
var (
	ErrDuplicateIdentifier  = errors.New("duplicate identifier")
	ErrUnknownIdentifier    = errors.New("unknown identifier")
	ErrUnknownPort          = errors.New("unknown port")
	ErrRoleMismatch         = errors.New("port role mismatch")
	ErrPortAlreadyConnected = errors.New("port already connected")
	ErrGraphFrozen          = errors.New("graph is frozen")
	ErrDependencyCycle      = errors.New("dependency cycle")
	ErrDuplicatePlan        = errors.New("plan already produced")
)

// ErrTypeMismatch is re-exported so callers matching kernel errors only need
// this package.
var ErrTypeMismatch = dataflow.ErrTypeMismatch

// ComponentError names the processing component whose Evaluate failed.
type ComponentError struct {
	Component ComponentID
	Err       error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %s: %v", e.Component, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

// CycleError aggregates every component failure collected while attempting
// one cycle. Sequential mode carries exactly one failure; parallel mode
// carries every failure of the stage that broke.
type CycleError struct {
	Cycle    uint64
	Failures []*ComponentError
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = string(f.Component)
	}
	return fmt.Sprintf("cycle %d failed: %d component(s) [%s]",
		e.Cycle, len(e.Failures), strings.Join(names, ", "))
}

func (e *CycleError) Unwrap() error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// DependencyCycleError lists the processing components the planner could not
// order, i.e. the members of at least one processing-edge cycle.
type DependencyCycleError struct {
	Remaining []ComponentID
}

func (e *DependencyCycleError) Error() string {
	names := make([]string, len(e.Remaining))
	for i, id := range e.Remaining {
		names[i] = string(id)
	}
	sort.Strings(names)
	return fmt.Sprintf("dependency cycle among {%s}", strings.Join(names, ", "))
}

func (e *DependencyCycleError) Unwrap() error {
	return ErrDependencyCycle
}
