package core

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace is the slog level the scheduler narrates cycle and stage
// progress at. It sits below Debug so default handlers stay quiet.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace emits a trace-level log record.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// RenderPlan renders the staged execution order as a table, one row per
// stage.
func RenderPlan(plan *Plan) string {
	t := table.NewWriter()
	t.SetTitle("Execution Plan")
	t.AppendHeader(table.Row{"Stage", "Components"})

	for i, stage := range plan.Stages {
		names := make([]string, len(stage))
		for j, id := range stage {
			names[j] = string(id)
		}
		t.AppendRow(table.Row{i, strings.Join(names, " ")})
	}

	return t.Render()
}

// RenderMemoryState renders every cell's snapshot slots as a table. Meant
// for debugging sessions and probes, not for driving logic.
func RenderMemoryState(s *Scheduler) string {
	t := table.NewWriter()
	t.SetTitle("Memory State")
	t.AppendHeader(table.Row{"Cell", "Key", "Type", "Snapshot"})

	for _, cell := range s.graph.Registry().Cells() {
		keys := make([]string, 0, len(cell.snapshot))
		for key := range cell.snapshot {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			v := cell.snapshot[key]
			t.AppendRow(table.Row{string(cell.ID()), key, v.TypeName(), v.Payload()})
		}
	}

	return t.Render()
}
