// Package telemetry provides hierarchical timing collection for a processing
// run. Timings are collected in a tree and reported on stderr when the
// --telemetry flag is set.
//
// Collectors travel through context.Context so instrumented code does not need
// to know whether telemetry is enabled. Without a collector every call is a
// no-op.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "load transactions.csv")
//	// ... work ...
//	timer.Annotate("1204 rows")
//	timer.End()
//
//	collector.Report(os.Stderr, nil)
//
// Output:
//
//	process transactions.csv: 41ms
//	├─ load transactions.csv (1204 rows): 35ms
//	└─ format csv: 6ms
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/payments/output"
)

type contextKey int

const (
	collectorKey contextKey = iota
	rootTimerKey
)

// Collector collects timings for a run.
type Collector interface {
	// Start begins timing an operation. The first timer started becomes the
	// root of the tree; later ones nest under the innermost running timer.
	Start(name string) Timer

	// Report writes the collected timings to w. Styles may be nil.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing.
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a timer nested under this one.
	Child(name string) Timer

	// Annotate attaches a short note, such as a row count, shown next to the
	// operation name.
	Annotate(note string)
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context, or a no-op collector if
// there is none.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithRootTimer makes timer the parent of timers started with StartTimer.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, rootTimerKey, timer)
}

// StartTimer starts a timer under the root timer of ctx, or directly on the
// collector of ctx when there is no root timer.
func StartTimer(ctx context.Context, name string) Timer {
	if root, ok := ctx.Value(rootTimerKey).(Timer); ok {
		return root.Child(name)
	}
	return FromContext(ctx).Start(name)
}
