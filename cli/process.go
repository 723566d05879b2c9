package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/robinvdvleuten/payments/formatter"
	"github.com/robinvdvleuten/payments/ledger"
	"github.com/robinvdvleuten/payments/loader"
	"github.com/robinvdvleuten/payments/output"
	"github.com/robinvdvleuten/payments/telemetry"
)

// OutputFlags controls how the account snapshot is written.
type OutputFlags struct {
	Format  string `help:"Snapshot layout (csv, table, or auto for a table on terminals)." enum:"csv,table,auto" default:"csv" env:"PAYMENTS_FORMAT"`
	Summary bool   `help:"Print row counts to stderr when done."`
}

// layout resolves the snapshot layout for w.
func (o OutputFlags) layout(w io.Writer) formatter.Layout {
	if o.Format == "auto" {
		if isTerminal(w) {
			return formatter.LayoutTable
		}
		return formatter.LayoutCSV
	}
	layout, err := formatter.ParseLayout(o.Format)
	if err != nil {
		return formatter.LayoutCSV
	}
	return layout
}

type ProcessCmd struct {
	File FileOrStdin `help:"Transactions CSV file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	OutputFlags
}

func (cmd *ProcessCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	logger, err := globals.Logger(ctx.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	runCtx := context.Background()

	var collector telemetry.Collector
	var processTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				processTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		processTimer = collector.Start(fmt.Sprintf("process %s", cmd.File.baseName()))
		runCtx = telemetry.WithRootTimer(runCtx, processTimer)

		defer reportTelemetry()
	}

	r := &runner{
		logger: logger,
		flags:  cmd.OutputFlags,
		stdout: ctx.Stdout,
		stderr: ctx.Stderr,
	}
	_, err = r.run(runCtx, &cmd.File)
	return err
}

// runner performs one complete processing pass: a fresh ledger, the whole
// input, then the snapshot.
type runner struct {
	logger *zap.Logger
	flags  OutputFlags
	stdout io.Writer
	stderr io.Writer
}

func (r *runner) run(ctx context.Context, file *FileOrStdin) (*loader.Stats, error) {
	l := ledger.New()

	ldr := loader.New(loader.WithLogger(r.logger))
	stats, err := file.Load(ctx, ldr, l)
	if err != nil {
		return stats, err
	}

	f := formatter.New(
		formatter.WithLayout(r.flags.layout(r.stdout)),
		formatter.WithStyles(output.NewStyles(r.stdout)),
	)
	if err := f.Format(ctx, l, r.stdout); err != nil {
		return stats, fmt.Errorf("failed to write accounts: %w", err)
	}

	if r.flags.Summary {
		printSummary(r.stderr, file.Filename, l, stats)
	}

	return stats, nil
}

// printSummary writes the row counts of a run:
//
//	✓ Processed 7 rows from transactions.csv into 1 account
//	→ applied    3
//	→ rejected   4 (info 4, warn 0, error 0)
//	→ malformed  0
func printSummary(w io.Writer, filename string, l *ledger.Ledger, stats *loader.Stats) {
	printSuccess(w, fmt.Sprintf("Processed %d %s from %s into %d %s",
		stats.Rows, plural(stats.Rows, "row", "rows"),
		pathStyle.Render(filename),
		l.Len(), plural(l.Len(), "account", "accounts"),
	))
	printInfof(w, "applied    %d", stats.Applied)

	rejected := fmt.Sprintf("%d (info %d, warn %d, error %d)", stats.Rejected(), stats.Info, stats.Warn, stats.Error)
	switch {
	case stats.Error > 0:
		rejected = errorStyle.Render(rejected)
	case stats.Warn > 0:
		rejected = warnStyle.Render(rejected)
	}
	printInfof(w, "rejected   %s", rejected)

	malformed := fmt.Sprintf("%d", stats.Malformed)
	if stats.Malformed > 0 {
		malformed = errorStyle.Render(malformed)
	}
	printInfof(w, "malformed  %s", malformed)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
