package cli

import (
	"io"

	"go.uber.org/zap"

	"github.com/robinvdvleuten/payments/logging"
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Lowest severity of skipped rows to log (debug, info, warn, error)." enum:"debug,info,warn,error" default:"warn" env:"PAYMENTS_LOG_LEVEL"`
	LogFormat string `help:"Log encoding (console, json)." enum:"console,json" default:"console" env:"PAYMENTS_LOG_FORMAT"`
}

// Logger builds the logger for a run, writing to w.
func (g *Globals) Logger(w io.Writer) (*zap.Logger, error) {
	return logging.New(logging.Config{
		Level:  g.LogLevel,
		Format: logging.Format(g.LogFormat),
		Output: w,
	})
}

type Commands struct {
	Globals

	Process ProcessCmd `cmd:"" default:"withargs" help:"Apply a transactions CSV file and print the resulting client accounts."`
	Watch   WatchCmd   `cmd:"" help:"Re-process a transactions CSV file whenever it changes."`
	Doctor  DoctorCmd  `cmd:"" help:"Doctor utilities for debugging transaction files."`
}
