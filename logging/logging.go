// Package logging builds the structured logger used to report rejected rows.
//
// Logs go to stderr so that stdout only carries the account snapshot. Every
// logger carries a run_id field identifying one processing run, which makes
// the output of repeated runs (for example under the watch command) easy to
// tell apart.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config contains all logger initialization inputs.
type Config struct {
	Level  string    // debug, info, warn or error; defaults to warn
	Format Format    // console or json; defaults to console
	Output io.Writer // defaults to os.Stderr

	// OmitTime drops the timestamp, for deterministic output.
	OmitTime bool
}

func (c Config) validate() error {
	switch c.Format {
	case "", FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
}

// New creates a logger from cfg. The returned logger is tagged with a fresh
// run_id.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	level, err := resolveLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.OmitTime {
		encoderCfg.TimeKey = ""
	}

	var encoder zapcore.Encoder
	if cfg.Format == FormatJSON {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	return zap.New(core).With(zap.String("run_id", uuid.NewString())), nil
}

func resolveLevel(level string) (zap.AtomicLevel, error) {
	if strings.TrimSpace(level) == "" {
		return zap.NewAtomicLevelAt(zapcore.WarnLevel), nil
	}

	var parsed zapcore.Level
	if err := parsed.Set(level); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zap.NewAtomicLevelAt(parsed), nil
}
