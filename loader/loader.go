// Package loader feeds a transaction table into a ledger.
//
// It reads the table row by row, applies every parsed transaction to the
// ledger in input order and reports every skipped row on the configured logger
// at the level matching its severity:
//   - info: business-rule rejections (duplicate tx, insufficient funds, ...)
//   - warn: suspicious input (disputing a transaction twice)
//   - error: malformed rows and ledger inconsistencies
//
// Skipped rows never stop loading. Only a failure to open or read the input
// itself is returned as an error.
//
// Example usage:
//
//	l := ledger.New()
//	ldr := loader.New(loader.WithLogger(logger))
//	stats, err := ldr.Load(ctx, "transactions.csv", l)
//	if err != nil {
//	    log.Fatal(err)
//	}
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/robinvdvleuten/payments/ast"
	"github.com/robinvdvleuten/payments/ledger"
	"github.com/robinvdvleuten/payments/parser"
	"github.com/robinvdvleuten/payments/telemetry"
)

// Loader reads transaction tables into a ledger.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithLogger(logger))
type Loader struct {
	logger *zap.Logger
}

// Option configures how tables are loaded.
type Option func(*Loader)

// WithLogger sets the logger skipped rows are reported on. Without it nothing
// is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load opens filename and applies its transactions to l.
func (ldr *Loader) Load(ctx context.Context, filename string, l *ledger.Ledger) (*Stats, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	return ldr.LoadReader(ctx, filename, f, l)
}

// LoadReader applies the transactions read from r to l. The name is used for
// positions and telemetry only.
func (ldr *Loader) LoadReader(ctx context.Context, name string, r io.Reader, l *ledger.Ledger) (*Stats, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("load %s", filepath.Base(name)))
	defer timer.End()

	stats := &Stats{}
	defer func() { timer.Annotate(fmt.Sprintf("%d rows", stats.Rows)) }()

	reader := parser.NewReader(r, name)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		tx, err := reader.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			var parseErr *parser.ParseError
			if !errors.As(err, &parseErr) {
				return stats, err
			}
			stats.Rows++
			stats.Malformed++
			ldr.logger.Error("Rejecting row", zap.String("position", parseErr.Pos.String()), zap.Error(parseErr))
			continue
		}

		stats.Rows++
		if err := l.Apply(tx); err != nil {
			stats.reject(err)
			ldr.logRejection(tx, err)
			continue
		}
		stats.Applied++
	}
}

func (ldr *Loader) logRejection(tx ast.Transaction, err error) {
	level := zapcore.ErrorLevel
	var rejection ledger.Rejection
	if errors.As(err, &rejection) {
		level = levelFor(rejection.Severity())
	}

	if ce := ldr.logger.Check(level, "Rejecting transaction"); ce != nil {
		ce.Write(
			zap.String("kind", tx.Kind().String()),
			zap.Uint16("client", uint16(tx.ClientID())),
			zap.Uint32("tx", uint32(tx.TxID())),
			zap.String("position", tx.Position().String()),
			zap.Error(err),
		)
	}
}

func levelFor(severity ledger.Severity) zapcore.Level {
	switch severity {
	case ledger.SeverityInfo:
		return zapcore.InfoLevel
	case ledger.SeverityWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
