package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/robinvdvleuten/payments/ast"
	"github.com/robinvdvleuten/payments/ledger"
	"github.com/robinvdvleuten/payments/telemetry"
)

func newObservedLoader() (*Loader, *observer.ObservedLogs) {
	core, observed := observer.New(zapcore.DebugLevel)
	return New(WithLogger(zap.New(core))), observed
}

func assertAccount(t *testing.T, l *ledger.Ledger, client uint16, available, held string, locked bool) {
	t.Helper()
	acc, ok := l.GetAccount(ast.ClientID(client))
	assert.True(t, ok, "account %d should exist", client)
	assert.True(t, acc.Available.Equal(decimal.RequireFromString(available)), "available: got %s", acc.Available)
	assert.True(t, acc.Held.Equal(decimal.RequireFromString(held)), "held: got %s", acc.Held)
	assert.Equal(t, locked, acc.Locked)
}

func TestLoadSingleDeposit(t *testing.T) {
	ldr, logs := newObservedLoader()
	l := ledger.New()

	stats, err := ldr.Load(context.Background(), filepath.Join("testdata", "single-deposit.csv"), l)
	assert.NoError(t, err)
	assert.Equal(t, &Stats{Rows: 1, Applied: 1}, stats)
	assert.Equal(t, 0, logs.Len())

	assertAccount(t, l, 1, "1.2345", "0", false)
}

func TestLoadBadRecordsAreSkipped(t *testing.T) {
	ldr, logs := newObservedLoader()
	l := ledger.New()

	stats, err := ldr.Load(context.Background(), filepath.Join("testdata", "bad-record-ignored.csv"), l)
	assert.NoError(t, err)
	assert.Equal(t, 5, stats.Rows)
	assert.Equal(t, 2, stats.Applied)
	assert.Equal(t, 3, stats.Malformed)
	assert.Equal(t, 3, stats.Skipped())

	assertAccount(t, l, 1, "0.0005", "0", false)

	errorLogs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	assert.Equal(t, 3, len(errorLogs))
	assert.Equal(t, "Rejecting row", errorLogs[0].Message)
	assert.Equal[any](t, filepath.Join("testdata", "bad-record-ignored.csv")+":3:1", errorLogs[0].ContextMap()["position"])
}

func TestLoadLockedAccountRejectsTheRest(t *testing.T) {
	ldr, logs := newObservedLoader()
	l := ledger.New()

	stats, err := ldr.Load(context.Background(), filepath.Join("testdata", "good-chargeback-with-more-transactions.csv"), l)
	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Applied)
	assert.Equal(t, 4, stats.Info)
	assert.Equal(t, 4, stats.Rejected())

	assertAccount(t, l, 1, "0", "0", true)

	infoLogs := logs.FilterLevelExact(zapcore.InfoLevel).All()
	assert.Equal(t, 4, len(infoLogs))
	fields := infoLogs[0].ContextMap()
	assert.Equal(t, "deposit", fields["kind"])
	assert.Equal[any](t, uint16(1), fields["client"])
	assert.Equal[any](t, uint32(2), fields["tx"])
}

func TestLoadRedisputeIsWarning(t *testing.T) {
	ldr, logs := newObservedLoader()
	l := ledger.New()

	stats, err := ldr.Load(context.Background(), filepath.Join("testdata", "dispute-after-resolution.csv"), l)
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Warn)

	assertAccount(t, l, 1, "1.2345", "0", false)

	warnLogs := logs.FilterLevelExact(zapcore.WarnLevel).All()
	assert.Equal(t, 1, len(warnLogs))
	assert.Contains(t, warnLogs[0].ContextMap()["error"].(string), "more than once")
}

func TestLoadMultipleClients(t *testing.T) {
	ldr, _ := newObservedLoader()
	l := ledger.New()

	stats, err := ldr.Load(context.Background(), filepath.Join("testdata", "multiple-clients.csv"), l)
	assert.NoError(t, err)
	assert.Equal(t, 4, stats.Applied)
	assert.Equal(t, 1, stats.Info)

	assertAccount(t, l, 1, "1.5", "0", false)
	assertAccount(t, l, 2, "2", "0", false)
	assert.Equal(t, 2, l.Len())
}

func TestLoadMissingFile(t *testing.T) {
	ldr := New()
	_, err := ldr.Load(context.Background(), filepath.Join("testdata", "definitely-does-not-exist.csv"), ledger.New())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().LoadReader(ctx, "<stdin>", strings.NewReader("deposit,1,1,1.0\n"), ledger.New())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadRecordsTelemetry(t *testing.T) {
	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)

	_, err := New().LoadReader(ctx, "stdin.csv", strings.NewReader("deposit,1,1,1.0\ndeposit,1,2,1.0\n"), ledger.New())
	assert.NoError(t, err)

	var buf strings.Builder
	collector.Report(&buf, nil)
	assert.Contains(t, buf.String(), "load stdin.csv (2 rows)")
}

func TestStatsReject(t *testing.T) {
	s := &Stats{}
	s.reject(errors.New("not a rejection"))
	s.reject(&ledger.AlreadyDisputedError{})
	assert.Equal(t, 1, s.Error)
	assert.Equal(t, 1, s.Warn)
	assert.Equal(t, 2, s.Rejected())
}
