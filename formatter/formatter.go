// Package formatter writes the account snapshot of a ledger.
//
// Two layouts are supported:
//   - csv: the machine-readable snapshot with the header
//     client,available,held,total,locked
//   - table: the same columns aligned for reading in a terminal
//
// Accounts are written in the order the ledger first saw their clients.
// Amounts keep at least four fractional digits and never lose precision:
//
//	client,available,held,total,locked
//	1,1.2345,0.0000,1.2345,false
//	2,0.0000,0.0000,0.0000,true
package formatter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/payments/ledger"
	"github.com/robinvdvleuten/payments/output"
	"github.com/robinvdvleuten/payments/telemetry"
)

// MinimumScale is the least number of fractional digits an amount is written with.
const MinimumScale = 4

// Layout selects how the snapshot is written.
type Layout string

const (
	LayoutCSV   Layout = "csv"
	LayoutTable Layout = "table"
)

// ParseLayout returns the layout named s.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(s)); l {
	case LayoutCSV, LayoutTable:
		return l, nil
	default:
		return "", fmt.Errorf("unknown output layout %q", s)
	}
}

// Columns are the column names of the snapshot, in output order.
var Columns = []string{"client", "available", "held", "total", "locked"}

// Formatter writes ledger snapshots.
type Formatter struct {
	// Layout of the snapshot, csv when empty.
	Layout Layout

	// Styles colour the table layout. Nil writes plain text. The csv layout
	// is never styled.
	Styles *output.Styles
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithLayout sets the layout of the snapshot.
func WithLayout(layout Layout) Option {
	return func(f *Formatter) {
		f.Layout = layout
	}
}

// WithStyles sets the styles used by the table layout.
func WithStyles(styles *output.Styles) Option {
	return func(f *Formatter) {
		f.Styles = styles
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Layout: LayoutCSV,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Format writes the snapshot of every account in l to w.
func (f *Formatter) Format(ctx context.Context, l *ledger.Ledger, w io.Writer) error {
	layout := f.Layout
	if layout == "" {
		layout = LayoutCSV
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("format %s", layout))
	defer timer.End()

	accounts := l.Accounts()
	timer.Annotate(fmt.Sprintf("%d accounts", len(accounts)))

	switch layout {
	case LayoutCSV:
		return writeCSV(w, accounts)
	case LayoutTable:
		return writeTable(w, accounts, f.Styles)
	default:
		return fmt.Errorf("unknown output layout %q", layout)
	}
}

// FormatAmount renders d with at least MinimumScale fractional digits, and
// with as many as needed to write it exactly.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(int32(max(MinimumScale, scale(d))))
}

// scale returns the number of significant fractional digits of d.
func scale(d decimal.Decimal) int {
	s := d.String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// row returns the plain text cells of an account.
func row(acc *ledger.Account) []string {
	return []string{
		fmt.Sprintf("%d", acc.Client),
		FormatAmount(acc.Available),
		FormatAmount(acc.Held),
		FormatAmount(acc.Total()),
		fmt.Sprintf("%t", acc.Locked),
	}
}
