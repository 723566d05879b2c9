package formatter

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/payments/ledger"
	"github.com/robinvdvleuten/payments/output"
)

// columnGap separates table columns.
const columnGap = "  "

// writeTable writes the accounts as an aligned table. The client column is
// left aligned, amounts are right aligned so their decimal points line up.
//
//	client  available    held   total  locked
//	1          1.5000  0.0000  1.5000  false
//	2          2.0000  0.0000  2.0000  false
func writeTable(w io.Writer, accounts []*ledger.Account, styles *output.Styles) error {
	rows := make([][]string, 0, len(accounts))
	for _, acc := range accounts {
		rows = append(rows, row(acc))
	}

	widths := make([]int, len(Columns))
	for i, name := range Columns {
		widths[i] = runewidth.StringWidth(name)
	}
	for _, cells := range rows {
		for i, cell := range cells {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var buf strings.Builder

	header := make([]string, len(Columns))
	for i, name := range Columns {
		cell := pad(name, widths[i], alignRight(i))
		if styles != nil {
			cell = styles.Keyword(cell)
		}
		header[i] = cell
	}
	writeLine(&buf, header)

	for r, cells := range rows {
		acc := accounts[r]
		styled := make([]string, len(cells))
		for i, cell := range cells {
			cell = pad(cell, widths[i], alignRight(i))
			if styles != nil {
				cell = styleCell(styles, i, cell, acc)
			}
			styled[i] = cell
		}
		writeLine(&buf, styled)
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func writeLine(buf *strings.Builder, cells []string) {
	buf.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " "))
	buf.WriteByte('\n')
}

// alignRight reports whether column i holds an amount.
func alignRight(i int) bool {
	return i > 0 && i < len(Columns)-1
}

func pad(s string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func styleCell(styles *output.Styles, column int, cell string, acc *ledger.Account) string {
	switch column {
	case 0:
		return styles.Client(cell)
	case 1:
		return styles.Amount(cell, acc.Available.IsNegative())
	case 2:
		return styles.Amount(cell, acc.Held.IsNegative())
	case 3:
		return styles.Amount(cell, acc.Total().IsNegative())
	default:
		return styles.Locked(cell, acc.Locked)
	}
}
