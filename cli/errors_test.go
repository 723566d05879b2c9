package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/payments/ast"
	"github.com/robinvdvleuten/payments/ledger"
	"github.com/robinvdvleuten/payments/parser"
)

func TestErrorRenderer_RenderParseErrorWithSourceContext(t *testing.T) {
	source := `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 1, 2, abc
withdrawal, 1, 3, 0.5`

	parseErr := &parser.ParseError{
		Pos: ast.Position{
			Filename: "tx.csv",
			Line:     3,
			Column:   4,
		},
		Message: `unable to read amount "abc"`,
	}

	output := NewErrorRenderer([]byte(source)).Render(parseErr)

	assert.Contains(t, output, `tx.csv:3:4: unable to read amount "abc"`)
	assert.Contains(t, output, "   deposit, 1, 1, 1.0")
	assert.Contains(t, output, "   withdrawal, 1, 3, 0.5")

	// The caret points at the amount field.
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if strings.HasSuffix(line, "deposit, 1, 2, abc") {
			assert.Equal(t, "   "+strings.Repeat(" ", 15)+"^", lines[i+1])
			return
		}
	}
	t.Fatal("offending line not rendered")
}

func TestErrorRenderer_RecordErrorHasNoCaret(t *testing.T) {
	parseErr := &parser.ParseError{
		Pos:     ast.Position{Filename: "tx.csv", Line: 1},
		Message: "unable to read transaction",
	}

	output := NewErrorRenderer([]byte(`deposit,1,"1`)).Render(parseErr)
	assert.Contains(t, output, `   deposit,1,"1`)
	assert.NotContains(t, output, "^")
}

func TestErrorRenderer_RejectionWithoutSource(t *testing.T) {
	withdrawal := ast.NewWithdrawal(1, 4, decimal.RequireFromString("3.0"))
	err := &ledger.InsufficientFundsError{
		Requested:   withdrawal.Amount,
		Available:   decimal.RequireFromString("2"),
		Transaction: withdrawal,
	}

	output := NewErrorRenderer(nil).Render(err)
	assert.Contains(t, output, "Cannot withdraw 3 with 2 available")
	assert.Contains(t, output, "   withdrawal, 1, 4, 3")
}

func TestErrorRenderer_PlainError(t *testing.T) {
	err := NewCommandError(1, "")
	assert.Equal(t, "command failed", NewErrorRenderer([]byte("x")).Render(err))
}

func TestErrorRenderer_RenderAll(t *testing.T) {
	r := NewErrorRenderer(nil)
	assert.Equal(t, "", r.RenderAll(nil))

	output := r.RenderAll([]error{NewCommandError(1, ""), NewCommandError(2, "")})
	assert.Equal(t, "command failed\n\ncommand failed", output)
}

func TestTransactionLine(t *testing.T) {
	assert.Equal(t, "deposit, 1, 2, 1.5", transactionLine(ast.NewDeposit(1, 2, decimal.RequireFromString("1.5"))))
	assert.Equal(t, "dispute, 3, 4,", transactionLine(ast.NewDispute(3, 4)))
	assert.Equal(t, "chargeback, 3, 4,", transactionLine(ast.NewChargeback(3, 4)))
}

func TestFieldOffset(t *testing.T) {
	tests := []struct {
		line     string
		field    int
		expected int
	}{
		{"deposit, 1, 2, abc", 1, 0},
		{"deposit, 1, 2, abc", 2, 9},
		{"deposit, 1, 2, abc", 4, 15},
		{"deposit,1,2,abc", 4, 12},
		{`"de,posit",1`, 2, 11},
		{"deposit,1", 4, 9},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, fieldOffset(tt.line, tt.field), "%q field %d", tt.line, tt.field)
	}
}
