package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/payments/ast"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	if e, ok := err.(interface {
		GetPosition() ast.Position
		GetTransaction() ast.Transaction
		Error() string
	}); ok {
		if r.source != nil && e.GetPosition().Line > 0 {
			return r.renderWithSourceContext(e.GetPosition(), e.Error())
		}
		return r.renderWithContext(e.Error(), e.GetTransaction())
	}

	if e, ok := err.(interface {
		GetPosition() ast.Position
		Error() string
	}); ok {
		if r.source != nil {
			return r.renderWithSourceContext(e.GetPosition(), e.Error())
		}
	}

	return err.Error()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithSourceContext(pos ast.Position, message string) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(r.source), "\n")

	startLine := pos.Line - 3
	endLine := pos.Line + 1

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		if i >= len(sourceLines) {
			break
		}
		line := strings.TrimRight(sourceLines[i], "\r")
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(line))
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", fieldOffset(line, pos.Column)))
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithContext(message string, tx ast.Transaction) string {
	if tx == nil {
		return message
	}

	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")
	buf.WriteString("   ")
	buf.WriteString(errContextStyle.Render(transactionLine(tx)))
	buf.WriteByte('\n')

	return buf.String()
}

// transactionLine writes a transaction back as a table row.
func transactionLine(tx ast.Transaction) string {
	switch t := tx.(type) {
	case *ast.Deposit:
		return fmt.Sprintf("%s, %d, %d, %s", t.Kind(), t.Client, t.Tx, t.Amount)
	case *ast.Withdrawal:
		return fmt.Sprintf("%s, %d, %d, %s", t.Kind(), t.Client, t.Tx, t.Amount)
	default:
		return fmt.Sprintf("%s, %d, %d,", tx.Kind(), tx.ClientID(), tx.TxID())
	}
}

// fieldOffset returns the offset of the first character of the 1-indexed
// field in line. Commas inside quotes do not separate fields.
func fieldOffset(line string, field int) int {
	inQuotes := false
	current := 1
	for i, c := range line {
		if current == field {
			if c == ' ' || c == '\t' {
				continue
			}
			return i
		}
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			current++
		}
	}
	return len(line)
}
