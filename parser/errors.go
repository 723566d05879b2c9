package parser

import (
	"fmt"

	"github.com/robinvdvleuten/payments/ast"
)

// ParseError represents a row of the input that could not be turned into a
// transaction. Parse errors never stop a run: the row is reported and skipped.
type ParseError struct {
	Pos        ast.Position
	Message    string
	Record     []string // Raw fields of the offending row, if any were read
	Underlying error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

func newFieldError(pos ast.Position, column int, record []string, underlying error, format string, args ...any) *ParseError {
	pos.Column = column
	return &ParseError{
		Pos:        pos,
		Message:    fmt.Sprintf(format, args...),
		Record:     record,
		Underlying: underlying,
	}
}
