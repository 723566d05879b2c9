package ast

import "fmt"

// Position represents a location in the source table.
type Position struct {
	Filename string
	Line     int // Line number (1-indexed)
	Column   int // Field number (1-indexed), 0 when the whole record is meant
}

// IsZero returns true if the position was never set.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0 && p.Filename == ""
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	if p.Filename != "" {
		if p.Column > 0 {
			return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
		}
		return fmt.Sprintf("%s:%d", p.Filename, p.Line)
	}
	if p.Column > 0 {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("line %d", p.Line)
}

// GoString returns a Go-syntax representation of the position.
func (p Position) GoString() string {
	return fmt.Sprintf("Position{Filename: %q, Line: %d, Column: %d}", p.Filename, p.Line, p.Column)
}
