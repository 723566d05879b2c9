// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles provides styled output helpers for the CLI.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer. Styling is
// dropped automatically when the writer is not a terminal.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("1")).
		Bold().
		String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		Bold().
		String()
}

// Client returns a styled client identifier (cyan).
func (s *Styles) Client(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("6")).
		String()
}

// Amount returns a styled amount (magenta), or red when negative.
func (s *Styles) Amount(text string, negative bool) string {
	color := "5"
	if negative {
		color = "1"
	}
	return s.output.String(text).
		Foreground(s.output.Color(color)).
		String()
}

// Locked returns the lock flag, highlighted when the account is locked.
func (s *Styles) Locked(text string, locked bool) string {
	if locked {
		return s.Error(text)
	}
	return s.Dim(text)
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Dim returns dimmed text (for secondary information).
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Timing returns a styled timing string. Slow operations are yellow, the rest
// is dimmed.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.Warning(text)
	}
	return s.Dim(text)
}
