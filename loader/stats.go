package loader

import (
	"errors"

	"github.com/robinvdvleuten/payments/ledger"
)

// Stats counts the outcome of every row of a loaded table.
type Stats struct {
	Rows      int // Data rows read, header excluded
	Applied   int // Transactions accepted by the ledger
	Malformed int // Rows that could not be parsed

	// Rejected transactions by severity.
	Info  int
	Warn  int
	Error int
}

// Rejected returns the number of parsed transactions the ledger rejected.
func (s *Stats) Rejected() int {
	return s.Info + s.Warn + s.Error
}

// Skipped returns the number of rows that did not change the ledger.
func (s *Stats) Skipped() int {
	return s.Malformed + s.Rejected()
}

func (s *Stats) reject(err error) {
	var rejection ledger.Rejection
	if !errors.As(err, &rejection) {
		s.Error++
		return
	}

	switch rejection.Severity() {
	case ledger.SeverityInfo:
		s.Info++
	case ledger.SeverityWarn:
		s.Warn++
	default:
		s.Error++
	}
}
