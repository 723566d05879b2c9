package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/payments/ast"
)

// Reader streams transactions out of a delimited table.
//
// Next returns a *ParseError for a row that is structurally broken or
// semantically invalid; the caller may keep calling Next afterwards. Any other
// error means the underlying input failed and reading should stop.
type Reader struct {
	csv      *csv.Reader
	filename string
	started  bool
}

// NewReader creates a Reader over r. The filename is only used for positions.
func NewReader(r io.Reader, filename string) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Reader{
		csv:      cr,
		filename: filename,
	}
}

// Next returns the next transaction of the table, io.EOF once it is drained.
// A leading header row is skipped.
func (r *Reader) Next() (ast.Transaction, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				r.started = true
				return nil, &ParseError{
					Pos:        ast.Position{Filename: r.filename, Line: csvErr.Line},
					Message:    fmt.Sprintf("unable to read transaction: %v", csvErr.Err),
					Underlying: err,
				}
			}
			return nil, fmt.Errorf("failed to read %s: %w", r.describe(), err)
		}

		line, _ := r.csv.FieldPos(0)
		if !r.started {
			r.started = true
			if isHeader(record) {
				continue
			}
		}

		// The record is reused by the csv reader, so keep a copy for errors.
		record = append([]string(nil), record...)

		return ParseRecord(record, ast.Position{Filename: r.filename, Line: line})
	}
}

func (r *Reader) describe() string {
	if r.filename == "" {
		return "input"
	}
	return r.filename
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "type")
}
