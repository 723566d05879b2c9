// Package parser turns rows of a delimited transaction table into typed
// transactions.
//
// The table has the columns type, client, tx and amount, in that order. Fields
// are trimmed, rows may carry a varying number of fields and the type is
// matched case-insensitively. The amount is mandatory for deposits and
// withdrawals and ignored for the other kinds.
//
// Example input:
//
//	type,       client, tx, amount
//	deposit,         1,  1, 1.2345
//	dispute,         1,  1,
//	chargeback,      1,  1
//
// Rows that cannot be parsed produce a *ParseError and are skipped; reading
// continues with the next row.
package parser

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/robinvdvleuten/payments/ast"
	"github.com/shopspring/decimal"
)

const (
	columnType = iota + 1
	columnClient
	columnTx
	columnAmount
)

// ParseRecord converts the fields of a single row into a transaction. The
// position is attached to the transaction and to any returned *ParseError.
func ParseRecord(record []string, pos ast.Position) (ast.Transaction, error) {
	field := func(column int) (string, bool) {
		if len(record) < column {
			return "", false
		}
		return strings.TrimSpace(record[column-1]), true
	}

	raw, ok := field(columnType)
	if !ok || raw == "" {
		return nil, newFieldError(pos, columnType, record, nil, "unable to read transaction type: not enough fields")
	}
	kind, err := ast.ParseKind(raw)
	if err != nil {
		return nil, newFieldError(pos, columnType, record, err, "unable to read transaction type: %v", err)
	}

	raw, ok = field(columnClient)
	if !ok {
		return nil, newFieldError(pos, columnClient, record, nil, "unable to read client: not enough fields")
	}
	client, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return nil, newFieldError(pos, columnClient, record, err, "unable to read client %q: %v", raw, numError(err))
	}

	raw, ok = field(columnTx)
	if !ok {
		return nil, newFieldError(pos, columnTx, record, nil, "unable to read tx: not enough fields")
	}
	tx, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, newFieldError(pos, columnTx, record, err, "unable to read tx %q: %v", raw, numError(err))
	}

	clientID, txID := ast.ClientID(client), ast.TxID(tx)

	switch kind {
	case ast.KindDeposit, ast.KindWithdrawal:
		raw, ok = field(columnAmount)
		if !ok || raw == "" {
			return nil, newFieldError(pos, columnAmount, record, nil, "unable to read amount: %s requires an amount", kind)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, newFieldError(pos, columnAmount, record, err, "unable to read amount %q: %v", raw, err)
		}
		if amount.IsNegative() {
			return nil, newFieldError(pos, columnAmount, record, nil, "unable to read amount %q: must not be negative", raw)
		}
		if kind == ast.KindDeposit {
			return &ast.Deposit{Pos: pos, Client: clientID, Tx: txID, Amount: amount}, nil
		}
		return &ast.Withdrawal{Pos: pos, Client: clientID, Tx: txID, Amount: amount}, nil
	case ast.KindDispute:
		return &ast.Dispute{Pos: pos, Client: clientID, Tx: txID}, nil
	case ast.KindResolve:
		return &ast.Resolve{Pos: pos, Client: clientID, Tx: txID}, nil
	default:
		return &ast.Chargeback{Pos: pos, Client: clientID, Tx: txID}, nil
	}
}

// numError strips the strconv prefix so messages do not repeat the input.
func numError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err
	}
	return err
}

// Parse reads a whole table and returns the transactions in input order along
// with every row-level error. The returned error is only set when the input
// itself could not be read.
func Parse(ctx context.Context, filename string, r io.Reader) ([]ast.Transaction, []*ParseError, error) {
	reader := NewReader(r, filename)

	var (
		txs     []ast.Transaction
		rowErrs []*ParseError
	)
	for {
		if err := ctx.Err(); err != nil {
			return txs, rowErrs, err
		}

		tx, err := reader.Next()
		if err == io.EOF {
			return txs, rowErrs, nil
		}
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				rowErrs = append(rowErrs, parseErr)
				continue
			}
			return txs, rowErrs, err
		}
		txs = append(txs, tx)
	}
}

// ParseString parses a table held in a string.
func ParseString(ctx context.Context, str string) ([]ast.Transaction, []*ParseError, error) {
	return Parse(ctx, "", strings.NewReader(str))
}

// MustParseString parses a table held in a string and panics if the input cannot
// be read or any row is malformed. Intended for tests.
func MustParseString(ctx context.Context, str string) []ast.Transaction {
	txs, rowErrs, err := ParseString(ctx, str)
	if err != nil {
		panic(err)
	}
	if len(rowErrs) > 0 {
		panic(rowErrs[0])
	}
	return txs
}
