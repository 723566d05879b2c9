// Package ast declares the types used to represent a parsed transaction log.
//
// Every row of the input table becomes one Transaction. Each transaction kind has
// its own type so the payload a kind carries is enforced by the compiler: only
// deposits and withdrawals have an amount, while disputes, resolves and
// chargebacks merely reference an earlier transaction by its identifier.
//
// Transactions can be produced by the parser package or constructed directly
// with the builders in this package:
//
//	tx := ast.NewDeposit(1, 1, decimal.RequireFromString("1.2345"))
package ast

import (
	"fmt"
	"strings"
)

// ClientID identifies a client account.
type ClientID uint16

// TxID identifies a transaction. Identifiers are globally unique for deposits and
// withdrawals; disputes, resolves and chargebacks reuse the identifier of the
// transaction they reference.
type TxID uint32

// Kind is the type of a transaction as written in the input.
type Kind string

const (
	KindChargeback Kind = "chargeback"
	KindDeposit    Kind = "deposit"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindWithdrawal Kind = "withdrawal"
)

// Kinds lists every transaction kind in the order they are documented.
var Kinds = []Kind{KindChargeback, KindDeposit, KindDispute, KindResolve, KindWithdrawal}

// ParseKind parses a transaction kind case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(s))
	switch k {
	case KindChargeback, KindDeposit, KindDispute, KindResolve, KindWithdrawal:
		return k, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// RecordsHistory reports whether transactions of this kind are stored in the
// account history and therefore need a unique identifier.
func (k Kind) RecordsHistory() bool {
	return k == KindDeposit || k == KindWithdrawal
}

func (k Kind) String() string { return string(k) }

// Transaction is implemented by every transaction type. The set of types is
// closed: Deposit, Withdrawal, Dispute, Resolve and Chargeback.
type Transaction interface {
	Position() Position
	Kind() Kind
	ClientID() ClientID
	TxID() TxID

	transaction()
}
