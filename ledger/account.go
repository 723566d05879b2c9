package ledger

import (
	"github.com/robinvdvleuten/payments/ast"
	"github.com/shopspring/decimal"
)

// balanceScale is the number of fractional digits a fresh balance starts with.
const balanceScale = 4

// Record is an accepted deposit or withdrawal kept in the account history so
// later disputes can reference it. Records are never modified once stored.
type Record struct {
	Kind   ast.Kind
	Amount decimal.Decimal
}

// DisputeState is the lifecycle state of a transaction identifier within an
// account: None → Recorded → Disputed → Completed.
type DisputeState int

const (
	// StateNone means the identifier was never accepted into the history.
	StateNone DisputeState = iota
	// StateRecorded means the transaction is in the history and not disputed.
	StateRecorded
	// StateDisputed means the transaction amount is currently held.
	StateDisputed
	// StateCompleted means the dispute was resolved or charged back. This state
	// is absorbing: the transaction can never be disputed again.
	StateCompleted
)

// String returns the string representation of the dispute state
func (s DisputeState) String() string {
	switch s {
	case StateRecorded:
		return "recorded"
	case StateDisputed:
		return "disputed"
	case StateCompleted:
		return "completed"
	default:
		return "none"
	}
}

// Account represents the balances and dispute bookkeeping of a single client.
//
// The total balance is not stored; Total always derives it from Available and
// Held so the three values cannot drift apart.
type Account struct {
	Client    ast.ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool

	transactions      map[ast.TxID]Record
	disputes          map[ast.TxID]struct{}
	completedDisputes map[ast.TxID]struct{}
}

func newAccount(client ast.ClientID) *Account {
	return &Account{
		Client:            client,
		Available:         decimal.New(0, -balanceScale),
		Held:              decimal.New(0, -balanceScale),
		transactions:      make(map[ast.TxID]Record),
		disputes:          make(map[ast.TxID]struct{}),
		completedDisputes: make(map[ast.TxID]struct{}),
	}
}

// Total returns the sum of the available and held funds.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Transaction returns the stored record for an accepted deposit or withdrawal.
func (a *Account) Transaction(tx ast.TxID) (Record, bool) {
	r, ok := a.transactions[tx]
	return r, ok
}

// State returns the dispute lifecycle state of a transaction identifier.
func (a *Account) State(tx ast.TxID) DisputeState {
	if _, ok := a.completedDisputes[tx]; ok {
		return StateCompleted
	}
	if _, ok := a.disputes[tx]; ok {
		return StateDisputed
	}
	if _, ok := a.transactions[tx]; ok {
		return StateRecorded
	}
	return StateNone
}

// Disputes returns the number of transactions currently under dispute.
func (a *Account) Disputes() int {
	return len(a.disputes)
}
