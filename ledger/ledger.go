// Package ledger maintains client accounts and applies transactions to them.
//
// A Ledger owns one Account per client identifier. Accounts are created on first
// use with zero balances and are never removed. Apply routes a transaction to its
// account and enforces, in order:
//   - Locked accounts accept no further transactions
//   - Deposits and withdrawals must carry an identifier not seen before
//   - The rules of the transaction kind (enough funds, dispute lifecycle)
//
// Apply never fails the run. Every rejected transaction is reported as an error
// implementing Rejection, whose Severity tells how unusual the rejection is.
//
// Example usage:
//
//	l := ledger.New()
//	for _, tx := range txs {
//	    if err := l.Apply(tx); err != nil {
//	        log.Println(err)
//	    }
//	}
//	for _, acc := range l.Accounts() {
//	    fmt.Println(acc.Client, acc.Available, acc.Held, acc.Total(), acc.Locked)
//	}
//
// A Ledger is not safe for concurrent use. Transactions of one client must be
// applied in input order because disputes, resolves and chargebacks refer to
// earlier state.
package ledger

import (
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/payments/ast"
)

// Ledger holds every client account seen so far, in discovery order.
type Ledger struct {
	accounts map[ast.ClientID]*Account
	order    []ast.ClientID
}

// New creates a new empty ledger
func New() *Ledger {
	return &Ledger{
		accounts: make(map[ast.ClientID]*Account),
	}
}

// Account returns the account of client, creating an empty one if the client
// has not been seen before.
func (l *Ledger) Account(client ast.ClientID) *Account {
	if acc, ok := l.accounts[client]; ok {
		return acc
	}

	acc := newAccount(client)
	l.accounts[client] = acc
	l.order = append(l.order, client)
	return acc
}

// GetAccount returns an account without creating it
func (l *Ledger) GetAccount(client ast.ClientID) (*Account, bool) {
	acc, ok := l.accounts[client]
	return acc, ok
}

// Clients returns the client identifiers in the order they were first seen
func (l *Ledger) Clients() []ast.ClientID {
	return slices.Clone(l.order)
}

// Accounts returns all accounts in the order their clients were first seen
func (l *Ledger) Accounts() []*Account {
	accounts := make([]*Account, 0, len(l.order))
	for _, client := range l.order {
		accounts = append(accounts, l.accounts[client])
	}
	return accounts
}

// Len returns the number of accounts
func (l *Ledger) Len() int {
	return len(l.order)
}

// Apply applies a single transaction to the account of its client. A non-nil
// error is always a Rejection and leaves every balance unchanged, but the
// account of a client seen for the first time is created either way.
func (l *Ledger) Apply(tx ast.Transaction) error {
	acc := l.Account(tx.ClientID())

	// Once locked nothing touches the account again, disputes included.
	if acc.Locked {
		return &AccountLockedError{Client: acc.Client, Transaction: tx}
	}

	if tx.Kind().RecordsHistory() {
		if _, ok := acc.transactions[tx.TxID()]; ok {
			return &DuplicateTransactionError{Tx: tx.TxID(), Transaction: tx}
		}
	}

	switch t := tx.(type) {
	case *ast.Deposit:
		return acc.deposit(t)
	case *ast.Withdrawal:
		return acc.withdraw(t)
	case *ast.Dispute:
		return acc.dispute(t)
	case *ast.Resolve:
		return acc.resolve(t)
	case *ast.Chargeback:
		return acc.chargeback(t)
	default:
		panic("ledger: unknown transaction type " + tx.Kind().String())
	}
}
