package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/payments/ast"
	"github.com/shopspring/decimal"
)

// Severity classifies why a transaction was rejected.
type Severity int

const (
	// SeverityInfo marks business-rule rejections that are expected in normal
	// operation, such as a withdrawal without enough funds.
	SeverityInfo Severity = iota
	// SeverityWarn marks rule violations that suggest bad input, such as
	// disputing a transaction twice.
	SeverityWarn
	// SeverityError marks rows that could not be processed at all and internal
	// consistency failures of the ledger state.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Rejection is implemented by every error returned from Apply. A rejection never
// aborts a run: the transaction is skipped and processing continues.
type Rejection interface {
	error
	Severity() Severity
	GetPosition() ast.Position
	GetTransaction() ast.Transaction
}

// location formats the source position of a transaction, falling back to its
// identifiers when it was not read from a file.
func location(tx ast.Transaction) string {
	pos := tx.Position()
	if pos.IsZero() {
		return fmt.Sprintf("client %d, tx %d", tx.ClientID(), tx.TxID())
	}
	return pos.String()
}

// AccountLockedError is returned when a transaction targets a locked account
type AccountLockedError struct {
	Client      ast.ClientID
	Transaction ast.Transaction
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("%s: Rejecting %s. Account %d is locked (tx %d)",
		location(e.Transaction), e.Transaction.Kind(), e.Client, e.Transaction.TxID())
}

func (e *AccountLockedError) Severity() Severity { return SeverityInfo }

func (e *AccountLockedError) GetPosition() ast.Position {
	return e.Transaction.Position()
}

func (e *AccountLockedError) GetTransaction() ast.Transaction {
	return e.Transaction
}

// DuplicateTransactionError is returned when a deposit or withdrawal reuses an
// identifier already stored in the account history
type DuplicateTransactionError struct {
	Tx          ast.TxID
	Transaction ast.Transaction
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("%s: Rejecting %s. Duplicate transaction %d",
		location(e.Transaction), e.Transaction.Kind(), e.Tx)
}

func (e *DuplicateTransactionError) Severity() Severity { return SeverityInfo }

func (e *DuplicateTransactionError) GetPosition() ast.Position {
	return e.Transaction.Position()
}

func (e *DuplicateTransactionError) GetTransaction() ast.Transaction {
	return e.Transaction
}

// InsufficientFundsError is returned when a withdrawal exceeds the available funds
type InsufficientFundsError struct {
	Requested   decimal.Decimal
	Available   decimal.Decimal
	Transaction *ast.Withdrawal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: Rejecting withdrawal %d. Cannot withdraw %s with %s available",
		location(e.Transaction), e.Transaction.Tx, e.Requested, e.Available)
}

func (e *InsufficientFundsError) Severity() Severity { return SeverityInfo }

func (e *InsufficientFundsError) GetPosition() ast.Position {
	return e.Transaction.Pos
}

func (e *InsufficientFundsError) GetTransaction() ast.Transaction {
	return e.Transaction
}

// TransactionNotFoundError is returned when a dispute references a transaction
// that is not in the account history
type TransactionNotFoundError struct {
	Tx          ast.TxID
	Transaction ast.Transaction
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("%s: Rejecting %s. Referenced transaction %d not found",
		location(e.Transaction), e.Transaction.Kind(), e.Tx)
}

func (e *TransactionNotFoundError) Severity() Severity { return SeverityInfo }

func (e *TransactionNotFoundError) GetPosition() ast.Position {
	return e.Transaction.Position()
}

func (e *TransactionNotFoundError) GetTransaction() ast.Transaction {
	return e.Transaction
}

// AlreadyDisputedError is returned when a dispute references a transaction that
// is currently under dispute
type AlreadyDisputedError struct {
	Tx          ast.TxID
	Transaction ast.Transaction
}

func (e *AlreadyDisputedError) Error() string {
	return fmt.Sprintf("%s: Rejecting dispute. Referenced transaction %d already in dispute",
		location(e.Transaction), e.Tx)
}

func (e *AlreadyDisputedError) Severity() Severity { return SeverityWarn }

func (e *AlreadyDisputedError) GetPosition() ast.Position {
	return e.Transaction.Position()
}

func (e *AlreadyDisputedError) GetTransaction() ast.Transaction {
	return e.Transaction
}

// DisputeCompletedError is returned when a dispute references a transaction whose
// earlier dispute was already resolved or charged back
type DisputeCompletedError struct {
	Tx          ast.TxID
	Transaction ast.Transaction
}

func (e *DisputeCompletedError) Error() string {
	return fmt.Sprintf("%s: Rejecting dispute. Cannot dispute transaction %d more than once",
		location(e.Transaction), e.Tx)
}

func (e *DisputeCompletedError) Severity() Severity { return SeverityWarn }

func (e *DisputeCompletedError) GetPosition() ast.Position {
	return e.Transaction.Position()
}

func (e *DisputeCompletedError) GetTransaction() ast.Transaction {
	return e.Transaction
}

// NotDisputedError is returned when a resolve or chargeback references a
// transaction that is not under dispute
type NotDisputedError struct {
	Tx          ast.TxID
	Transaction ast.Transaction
}

func (e *NotDisputedError) Error() string {
	return fmt.Sprintf("%s: Rejecting %s. Referenced transaction %d is not in dispute",
		location(e.Transaction), e.Transaction.Kind(), e.Tx)
}

func (e *NotDisputedError) Severity() Severity { return SeverityInfo }

func (e *NotDisputedError) GetPosition() ast.Position {
	return e.Transaction.Position()
}

func (e *NotDisputedError) GetTransaction() ast.Transaction {
	return e.Transaction
}

// InconsistentStateError is returned when a transaction is marked as disputed but
// is missing from the account history. This cannot happen while the history is
// append-only and signals a bug in the ledger.
type InconsistentStateError struct {
	Tx          ast.TxID
	Transaction ast.Transaction
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("%s: Rejecting %s. Disputed transaction %d missing from history",
		location(e.Transaction), e.Transaction.Kind(), e.Tx)
}

func (e *InconsistentStateError) Severity() Severity { return SeverityError }

func (e *InconsistentStateError) GetPosition() ast.Position {
	return e.Transaction.Position()
}

func (e *InconsistentStateError) GetTransaction() ast.Transaction {
	return e.Transaction
}

var (
	_ Rejection = (*AccountLockedError)(nil)
	_ Rejection = (*DuplicateTransactionError)(nil)
	_ Rejection = (*InsufficientFundsError)(nil)
	_ Rejection = (*TransactionNotFoundError)(nil)
	_ Rejection = (*AlreadyDisputedError)(nil)
	_ Rejection = (*DisputeCompletedError)(nil)
	_ Rejection = (*NotDisputedError)(nil)
	_ Rejection = (*InconsistentStateError)(nil)
)
