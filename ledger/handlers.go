package ledger

import (
	"github.com/robinvdvleuten/payments/ast"
)

// deposit credits the available funds and records the deposit.
func (a *Account) deposit(tx *ast.Deposit) error {
	a.Available = a.Available.Add(tx.Amount)
	a.transactions[tx.Tx] = Record{Kind: ast.KindDeposit, Amount: tx.Amount}
	return nil
}

// withdraw debits the available funds if they cover the amount. Rejected
// withdrawals are not recorded and can therefore never be disputed.
func (a *Account) withdraw(tx *ast.Withdrawal) error {
	if tx.Amount.GreaterThan(a.Available) {
		return &InsufficientFundsError{
			Requested:   tx.Amount,
			Available:   a.Available,
			Transaction: tx,
		}
	}

	a.Available = a.Available.Sub(tx.Amount)
	a.transactions[tx.Tx] = Record{Kind: ast.KindWithdrawal, Amount: tx.Amount}
	return nil
}

// dispute holds the amount of a recorded transaction. Available funds may go
// negative if they were spent in the meantime.
func (a *Account) dispute(tx *ast.Dispute) error {
	record, ok := a.transactions[tx.Tx]
	if !ok {
		return &TransactionNotFoundError{Tx: tx.Tx, Transaction: tx}
	}
	if _, ok := a.disputes[tx.Tx]; ok {
		return &AlreadyDisputedError{Tx: tx.Tx, Transaction: tx}
	}
	if _, ok := a.completedDisputes[tx.Tx]; ok {
		return &DisputeCompletedError{Tx: tx.Tx, Transaction: tx}
	}

	a.Held = a.Held.Add(record.Amount)
	a.Available = a.Available.Sub(record.Amount)
	a.disputes[tx.Tx] = struct{}{}
	return nil
}

// resolve releases the held amount of a disputed transaction.
func (a *Account) resolve(tx *ast.Resolve) error {
	record, err := a.disputed(tx)
	if err != nil {
		return err
	}

	a.Held = a.Held.Sub(record.Amount)
	a.Available = a.Available.Add(record.Amount)
	a.completeDispute(tx.Tx)
	return nil
}

// chargeback removes the held amount of a disputed transaction and locks the
// account.
func (a *Account) chargeback(tx *ast.Chargeback) error {
	record, err := a.disputed(tx)
	if err != nil {
		return err
	}

	a.Held = a.Held.Sub(record.Amount)
	a.Locked = true
	a.completeDispute(tx.Tx)
	return nil
}

// disputed returns the record of the transaction referenced by a resolve or
// chargeback, provided it is currently under dispute.
func (a *Account) disputed(tx ast.Transaction) (Record, error) {
	if _, ok := a.disputes[tx.TxID()]; !ok {
		return Record{}, &NotDisputedError{Tx: tx.TxID(), Transaction: tx}
	}

	record, ok := a.transactions[tx.TxID()]
	if !ok {
		return Record{}, &InconsistentStateError{Tx: tx.TxID(), Transaction: tx}
	}
	return record, nil
}

func (a *Account) completeDispute(tx ast.TxID) {
	delete(a.disputes, tx)
	a.completedDisputes[tx] = struct{}{}
}
