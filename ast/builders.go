package ast

import "github.com/shopspring/decimal"

// NewDeposit creates a deposit of amount into the account of client.
//
// Example:
//
//	deposit := ast.NewDeposit(1, 1, decimal.RequireFromString("1.2345"))
func NewDeposit(client ClientID, tx TxID, amount decimal.Decimal) *Deposit {
	return &Deposit{Client: client, Tx: tx, Amount: amount}
}

// NewWithdrawal creates a withdrawal of amount from the account of client.
func NewWithdrawal(client ClientID, tx TxID, amount decimal.Decimal) *Withdrawal {
	return &Withdrawal{Client: client, Tx: tx, Amount: amount}
}

// NewDispute creates a dispute referencing the transaction tx of client.
func NewDispute(client ClientID, tx TxID) *Dispute {
	return &Dispute{Client: client, Tx: tx}
}

// NewResolve creates a resolve referencing the disputed transaction tx of client.
func NewResolve(client ClientID, tx TxID) *Resolve {
	return &Resolve{Client: client, Tx: tx}
}

// NewChargeback creates a chargeback referencing the disputed transaction tx of client.
func NewChargeback(client ClientID, tx TxID) *Chargeback {
	return &Chargeback{Client: client, Tx: tx}
}

// WithPosition sets the source position on a transaction built by one of the
// constructors above and returns it.
func WithPosition[T Transaction](tx T, pos Position) T {
	switch t := any(tx).(type) {
	case *Deposit:
		t.Pos = pos
	case *Withdrawal:
		t.Pos = pos
	case *Dispute:
		t.Pos = pos
	case *Resolve:
		t.Pos = pos
	case *Chargeback:
		t.Pos = pos
	}
	return tx
}
