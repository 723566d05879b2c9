package ast

import "github.com/shopspring/decimal"

// Deposit credits the client account with Amount.
//
// Example:
//
//	deposit, 1, 1, 1.2345
type Deposit struct {
	Pos    Position
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}

var _ Transaction = &Deposit{}

func (d *Deposit) Position() Position { return d.Pos }
func (d *Deposit) Kind() Kind         { return KindDeposit }
func (d *Deposit) ClientID() ClientID { return d.Client }
func (d *Deposit) TxID() TxID         { return d.Tx }

func (*Deposit) transaction() {}

// Withdrawal debits the client account with Amount if enough funds are available.
//
// Example:
//
//	withdrawal, 1, 2, 0.5
type Withdrawal struct {
	Pos    Position
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}

var _ Transaction = &Withdrawal{}

func (w *Withdrawal) Position() Position { return w.Pos }
func (w *Withdrawal) Kind() Kind         { return KindWithdrawal }
func (w *Withdrawal) ClientID() ClientID { return w.Client }
func (w *Withdrawal) TxID() TxID         { return w.Tx }

func (*Withdrawal) transaction() {}

// Dispute claims that the referenced transaction should be reversed. The amount
// of the referenced transaction is held until the dispute is resolved or charged
// back.
//
// Example:
//
//	dispute, 1, 1,
type Dispute struct {
	Pos    Position
	Client ClientID
	Tx     TxID
}

var _ Transaction = &Dispute{}

func (d *Dispute) Position() Position { return d.Pos }
func (d *Dispute) Kind() Kind         { return KindDispute }
func (d *Dispute) ClientID() ClientID { return d.Client }
func (d *Dispute) TxID() TxID         { return d.Tx }

func (*Dispute) transaction() {}

// Resolve ends a dispute by releasing the held funds back to the client.
type Resolve struct {
	Pos    Position
	Client ClientID
	Tx     TxID
}

var _ Transaction = &Resolve{}

func (r *Resolve) Position() Position { return r.Pos }
func (r *Resolve) Kind() Kind         { return KindResolve }
func (r *Resolve) ClientID() ClientID { return r.Client }
func (r *Resolve) TxID() TxID         { return r.Tx }

func (*Resolve) transaction() {}

// Chargeback ends a dispute by withdrawing the held funds and freezing the
// client account.
type Chargeback struct {
	Pos    Position
	Client ClientID
	Tx     TxID
}

var _ Transaction = &Chargeback{}

func (c *Chargeback) Position() Position { return c.Pos }
func (c *Chargeback) Kind() Kind         { return KindChargeback }
func (c *Chargeback) ClientID() ClientID { return c.Client }
func (c *Chargeback) TxID() TxID         { return c.Tx }

func (*Chargeback) transaction() {}
