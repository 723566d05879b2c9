package ledger

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/payments/ast"
	"github.com/robinvdvleuten/payments/parser"
	"github.com/shopspring/decimal"
)

func applyAll(t *testing.T, l *Ledger, txs []ast.Transaction) []error {
	t.Helper()
	var errs []error
	for _, tx := range txs {
		if err := l.Apply(tx); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func TestAccountIsCreatedLazily(t *testing.T) {
	l := New()
	assert.Equal(t, 0, l.Len())

	_, ok := l.GetAccount(3)
	assert.False(t, ok)

	// Even a rejected transaction creates the account.
	assert.Error(t, l.Apply(ast.NewDispute(3, 1)))

	acc, ok := l.GetAccount(3)
	assert.True(t, ok)
	assertBalances(t, acc, "0", "0", false)
	assert.Equal(t, "0.0000", acc.Available.StringFixed(4))
	assert.Equal(t, acc, l.Account(3))
	assert.Equal(t, 1, l.Len())
}

func TestAccountsInDiscoveryOrder(t *testing.T) {
	l := New()
	for _, client := range []ast.ClientID{7, 2, 7, 65535, 2, 1} {
		_ = l.Apply(ast.NewDeposit(client, ast.TxID(l.Len()*100+int(client)), d("1")))
	}

	assert.Equal(t, []ast.ClientID{7, 2, 65535, 1}, l.Clients())

	var clients []ast.ClientID
	for _, acc := range l.Accounts() {
		clients = append(clients, acc.Client)
	}
	assert.Equal(t, []ast.ClientID{7, 2, 65535, 1}, clients)
}

func TestClientsReturnsCopy(t *testing.T) {
	l := New()
	l.Account(1)
	clients := l.Clients()
	clients[0] = 42
	assert.Equal(t, []ast.ClientID{1}, l.Clients())
}

func TestDuplicateTransaction(t *testing.T) {
	l := New()
	assert.NoError(t, l.Apply(ast.NewDeposit(1, 1, d("1.2345"))))

	err := l.Apply(ast.NewDeposit(1, 1, d("1.2345")))
	var dup *DuplicateTransactionError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, SeverityInfo, dup.Severity())

	err = l.Apply(ast.NewWithdrawal(1, 1, d("1")))
	assert.True(t, errors.As(err, &dup), "withdrawal reusing a deposit id is a duplicate")

	assertBalances(t, l.Account(1), "1.2345", "0", false)
}

func TestRejectedWithdrawalIdCanBeReused(t *testing.T) {
	l := New()
	assert.Error(t, l.Apply(ast.NewWithdrawal(1, 1, d("1"))))
	assert.NoError(t, l.Apply(ast.NewDeposit(1, 1, d("3"))))
	assertBalances(t, l.Account(1), "3", "0", false)
}

func TestLockedAccountIsFrozen(t *testing.T) {
	l := New()
	assert.NoError(t, l.Apply(ast.NewDeposit(1, 1, d("5"))))
	assert.NoError(t, l.Apply(ast.NewDeposit(1, 2, d("3"))))
	assert.NoError(t, l.Apply(ast.NewDispute(1, 1)))
	assert.NoError(t, l.Apply(ast.NewDispute(1, 2)))
	assert.NoError(t, l.Apply(ast.NewChargeback(1, 1)))

	acc := l.Account(1)
	assertBalances(t, acc, "0", "3", true)

	for _, tx := range []ast.Transaction{
		ast.NewDeposit(1, 3, d("10")),
		ast.NewWithdrawal(1, 4, d("1")),
		ast.NewResolve(1, 2),
		ast.NewChargeback(1, 2),
		ast.NewDispute(1, 2),
		ast.NewDeposit(1, 1, d("1")),
	} {
		err := l.Apply(tx)
		var locked *AccountLockedError
		assert.True(t, errors.As(err, &locked), "%s must be rejected as locked, got %v", tx.Kind(), err)
		assert.Equal(t, SeverityInfo, locked.Severity())
	}

	assertBalances(t, acc, "0", "3", true)
	assert.Equal(t, StateDisputed, acc.State(2))
	assert.Equal(t, StateNone, acc.State(3))
}

func TestLockOnlyAffectsItsClient(t *testing.T) {
	l := New()
	txs := parser.MustParseString(context.Background(), `type,client,tx,amount
deposit,1,1,1.0
deposit,2,2,2.0
dispute,1,1,
chargeback,1,1,
deposit,2,3,1.0
deposit,1,4,5.0
`)
	errs := applyAll(t, l, txs)
	assert.Equal(t, 1, len(errs))

	assertBalances(t, l.Account(1), "0", "0", true)
	assertBalances(t, l.Account(2), "3", "0", false)
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		available string
		held      string
		locked    bool
	}{
		{
			name:      "SingleDeposit",
			input:     "deposit,1,1,1.2345",
			available: "1.2345", held: "0",
		},
		{
			name:      "DepositThenDispute",
			input:     "deposit,1,1,1.2345\ndispute,1,1,",
			available: "0", held: "1.2345",
		},
		{
			name:      "DisputeThenChargeback",
			input:     "deposit,1,1,1.2345\ndispute,1,1,\nchargeback,1,1,",
			available: "0", held: "0", locked: true,
		},
		{
			name:      "DisputeThenResolve",
			input:     "deposit,1,1,1.2345\ndispute,1,1,\nresolve,1,1,",
			available: "1.2345", held: "0",
		},
		{
			name:      "DoubleDeposit",
			input:     "deposit,1,1,1.2345\ndeposit,1,1,1.2345",
			available: "1.2345", held: "0",
		},
		{
			name:      "RejectedWithdrawalNotDisputable",
			input:     "deposit,1,1,1.2345\nwithdrawal,1,2,2\ndispute,1,2,",
			available: "1.2345", held: "0",
		},
		{
			name:      "DepositWithdrawRoundTrip",
			input:     "deposit,1,1,7.5\nwithdrawal,1,2,7.5",
			available: "0", held: "0",
		},
		{
			name:      "DisputeWhileDisputeInProgress",
			input:     "deposit,1,1,1.2345\ndispute,1,1,\ndispute,1,1,",
			available: "0", held: "1.2345",
		},
		{
			name:      "PartialHold",
			input:     "deposit,1,1,1.5\ndeposit,1,2,1.2345\ndispute,1,2,",
			available: "1.5", held: "1.2345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			applyAll(t, l, parser.MustParseString(context.Background(), tt.input))

			assert.Equal(t, 1, l.Len())
			assertBalances(t, l.Account(1), tt.available, tt.held, tt.locked)
		})
	}
}

// TestConservation applies random transaction streams and checks that for every
// client the total equals accepted deposits minus accepted withdrawals minus
// charged back amounts, and that the dispute lifecycle never moves backwards.
func TestConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		l := New()
		expected := map[ast.ClientID]decimal.Decimal{}
		completed := map[ast.ClientID]map[ast.TxID]bool{}
		nextTx := ast.TxID(1)

		for i := 0; i < 300; i++ {
			client := ast.ClientID(rng.Intn(4) + 1)
			if completed[client] == nil {
				completed[client] = map[ast.TxID]bool{}
			}
			acc := l.Account(client)
			before := *acc
			amount := decimal.New(int64(rng.Intn(100000)), -4)
			ref := ast.TxID(rng.Intn(int(nextTx)) + 1)

			var tx ast.Transaction
			switch rng.Intn(5) {
			case 0, 1:
				tx = ast.NewDeposit(client, nextTx, amount)
				nextTx++
			case 2:
				tx = ast.NewWithdrawal(client, nextTx, amount)
				nextTx++
			case 3:
				tx = ast.NewDispute(client, ref)
			case 4:
				if rng.Intn(2) == 0 {
					tx = ast.NewResolve(client, ref)
				} else {
					tx = ast.NewChargeback(client, ref)
				}
			}

			err := l.Apply(tx)
			if before.Locked {
				assert.Error(t, err)
			}
			if err != nil {
				assert.True(t, acc.Available.Equal(before.Available))
				assert.True(t, acc.Held.Equal(before.Held))
				assert.Equal(t, before.Locked, acc.Locked)
				continue
			}

			switch v := tx.(type) {
			case *ast.Deposit:
				expected[client] = expected[client].Add(v.Amount)
			case *ast.Withdrawal:
				expected[client] = expected[client].Sub(v.Amount)
			case *ast.Chargeback:
				record, _ := acc.Transaction(v.Tx)
				expected[client] = expected[client].Sub(record.Amount)
			}
			if tx.Kind() == ast.KindResolve || tx.Kind() == ast.KindChargeback {
				completed[client][tx.TxID()] = true
			}
		}

		for _, acc := range l.Accounts() {
			assert.True(t, acc.Total().Equal(expected[acc.Client]),
				"client %d: total %s, expected %s", acc.Client, acc.Total(), expected[acc.Client])
			for tx := range completed[acc.Client] {
				assert.Equal(t, StateCompleted, acc.State(tx))
			}
		}
	}
}
