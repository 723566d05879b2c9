// Large Transactions File Generator
//
// This tool generates a large transactions CSV file for performance testing and
// profiling. It mixes every transaction type, disputes that reference earlier
// deposits, withdrawals that overdraw and a few malformed rows so every code
// path of the ledger is exercised.
//
// Usage:
//
//	go run main.go > large.csv
//	go run main.go 20000000 > large.csv  # Specify target size in bytes
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB

	clients = 2000
)

var malformed = []string{
	"deposit, 1",
	"refund, 1, 1, 1.0",
	"withdrawal, 1, 1, abc",
	"deposit, 70000, 1, 1.0",
}

type generator struct {
	nextTx   uint32
	deposits map[uint16][]uint32 // deposit ids per client, for disputes
	disputed map[uint16][]uint32 // disputed ids per client, for resolves and chargebacks
}

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	out := bufio.NewWriter(os.Stdout)
	defer func() { _ = out.Flush() }()

	g := &generator{
		deposits: make(map[uint16][]uint32),
		disputed: make(map[uint16][]uint32),
	}

	header := "type, client, tx, amount\n"
	_, _ = out.WriteString(header)

	bytesWritten := len(header)
	rows := 0

	for bytesWritten < targetSize {
		row := g.next() + "\n"
		_, _ = out.WriteString(row)
		bytesWritten += len(row)
		rows++
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d rows\n", bytesWritten, rows)
}

func (g *generator) next() string {
	client := uint16(rand.Intn(clients) + 1)

	// Mix different types of transactions
	switch n := rand.Intn(100); {
	case n < 50: // 50% - Deposit
		tx := g.tx()
		g.deposits[client] = append(g.deposits[client], tx)
		return fmt.Sprintf("deposit, %d, %d, %s", client, tx, randAmount(1, 5000))

	case n < 75: // 25% - Withdrawal, some of them overdrawing
		return fmt.Sprintf("withdrawal, %d, %d, %s", client, g.tx(), randAmount(1, 8000))

	case n < 87: // 12% - Dispute of an earlier deposit, or of an unknown id
		tx, ok := pick(g.deposits[client])
		if !ok {
			tx = g.tx()
		}
		g.disputed[client] = append(g.disputed[client], tx)
		return fmt.Sprintf("dispute, %d, %d,", client, tx)

	case n < 95: // 8% - Resolve
		tx, ok := pick(g.disputed[client])
		if !ok {
			tx = g.tx()
		}
		return fmt.Sprintf("resolve, %d, %d,", client, tx)

	case n < 99: // 4% - Chargeback
		tx, ok := pick(g.disputed[client])
		if !ok {
			tx = g.tx()
		}
		return fmt.Sprintf("chargeback, %d, %d,", client, tx)

	default: // 1% - Malformed row
		return malformed[rand.Intn(len(malformed))]
	}
}

func (g *generator) tx() uint32 {
	g.nextTx++
	return g.nextTx
}

func pick(ids []uint32) (uint32, bool) {
	if len(ids) == 0 {
		return 0, false
	}
	return ids[rand.Intn(len(ids))], true
}

// randAmount returns an amount with four fractional digits between min and max.
func randAmount(min, max int64) string {
	units := min*10000 + rand.Int63n((max-min)*10000)
	return decimal.New(units, -4).StringFixed(4)
}
