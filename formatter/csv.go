package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/robinvdvleuten/payments/ledger"
)

func writeCSV(w io.Writer, accounts []*ledger.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, acc := range accounts {
		if err := cw.Write(row(acc)); err != nil {
			return fmt.Errorf("failed to write client %d: %w", acc.Client, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
