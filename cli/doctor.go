package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/payments/ast"
	"github.com/robinvdvleuten/payments/ledger"
	"github.com/robinvdvleuten/payments/parser"
)

// DoctorCmd provides doctor utilities for debugging transaction files.
type DoctorCmd struct {
	Parse  ParseCmd  `cmd:"" help:"Show the transactions parsed from a CSV file."`
	Replay ReplayCmd `cmd:"" help:"Apply a CSV file and explain every rejected row."`
}

// ParseCmd shows the transactions parsed from a file.
type ParseCmd struct {
	File FileOrStdin `help:"Transactions CSV file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Repr bool        `help:"Dump every transaction as a Go value."`
}

// Run executes the parse command.
func (cmd *ParseCmd) Run(ctx *kong.Context) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	txs, rowErrs, err := parser.Parse(context.Background(), cmd.File.Filename, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	printer := repr.New(ctx.Stdout, repr.Indent("  "))
	for _, tx := range txs {
		// Format: KIND line client tx amount
		_, _ = fmt.Fprintf(ctx.Stdout, "%-10s %-6d client=%d tx=%d%s\n",
			tx.Kind(),
			tx.Position().Line,
			tx.ClientID(),
			tx.TxID(),
			amountSuffix(tx))

		if cmd.Repr {
			printer.Println(tx)
		}
	}

	if len(rowErrs) > 0 {
		errs := make([]error, len(rowErrs))
		for i, rowErr := range rowErrs {
			errs[i] = rowErr
		}
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(content).RenderAll(errs))
		reason := fmt.Sprintf("%d malformed %s", len(rowErrs), plural(len(rowErrs), "row", "rows"))
		printError(ctx.Stderr, reason)
		return NewCommandError(1, reason)
	}

	printSuccess(ctx.Stderr, fmt.Sprintf("Parsed %d %s", len(txs), plural(len(txs), "transaction", "transactions")))
	return nil
}

func amountSuffix(tx ast.Transaction) string {
	switch t := tx.(type) {
	case *ast.Deposit:
		return " amount=" + t.Amount.String()
	case *ast.Withdrawal:
		return " amount=" + t.Amount.String()
	default:
		return ""
	}
}

// ReplayCmd applies a file to an empty ledger and explains every row that was
// skipped, in input order.
type ReplayCmd struct {
	File FileOrStdin `help:"Transactions CSV file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the replay command.
func (cmd *ReplayCmd) Run(ctx *kong.Context) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	failed, err := replay(ctx.Stdout, ctx.Stderr, cmd.File.Filename, content)
	if err != nil {
		return err
	}
	if failed {
		return NewCommandError(1, "replay found malformed rows or inconsistent state")
	}
	return nil
}

// replay reports every skipped row of content and whether any of them points
// at broken input or ledger state.
func replay(stdout, stderr io.Writer, filename string, content []byte) (bool, error) {
	txs, rowErrs, err := parser.Parse(context.Background(), filename, bytes.NewReader(content))
	if err != nil {
		return false, fmt.Errorf("failed to parse file: %w", err)
	}

	renderer := NewErrorRenderer(content)
	l := ledger.New()

	var counts [3]int
	failed := len(rowErrs) > 0
	for _, rowErr := range rowErrs {
		_, _ = fmt.Fprintf(stdout, "%s %s\n", severityLabel(ledger.SeverityError), renderer.Render(rowErr))
	}

	for _, tx := range txs {
		err := l.Apply(tx)
		if err == nil {
			continue
		}

		severity := ledger.SeverityError
		var rejection ledger.Rejection
		if errors.As(err, &rejection) {
			severity = rejection.Severity()
		}
		counts[severity]++
		if severity == ledger.SeverityError {
			failed = true
		}

		_, _ = fmt.Fprintf(stdout, "%s %s\n", severityLabel(severity), renderer.Render(err))
	}

	summary := fmt.Sprintf("%d applied, %d rejected (info %d, warn %d, error %d), %d malformed",
		len(txs)-counts[0]-counts[1]-counts[2],
		counts[0]+counts[1]+counts[2],
		counts[ledger.SeverityInfo], counts[ledger.SeverityWarn], counts[ledger.SeverityError],
		len(rowErrs))
	if failed {
		printError(stderr, summary)
	} else {
		printSuccess(stderr, summary)
	}

	return failed, nil
}

func severityLabel(severity ledger.Severity) string {
	label := fmt.Sprintf("[%s]", severity)
	switch severity {
	case ledger.SeverityError:
		return errorStyle.Render(label)
	case ledger.SeverityWarn:
		return warnStyle.Render(label)
	default:
		return infoStyle.Render(label)
	}
}
