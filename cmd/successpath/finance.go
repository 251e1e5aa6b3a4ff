package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"successpath/internal/core"
	"successpath/internal/finance"
	"successpath/internal/services"
)

// --- add-tx ---

type addTxCmd struct {
	in finance.TransactionInput
}

func (*addTxCmd) Name() string     { return "add-tx" }
func (*addTxCmd) Synopsis() string { return "record an income or an expense" }
func (*addTxCmd) Usage() string {
	return `add-tx -a <amount> [-type income|expense] [-c <category>] [-m <description>] [-d <date>]

  Records one transaction. The amount is stored as a magnitude; the type
  decides its sign. Unknown categories are recorded as Other.
`
}

func (c *addTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in.Amount, "a", "", "Amount")
	f.StringVar(&c.in.Type, "type", string(finance.Expense), "Transaction type (income or expense)")
	f.StringVar(&c.in.Category, "c", string(finance.CategoryOther), "Category")
	f.StringVar(&c.in.Description, "m", "", "Description")
	f.StringVar(&c.in.Date, "d", "", "Date (YYYY-MM-DD), defaults to today")
}

func (c *addTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in.Amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if _, ok := finance.ParseType(c.in.Type); !ok {
		fmt.Fprintf(os.Stderr, "Unknown transaction type %q\n", c.in.Type)
		return subcommands.ExitUsageError
	}
	if c.in.Date != "" {
		if _, err := core.ParseDate(c.in.Date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return withLedger(ctx, func(l *services.Ledger) error {
		tx, err := l.AddTransaction(ctx, c.in)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Recorded %s of %s in %s on %s (%s)\n",
			tx.Type, tx.Amount.StringFixed(2), tx.Category, tx.Date, tx.ID)
		return nil
	})
}

// --- transactions ---

type transactionsCmd struct {
	head int
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list transactions in recording order" }
func (*transactionsCmd) Usage() string {
	return `transactions [-head <n>]

  Lists the recorded transactions in the order they were recorded.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
}

func (c *transactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *services.Ledger) error {
		txs := l.Transactions()
		if c.head > 0 && len(txs) > c.head {
			txs = txs[:c.head]
		}
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
		for _, tx := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				tx.Date, tx.Type, tx.Category, tx.Signed().StringFixed(2), tx.Description)
		}
		return w.Flush()
	})
}

// --- totals ---

type totalsCmd struct {
	since string
}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "show income, expenses and balance" }
func (*totalsCmd) Usage() string {
	return `totals [-s <start date>]

  Prints the totals over all transactions, or over those dated on or after
  the start date, followed by all-time expenses per category.
`
}

func (c *totalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.since, "s", "", "Only count transactions on or after this date (YYYY-MM-DD)")
}

func (c *totalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var since core.Date
	if c.since != "" {
		d, err := core.ParseDate(c.since)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
		since = d
	}
	return withLedger(ctx, func(l *services.Ledger) error {
		totals := l.Totals()
		if !since.IsZero() {
			totals = l.TotalsSince(since)
		}
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Income\t%s\n", totals.Income.StringFixed(2))
		fmt.Fprintf(w, "Expenses\t%s\n", totals.Expenses.StringFixed(2))
		fmt.Fprintf(w, "Balance\t%s\n", totals.Balance.StringFixed(2))
		fmt.Fprintln(w, "Expenses by category, all time")
		for _, ct := range l.ByCategory() {
			fmt.Fprintf(w, "  %s\t%s\n", ct.Category, ct.Amount.StringFixed(2))
		}
		return w.Flush()
	})
}
