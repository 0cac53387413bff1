// Package cli implements the journal command line: reports on the terminal
// and file-based import, export and restore.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/tz-journal/internal/service"
)

// Env is passed to every command as its first Execute argument
type Env struct {
	Out      io.Writer
	Err      io.Writer
	Currency string
	// Open returns the journal, loading it on first use
	Open     func(ctx context.Context) (*service.JournalService, error)
}

// Register adds every journal command to c
func Register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&calendarCmd{}, "reports")
	c.Register(&logCmd{}, "reports")

	c.Register(&importCmd{}, "data")
	c.Register(&exportCmd{}, "data")
	c.Register(&restoreCmd{}, "data")
}

// setup extracts the Env and opens the journal
func setup(ctx context.Context, args []interface{}) (*Env, *service.JournalService, subcommands.ExitStatus) {
	if len(args) == 0 {
		return nil, nil, subcommands.ExitFailure
	}
	env, ok := args[0].(*Env)
	if !ok {
		return nil, nil, subcommands.ExitFailure
	}
	journal, err := env.Open(ctx)
	if err != nil {
		fmt.Fprintf(env.Err, "Error opening journal: %v\n", err)
		return env, nil, subcommands.ExitFailure
	}
	return env, journal, subcommands.ExitSuccess
}

// formatMoney renders amount in the currency's display format
func formatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// formatSigned is formatMoney with an explicit plus sign on gains
func formatSigned(amount float64, currency string) string {
	s := formatMoney(amount, currency)
	if amount > 0 {
		return "+" + s
	}
	return s
}
