package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/tz-journal/internal/calendar"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list trading accounts" }
func (*accountsCmd) Usage() string {
	return `journal accounts

  Lists every account with its id, type and starting capital.
`
}
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env, journal, status := setup(ctx, args)
	if status != subcommands.ExitSuccess {
		return status
	}

	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tINITIAL\t")
	for _, a := range journal.ListAccounts() {
		marker := ""
		if a.Current {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t\n", a.ID, marker, a.Name, a.Type, formatMoney(a.Initial, env.Currency))
	}
	tw.Flush()
	return subcommands.ExitSuccess
}

// summaryCmd prints the dashboard figures of an account
type summaryCmd struct {
	account string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the account dashboard" }
func (*summaryCmd) Usage() string {
	return `journal summary [-a <account>]

  Displays equity, net P&L, growth and win rate of an account.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account id. Defaults to the selected account.")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env, journal, status := setup(ctx, args)
	if status != subcommands.ExitSuccess {
		return status
	}

	dash, err := journal.Dashboard(c.account)
	if err != nil {
		fmt.Fprintf(env.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	f := dash.Financials
	cur := env.Currency
	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Account\t%s (%s)\n", dash.Account.Name, f.AccountType)
	fmt.Fprintf(tw, "Equity\t%s\n", formatMoney(f.CurrentEquity, cur))
	fmt.Fprintf(tw, "Initial\t%s\n", formatMoney(f.Initial, cur))
	fmt.Fprintf(tw, "Net P&L\t%s\n", formatSigned(f.NetPnL, cur))
	fmt.Fprintf(tw, "Deposits\t%s\n", formatMoney(f.TotalDeposits, cur))
	fmt.Fprintf(tw, "Withdrawals\t%s\n", formatMoney(f.TotalWithdrawals, cur))
	fmt.Fprintf(tw, "Growth\t%.2f%%\n", f.GrowthPct)
	fmt.Fprintf(tw, "Win rate\t%d%% (%d/%d)\n", f.WinRate, f.WinCount, f.TradeCount)
	tw.Flush()
	return subcommands.ExitSuccess
}

// calendarCmd prints a month grid followed by the trading days
type calendarCmd struct {
	account string
	month   string
}

func (*calendarCmd) Name() string     { return "calendar" }
func (*calendarCmd) Synopsis() string { return "display the monthly P&L calendar" }
func (*calendarCmd) Usage() string {
	return `journal calendar [-a <account>] [-m YYYY-MM]

  Displays a month grid marking profit (+) and loss (-) days, then the
  per-symbol results of each trading day.
`
}

func (c *calendarCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account id. Defaults to the selected account.")
	f.StringVar(&c.month, "m", "", "Month as YYYY-MM. Defaults to the current month.")
}

func (c *calendarCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env, journal, status := setup(ctx, args)
	if status != subcommands.ExitSuccess {
		return status
	}

	view, err := journal.Calendar(c.account, c.month)
	if err != nil {
		fmt.Fprintf(env.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	renderMonth(env, view.Month)
	return subcommands.ExitSuccess
}

func renderMonth(env *Env, m calendar.Month) {
	fmt.Fprintf(env.Out, "%s\n", m.Label)
	for d := time.Sunday; d <= time.Saturday; d++ {
		fmt.Fprintf(env.Out, " %s ", d.String()[:2])
	}
	fmt.Fprintln(env.Out)

	col := m.StartWeekday
	fmt.Fprint(env.Out, strings.Repeat("    ", col))
	for _, day := range m.Days {
		mark := " "
		switch day.Class {
		case calendar.ClassProfit:
			mark = "+"
		case calendar.ClassLoss:
			mark = "-"
		}
		fmt.Fprintf(env.Out, " %2d%s", day.Day, mark)
		col++
		if col == 7 {
			fmt.Fprintln(env.Out)
			col = 0
		}
	}
	if col != 0 {
		fmt.Fprintln(env.Out)
	}
	fmt.Fprintln(env.Out)

	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	for _, day := range m.Days {
		if day.TradeCount == 0 {
			continue
		}
		symbols := make([]string, len(day.Symbols))
		for i, s := range day.Symbols {
			symbols[i] = s.Symbol + " " + formatSigned(s.PnL, env.Currency)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d trades\t%s\n", day.Date, formatSigned(day.DayTotal, env.Currency), day.TradeCount, strings.Join(symbols, ", "))
	}
	tw.Flush()
	fmt.Fprintf(env.Out, "Month: %s over %d trades\n", formatSigned(m.PnL, env.Currency), m.TradeCount)
}

// logCmd prints the trade log newest first
type logCmd struct {
	account string
	search  string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list trades newest first" }
func (*logCmd) Usage() string {
	return `journal log [-a <account>] [-s <symbol>]

  Lists the trades of an account, newest first. -s keeps symbols containing
  the given text, ignoring case.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account id. Defaults to the selected account.")
	f.StringVar(&c.search, "s", "", "Symbol filter.")
}

func (c *logCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env, journal, status := setup(ctx, args)
	if status != subcommands.ExitSuccess {
		return status
	}

	trades, err := journal.Log(c.account, c.search)
	if err != nil {
		fmt.Fprintf(env.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSYMBOL\tSIDE\tP&L\tSTATUS\tID\t")
	for _, t := range trades {
		date := t.Date
		if at, err := calendar.ParseTimestamp(t.Date, journal.Location()); err == nil {
			date = at.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", date, t.Symbol, t.Side, formatSigned(t.PnL, env.Currency), t.Status, t.ID)
	}
	tw.Flush()
	return subcommands.ExitSuccess
}
