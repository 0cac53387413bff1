// Package analytics derives the dashboard figures of one account from its
// trades and transfers. Every function recomputes from the full input.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tz-journal/internal/calendar"
	"github.com/tz-journal/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Financials summarizes an account
type Financials struct {
	AccountID        string             `json:"accountId"`
	AccountType      models.AccountType `json:"type"`
	Initial          float64            `json:"initial"`
	NetPnL           float64            `json:"netPnL"`
	TotalDeposits    float64            `json:"totalDeposits"`
	TotalWithdrawals float64            `json:"totalWithdrawals"`
	CurrentEquity    float64            `json:"currentEquity"`
	GrowthPct        float64            `json:"growthPct"`
	WinRate          int                `json:"winRate"`
	TradeCount       int                `json:"tradeCount"`
	WinCount         int                `json:"winCount"`
	LossCount        int                `json:"lossCount"`
}

// Compute derives the financial summary of account. trades and transfers are
// expected to be already scoped to the account.
func Compute(account models.Account, trades []models.Trade, transfers []models.Transfer) Financials {
	initial := decimal.NewFromFloat(account.Initial)
	net := sumPnL(trades)
	deposits, withdrawals := sumTransfers(transfers)

	equity := initial.Add(net).Add(deposits).Sub(withdrawals)

	growth := decimal.Zero
	if initial.IsPositive() {
		growth = equity.Sub(initial).Div(initial).Mul(hundred)
	}

	wins := countWins(trades)
	return Financials{
		AccountID:        account.ID,
		AccountType:      account.Type,
		Initial:          account.Initial,
		NetPnL:           net.InexactFloat64(),
		TotalDeposits:    deposits.InexactFloat64(),
		TotalWithdrawals: withdrawals.InexactFloat64(),
		CurrentEquity:    equity.InexactFloat64(),
		GrowthPct:        growth.InexactFloat64(),
		WinRate:          WinRate(trades),
		TradeCount:       len(trades),
		WinCount:         wins,
		LossCount:        len(trades) - wins,
	}
}

// NetPnL returns the sum of all trade results
func NetPnL(trades []models.Trade) float64 {
	return sumPnL(trades).InexactFloat64()
}

// WinRate returns the percentage of trades with a strictly positive result,
// rounded half up. It is 0 when there are no trades.
func WinRate(trades []models.Trade) int {
	if len(trades) == 0 {
		return 0
	}
	pct := float64(countWins(trades)) / float64(len(trades)) * 100
	return int(math.Floor(pct + 0.5))
}

func sumPnL(trades []models.Trade) decimal.Decimal {
	total := decimal.Zero
	for _, t := range trades {
		total = total.Add(decimal.NewFromFloat(t.PnL))
	}
	return total
}

func sumTransfers(transfers []models.Transfer) (deposits, withdrawals decimal.Decimal) {
	deposits, withdrawals = decimal.Zero, decimal.Zero
	for _, t := range transfers {
		switch t.Type {
		case models.TransferDeposit:
			deposits = deposits.Add(decimal.NewFromFloat(t.Amount))
		case models.TransferWithdrawal:
			withdrawals = withdrawals.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	return deposits, withdrawals
}

func countWins(trades []models.Trade) int {
	n := 0
	for _, t := range trades {
		if t.PnL > 0 {
			n++
		}
	}
	return n
}

// StartLabel is the label of the synthetic first point of an equity curve
const StartLabel = "Start"

// EquityPoint is one point of the equity curve
type EquityPoint struct {
	Label   string         `json:"label"`
	TradeID models.TradeID `json:"tradeId,omitempty"`
	Date    string         `json:"date,omitempty"`
	Equity  float64        `json:"equity"`
}

// EquityCurve returns the running balance after each trade, oldest first,
// preceded by a Start point at initial. It is empty when there are no trades.
// Trades with equal timestamps keep their input order.
func EquityCurve(initial float64, trades []models.Trade, loc *time.Location) []EquityPoint {
	if len(trades) == 0 {
		return []EquityPoint{}
	}

	type keyed struct {
		at    time.Time
		trade models.Trade
	}
	sorted := make([]keyed, len(trades))
	for i, t := range trades {
		at, _ := calendar.ParseTimestamp(t.Date, loc)
		sorted[i] = keyed{at: at, trade: t}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].at.Before(sorted[j].at)
	})

	running := decimal.NewFromFloat(initial)
	points := make([]EquityPoint, 0, len(trades)+1)
	points = append(points, EquityPoint{Label: StartLabel, Equity: initial})
	for _, k := range sorted {
		running = running.Add(decimal.NewFromFloat(k.trade.PnL))
		label := ""
		if !k.at.IsZero() {
			label = k.at.Format("01/02")
		}
		points = append(points, EquityPoint{
			Label:   label,
			TradeID: k.trade.ID,
			Date:    k.trade.Date,
			Equity:  running.InexactFloat64(),
		})
	}
	return points
}
