// Package calendar buckets an account's trades into the days of a month for
// the heat-map view.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tz-journal/internal/models"
)

var ErrInvalidMonth = errors.New("invalid month, want YYYY-MM")

// Classification is the colour class of a day cell
type Classification string

const (
	ClassNone   Classification = ""
	ClassProfit Classification = "profit"
	ClassLoss   Classification = "loss"
)

// YearMonth identifies a calendar month
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseMonth parses "YYYY-MM"
func ParseMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return YearMonth{t.Year(), t.Month()}, nil
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) YearMonth { return YearMonth{t.Year(), t.Month()} }

// Shift returns the month n months away from ym
func (ym YearMonth) Shift(n int) YearMonth {
	t := time.Date(ym.Year, ym.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{t.Year(), t.Month()}
}

func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month)) }

// Label formats the month as "January 2024"
func (ym YearMonth) Label() string { return fmt.Sprintf("%s %d", ym.Month, ym.Year) }

// SymbolPnL is the summed result of one instrument on one day
type SymbolPnL struct {
	Symbol string  `json:"symbol"`
	PnL    float64 `json:"pnl"`
}

// Day is one cell of the month grid
type Day struct {
	Day        int                `json:"day"`
	Date       string             `json:"date"`
	Symbols    []SymbolPnL        `json:"symbols"`
	BySymbol   map[string]float64 `json:"bySymbol"`
	DayTotal   float64            `json:"dayTotal"`
	TradeCount int                `json:"tradeCount"`
	Class      Classification     `json:"class"`
}

// Month is the bucketed view of one month
type Month struct {
	Month        string  `json:"month"`
	Label        string  `json:"label"`
	StartWeekday int     `json:"startWeekday"`
	Days         []Day   `json:"days"`
	TradeCount   int     `json:"tradeCount"`
	PnL          float64 `json:"pnl"`
}

// BucketMonth groups trades by calendar day (in loc) and, within a day, by
// symbol. Every day of the month is present in the result; days without
// trades are unclassified.
func BucketMonth(ym YearMonth, trades []models.Trade, loc *time.Location) Month {
	first := NewDate(ym.Year, ym.Month, 1)
	n := DaysIn(ym.Year, ym.Month)

	byDay := make(map[int][]models.Trade)
	for _, t := range trades {
		d, ok := DayOf(t.Date, loc)
		if !ok || d.Year() != ym.Year || d.Month() != ym.Month {
			continue
		}
		byDay[d.Day()] = append(byDay[d.Day()], t)
	}

	out := Month{
		Month:        ym.String(),
		Label:        ym.Label(),
		StartWeekday: int(first.Weekday()),
		Days:         make([]Day, 0, n),
	}
	monthPnL := decimal.Zero

	for i := 1; i <= n; i++ {
		day := Day{
			Day:      i,
			Date:     NewDate(ym.Year, ym.Month, i).String(),
			Symbols:  []SymbolPnL{},
			BySymbol: map[string]float64{},
		}
		dayTrades := byDay[i]
		if len(dayTrades) > 0 {
			sums := make(map[string]decimal.Decimal)
			var order []string
			dayTotal := decimal.Zero
			for _, t := range dayTrades {
				pnl := decimal.NewFromFloat(t.PnL)
				if _, seen := sums[t.Symbol]; !seen {
					order = append(order, t.Symbol)
				}
				sums[t.Symbol] = sums[t.Symbol].Add(pnl)
				dayTotal = dayTotal.Add(pnl)
			}
			for _, sym := range order {
				v := sums[sym].InexactFloat64()
				day.Symbols = append(day.Symbols, SymbolPnL{Symbol: sym, PnL: v})
				day.BySymbol[sym] = v
			}
			day.DayTotal = dayTotal.InexactFloat64()
			day.TradeCount = len(dayTrades)
			if dayTotal.IsNegative() {
				day.Class = ClassLoss
			} else {
				day.Class = ClassProfit
			}
			monthPnL = monthPnL.Add(dayTotal)
			out.TradeCount += len(dayTrades)
		}
		out.Days = append(out.Days, day)
	}

	out.PnL = monthPnL.InexactFloat64()
	return out
}
