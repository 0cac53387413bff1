package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tz-journal/internal/models"
)

func trade(date, symbol string, pnl float64) models.Trade {
	return models.Trade{Date: date, Symbol: symbol, PnL: pnl, Status: models.StatusFor(pnl)}
}

func TestBucketMonth_GroupsBySymbol(t *testing.T) {
	trades := []models.Trade{
		trade("2024-03-05T09:00", "EURUSD", 80),
		trade("2024-03-05T15:30", "EURUSD", -30),
	}

	m := BucketMonth(YearMonth{2024, time.March}, trades, time.UTC)

	require.Len(t, m.Days, 31)
	day := m.Days[4]
	assert.Equal(t, 5, day.Day)
	assert.Equal(t, "2024-03-05", day.Date)
	assert.Equal(t, []SymbolPnL{{Symbol: "EURUSD", PnL: 50}}, day.Symbols)
	assert.Equal(t, map[string]float64{"EURUSD": 50}, day.BySymbol)
	assert.Equal(t, 50.0, day.DayTotal)
	assert.Equal(t, 2, day.TradeCount)
	assert.Equal(t, ClassProfit, day.Class)

	assert.Equal(t, 2, m.TradeCount)
	assert.Equal(t, 50.0, m.PnL)
	assert.Equal(t, "2024-03", m.Month)
	assert.Equal(t, "March 2024", m.Label)
}

func TestBucketMonth_Classification(t *testing.T) {
	trades := []models.Trade{
		trade("2024-03-01", "XAUUSD", -10),
		trade("2024-03-01", "EURUSD", 4),
		trade("2024-03-02", "EURUSD", 0),
	}

	m := BucketMonth(YearMonth{2024, time.March}, trades, time.UTC)

	assert.Equal(t, ClassLoss, m.Days[0].Class)
	assert.Equal(t, -6.0, m.Days[0].DayTotal)
	assert.Equal(t, []SymbolPnL{{"XAUUSD", -10}, {"EURUSD", 4}}, m.Days[0].Symbols)
	// zero total is still a profit day
	assert.Equal(t, ClassProfit, m.Days[1].Class)
	assert.Equal(t, ClassNone, m.Days[2].Class)
	assert.Empty(t, m.Days[2].Symbols)
}

func TestBucketMonth_DaysInMonth(t *testing.T) {
	tests := []struct {
		ym   YearMonth
		days int
	}{
		{YearMonth{2024, time.February}, 29},
		{YearMonth{2023, time.February}, 28},
		{YearMonth{1900, time.February}, 28},
		{YearMonth{2000, time.February}, 29},
		{YearMonth{2024, time.April}, 30},
		{YearMonth{2024, time.December}, 31},
	}
	for _, tt := range tests {
		t.Run(tt.ym.String(), func(t *testing.T) {
			m := BucketMonth(tt.ym, nil, time.UTC)
			assert.Len(t, m.Days, tt.days)
			assert.Equal(t, 0, m.TradeCount)
			assert.Equal(t, 0.0, m.PnL)
		})
	}
}

func TestBucketMonth_StartWeekday(t *testing.T) {
	// 1 March 2024 is a Friday
	m := BucketMonth(YearMonth{2024, time.March}, nil, time.UTC)
	assert.Equal(t, int(time.Friday), m.StartWeekday)
}

func TestBucketMonth_OffsetTimestampsUseJournalZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	trades := []models.Trade{
		// 23:30 UTC on the 31st is already the 1st of April in Tokyo
		trade("2024-03-31T23:30:00Z", "USDJPY", 25),
	}

	march := BucketMonth(YearMonth{2024, time.March}, trades, tokyo)
	april := BucketMonth(YearMonth{2024, time.April}, trades, tokyo)

	assert.Equal(t, 0, march.TradeCount)
	assert.Equal(t, 1, april.TradeCount)
	assert.Equal(t, 25.0, april.Days[0].DayTotal)

	inUTC := BucketMonth(YearMonth{2024, time.March}, trades, time.UTC)
	assert.Equal(t, 25.0, inUTC.Days[30].DayTotal)
}

func TestBucketMonth_DayTotalsSumToMonthPnL(t *testing.T) {
	trades := []models.Trade{
		trade("2024-05-01T10:00", "A", 10.1),
		trade("2024-05-01T11:00", "B", 0.2),
		trade("2024-05-17T11:00", "A", -3.3),
		trade("2024-05-31T23:59", "C", 7),
		trade("2024-06-01T00:00", "C", 1000),
		trade("not a date", "D", 1),
	}

	m := BucketMonth(YearMonth{2024, time.May}, trades, time.UTC)

	sum := 0.0
	for _, d := range m.Days {
		sum += d.DayTotal
	}
	assert.InDelta(t, 14.0, sum, 1e-9)
	assert.InDelta(t, 14.0, m.PnL, 1e-9)
	assert.Equal(t, 4, m.TradeCount)
}

func TestParseMonthAndShift(t *testing.T) {
	ym, err := ParseMonth("2024-01")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{2024, time.January}, ym)
	assert.Equal(t, "2023-12", ym.Shift(-1).String())
	assert.Equal(t, "2025-01", ym.Shift(12).String())

	_, err = ParseMonth("January")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestDayOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-15", "2024-01-15", true},
		{"2024-01-15T08:30", "2024-01-15", true},
		{"2024-01-15 08:30:00", "2024-01-15", true},
		{"2024.01.15 08:30:00", "2024-01-15", true},
		{"2024-01-15T23:00:00-05:00", "2024-01-16", true},
		{"2024-01-15garbage", "2024-01-15", true},
		{"garbage", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, ok := DayOf(tt.in, time.UTC)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}
}
