// Package importer turns external files into journal records: broker
// statement exports and full journal backups.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tz-journal/internal/calendar"
	"github.com/tz-journal/internal/models"
)

var (
	ErrEmptyStatement = errors.New("statement has no header row")
	ErrMissingColumn  = errors.New("statement is missing a required column")
)

// Statement column headers
const (
	ColProfit     = "Profit"
	ColCommission = "Commission"
	ColSwap       = "Swap"
	ColType       = "Type"
	ColSymbol     = "Symbol"
	ColCloseTime  = "Close Time"
	ColTicketID   = "Ticket ID"
)

var requiredColumns = []string{ColProfit, ColCommission, ColSwap, ColType, ColSymbol, ColCloseTime, ColTicketID}

// ISOLayout is the layout imported close times are normalized to
const ISOLayout = "2006-01-02T15:04:05"

var delimiters = []rune{',', ';', '\t'}

// StatementResult is the outcome of parsing a statement
type StatementResult struct {
	Trades  []models.Trade `json:"trades"`
	Rows    int            `json:"rows"`
	Skipped int            `json:"skipped"`
}

// ParseStatement reads a delimited statement export and returns one trade per
// row carrying a profit value. Trades are assigned to accountID. Close times
// are read in loc and normalized to ISOLayout; unparseable ones are kept as is.
func ParseStatement(r io.Reader, accountID string, loc *time.Location) (StatementResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return StatementResult{}, fmt.Errorf("failed to read statement: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return StatementResult{}, ErrEmptyStatement
	}
	if err != nil {
		return StatementResult{}, fmt.Errorf("failed to read statement header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return StatementResult{}, err
	}

	result := StatementResult{Trades: []models.Trade{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return StatementResult{}, fmt.Errorf("failed to read statement row %d: %w", result.Rows+1, err)
		}
		if isBlank(row) {
			continue
		}
		result.Rows++

		trade, ok := tradeFromRow(row, cols, accountID, loc)
		if !ok {
			result.Skipped++
			continue
		}
		result.Trades = append(result.Trades, trade)
	}
	return result, nil
}

// detectDelimiter picks the candidate occurring most often in the header line
func detectDelimiter(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	best, bestCount := delimiters[0], 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	out := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := cols[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		out[name] = i
	}
	return out, nil
}

func tradeFromRow(row []string, cols map[string]int, accountID string, loc *time.Location) (models.Trade, bool) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	profit, ok := parseAmount(field(ColProfit))
	if !ok {
		return models.Trade{}, false
	}
	commission, _ := parseAmount(field(ColCommission))
	swap, _ := parseAmount(field(ColSwap))
	pnl := profit.Add(commission).Add(swap)

	side := models.SideLong
	if strings.Contains(strings.ToLower(field(ColType)), "sell") {
		side = models.SideShort
	}

	date := field(ColCloseTime)
	if t, err := calendar.ParseTimestamp(date, loc); err == nil {
		date = t.Format(ISOLayout)
	}

	trade := models.Trade{
		ID:      models.TradeID(field(ColTicketID)),
		Account: accountID,
		Date:    date,
		Symbol:  strings.ToUpper(field(ColSymbol)),
		Side:    side,
		PnL:     pnl.InexactFloat64(),
	}
	trade.Normalize()
	return trade, true
}

// parseAmount accepts plain numbers with optional thousands separators. A
// single comma with no dot is read as a decimal comma unless it groups three
// digits after a non-zero integer part.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "'", "").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") && !isThousandsGroup(s) {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// isThousandsGroup reports whether the single comma in s separates a group of
// exactly three digits from a non-zero integer part, as in "1,234"
func isThousandsGroup(s string) bool {
	whole, frac, _ := strings.Cut(s, ",")
	whole = strings.TrimLeft(whole, "+-")
	if len(frac) != 3 || whole == "" || strings.TrimLeft(whole, "0") == "" {
		return false
	}
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
