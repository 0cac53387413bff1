package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tz-journal/internal/calendar"
	"github.com/tz-journal/internal/importer"
	"github.com/tz-journal/internal/models"
	"github.com/tz-journal/internal/store"
)

// TradeRequest represents a create or update trade request
type TradeRequest struct {
	AccountID string           `json:"account"`
	Date      string           `json:"date" binding:"required"`
	Symbol    string           `json:"symbol" binding:"required,max=32"`
	Side      models.TradeSide `json:"side" binding:"required,oneof=Long Short"`
	PnL       float64          `json:"pnl"`
	Notes     string           `json:"notes"`
	Image     string           `json:"img"`
}

// TradeResult is a stored trade plus any non-fatal notices
type TradeResult struct {
	Trade    models.Trade `json:"trade"`
	Warnings []string     `json:"warnings,omitempty"`
}

// ImportResult summarizes a statement import
type ImportResult struct {
	AccountID  string `json:"accountId"`
	Rows       int    `json:"rows"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
	Duplicates int    `json:"duplicates"`
}

// ListTrades returns the trades of an account in stored order. An empty id
// means the selected account.
func (s *JournalService) ListTrades(accountID string) ([]models.Trade, error) {
	data, err := s.store.AccountData(accountID)
	if err != nil {
		return nil, err
	}
	return data.Trades, nil
}

// Log returns the trades of an account newest first, keeping only symbols
// that contain search, ignoring case
func (s *JournalService) Log(accountID, search string) ([]models.Trade, error) {
	trades, err := s.ListTrades(accountID)
	if err != nil {
		return nil, err
	}
	return s.filterLog(trades, search), nil
}

func (s *JournalService) filterLog(trades []models.Trade, search string) []models.Trade {
	type keyed struct {
		unix  int64
		trade models.Trade
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	rows := make([]keyed, 0, len(trades))
	for _, t := range trades {
		if needle != "" && !strings.Contains(strings.ToLower(t.Symbol), needle) {
			continue
		}
		var unix int64
		if at, err := calendar.ParseTimestamp(t.Date, s.loc); err == nil {
			unix = at.UnixNano()
		}
		rows = append(rows, keyed{unix: unix, trade: t})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].unix > rows[j].unix
	})

	out := make([]models.Trade, len(rows))
	for i, r := range rows {
		out[i] = r.trade
	}
	return out
}

// GetTrade returns a single trade
func (s *JournalService) GetTrade(id string) (*models.Trade, error) {
	t, err := s.store.Trade(models.TradeID(id))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTrade records a trade and saves. An oversized image is dropped with a
// warning; the trade is still recorded.
func (s *JournalService) CreateTrade(ctx context.Context, req *TradeRequest) (*TradeResult, error) {
	trade, warnings, err := s.tradeFromRequest(req)
	if err != nil {
		return nil, err
	}
	err = s.store.Update(ctx, "trade.create", func() error {
		var err error
		trade, err = s.store.AddTrade(trade)
		if err != nil {
			return fmt.Errorf("failed to create trade: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("trade_id", string(trade.ID)).
		Str("account_id", trade.Account).
		Str("symbol", trade.Symbol).
		Float64("pnl", trade.PnL).
		Msg("trade recorded")
	return &TradeResult{Trade: trade, Warnings: warnings}, nil
}

// UpdateTrade replaces the fields of an existing trade and saves
func (s *JournalService) UpdateTrade(ctx context.Context, id string, req *TradeRequest) (*TradeResult, error) {
	existing, err := s.store.Trade(models.TradeID(id))
	if err != nil {
		return nil, err
	}
	if req.AccountID == "" {
		req.AccountID = existing.Account
	}
	trade, warnings, err := s.tradeFromRequest(req)
	if err != nil {
		return nil, err
	}
	trade.ID = existing.ID
	err = s.store.Update(ctx, "trade.update", func() error {
		var err error
		trade, err = s.store.UpdateTrade(trade)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &TradeResult{Trade: trade, Warnings: warnings}, nil
}

// DeleteTrade removes a trade and saves
func (s *JournalService) DeleteTrade(ctx context.Context, id string) error {
	return s.store.Update(ctx, "trade.delete", func() error {
		return s.store.RemoveTrade(models.TradeID(id))
	})
}

// ImportStatement parses a broker statement into the given account (the
// selected one when empty) and saves. Tickets already in the journal are
// skipped.
func (s *JournalService) ImportStatement(ctx context.Context, accountID string, r io.Reader) (*ImportResult, error) {
	data, err := s.store.AccountData(accountID)
	if err != nil {
		return nil, err
	}
	accountID = data.Account.ID

	parsed, err := importer.ParseStatement(r, accountID, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	var (
		added      []models.Trade
		duplicates int
	)
	err = s.store.Update(ctx, "trade.import", func() error {
		added, duplicates = s.store.AddTrades(parsed.Trades)
		if len(added) == 0 {
			return store.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		AccountID:  accountID,
		Rows:       parsed.Rows,
		Imported:   len(added),
		Skipped:    parsed.Skipped,
		Duplicates: duplicates,
	}
	s.logger.Info().
		Str("account_id", accountID).
		Int("rows", result.Rows).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("duplicates", result.Duplicates).
		Msg("statement imported")
	return result, nil
}

func (s *JournalService) tradeFromRequest(req *TradeRequest) (models.Trade, []string, error) {
	accountID := req.AccountID
	if accountID == "" {
		accountID = s.store.CurrentAccountID()
	} else if _, err := s.store.Account(accountID); err != nil {
		return models.Trade{}, nil, err
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return models.Trade{}, nil, fmt.Errorf("%w: symbol is required", ErrInvalidInput)
	}
	if req.Side != models.SideLong && req.Side != models.SideShort {
		return models.Trade{}, nil, fmt.Errorf("%w: side must be Long or Short", ErrInvalidInput)
	}
	if _, err := calendar.ParseTimestamp(req.Date, s.loc); err != nil {
		return models.Trade{}, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	trade := models.Trade{
		Account: accountID,
		Date:    strings.TrimSpace(req.Date),
		Symbol:  symbol,
		Side:    req.Side,
		PnL:     req.PnL,
		Notes:   req.Notes,
		Image:   req.Image,
	}

	var warnings []string
	if size := imageSize(trade.Image); s.maxImageBytes > 0 && size > s.maxImageBytes {
		warnings = append(warnings, fmt.Sprintf("image of %d bytes exceeds the %d byte limit and was not attached", size, s.maxImageBytes))
		s.logger.Warn().Int64("size", size).Int64("limit", s.maxImageBytes).Msg("trade image dropped")
		trade.Image = ""
	}
	return trade, warnings, nil
}

// imageSize returns the decoded size of a base64 data URI, or the length of
// any other reference
func imageSize(img string) int64 {
	if !strings.HasPrefix(img, "data:") {
		return int64(len(img))
	}
	meta, payload, ok := strings.Cut(img, ",")
	if !ok {
		return int64(len(img))
	}
	if strings.HasSuffix(meta, ";base64") {
		return int64(base64.StdEncoding.DecodedLen(len(payload)))
	}
	return int64(len(payload))
}
