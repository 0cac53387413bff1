package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TradeSide represents the direction of a closed position
type TradeSide string

const (
	SideLong  TradeSide = "Long"
	SideShort TradeSide = "Short"
)

// TradeStatus is derived from the trade result: Win iff pnl >= 0
type TradeStatus string

const (
	StatusWin  TradeStatus = "Win"
	StatusLoss TradeStatus = "Loss"
)

// StatusFor returns the status a trade with the given pnl must carry
func StatusFor(pnl float64) TradeStatus {
	if pnl >= 0 {
		return StatusWin
	}
	return StatusLoss
}

// TradeID identifies a trade. Older journals stored numeric timestamps and
// imports use broker ticket numbers, so both JSON strings and numbers decode
// into the same decimal string form.
type TradeID string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *TradeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TradeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid trade id %s: %w", string(data), err)
	}
	*id = TradeID(n.String())
	return nil
}

// Trade represents a single closed position with a realized result
type Trade struct {
	ID      TradeID     `json:"id"`
	Account string      `json:"account"`
	Date    string      `json:"date"`
	Symbol  string      `json:"symbol"`
	Side    TradeSide   `json:"side"`
	PnL     float64     `json:"pnl"`
	Status  TradeStatus `json:"status"`
	Notes   string      `json:"notes,omitempty"`
	Image   string      `json:"img,omitempty"`
}

// Normalize re-derives the redundant status field from pnl
func (t *Trade) Normalize() {
	t.Status = StatusFor(t.PnL)
}
