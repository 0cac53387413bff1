package service

import (
	"fmt"

	"github.com/tz-journal/internal/analytics"
	"github.com/tz-journal/internal/calendar"
	"github.com/tz-journal/internal/models"
)

// Dashboard is the summary view of one account
type Dashboard struct {
	Account     models.Account          `json:"account"`
	Financials  analytics.Financials    `json:"financials"`
	EquityCurve []analytics.EquityPoint `json:"equityCurve"`
	Preferences models.Preferences      `json:"preferences"`
}

// CalendarView is a month grid of one account with its navigation neighbours
type CalendarView struct {
	AccountID string         `json:"accountId"`
	Prev      string         `json:"prev"`
	Next      string         `json:"next"`
	Month     calendar.Month `json:"month"`
}

// Dashboard computes the summary of an account. An empty id means the
// selected account.
func (s *JournalService) Dashboard(accountID string) (*Dashboard, error) {
	data, err := s.store.AccountData(accountID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Account:     data.Account,
		Financials:  analytics.Compute(data.Account, data.Trades, data.Transfers),
		EquityCurve: analytics.EquityCurve(data.Account.Initial, data.Trades, s.loc),
		Preferences: s.store.Preferences(),
	}, nil
}

// Calendar buckets an account's trades into the days of month, formatted
// YYYY-MM. An empty month means the current one.
func (s *JournalService) Calendar(accountID, month string) (*CalendarView, error) {
	ym := calendar.MonthOf(s.now())
	if month != "" {
		parsed, err := calendar.ParseMonth(month)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		ym = parsed
	}

	data, err := s.store.AccountData(accountID)
	if err != nil {
		return nil, err
	}
	return &CalendarView{
		AccountID: data.Account.ID,
		Prev:      ym.Shift(-1).String(),
		Next:      ym.Shift(1).String(),
		Month:     calendar.BucketMonth(ym, data.Trades, s.loc),
	}, nil
}
