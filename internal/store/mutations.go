package store

import (
	"fmt"

	"github.com/tz-journal/internal/models"
	"github.com/tz-journal/pkg/keygen"
)

// SetCurrentAccount changes the selected account
func (s *Store) SetCurrentAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.FindAccount(id); !ok {
		return ErrAccountNotFound
	}
	s.currentID = id
	return nil
}

// AddAccount appends an account, generating an id when none is given
func (s *Store) AddAccount(a models.Account) (models.Account, error) {
	if a.ID == "" {
		id, err := keygen.AccountID()
		if err != nil {
			return models.Account{}, fmt.Errorf("failed to generate account id: %w", err)
		}
		a.ID = id
	}
	if a.Type == "" {
		a.Type = models.AccountTypeReal
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.FindAccount(a.ID); ok {
		return models.Account{}, ErrDuplicateID
	}
	s.state.Accounts = append(s.state.Accounts, a)
	return a, nil
}

// RemoveAccount deletes an account. Its trades and transfers are kept and
// simply stop appearing under any account. Removing the selected account
// selects the first remaining one; removing the last account restores the
// default account.
func (s *Store) RemoveAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, a := range s.state.Accounts {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrAccountNotFound
	}
	s.state.Accounts = append(s.state.Accounts[:idx:idx], s.state.Accounts[idx+1:]...)
	s.ensureAccountLocked()
	return nil
}

// AddTrade appends a trade, generating an id when none is given. The status
// is derived from pnl.
func (s *Store) AddTrade(t models.Trade) (models.Trade, error) {
	if t.ID == "" {
		t.ID = models.TradeID(keygen.TradeID())
	}
	t.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tradeIndexLocked(t.ID) >= 0 {
		return models.Trade{}, ErrDuplicateID
	}
	s.state.Trades = append(s.state.Trades, t)
	return t, nil
}

// AddTrades appends a batch, skipping trades whose id is already recorded.
// It returns the trades actually added.
func (s *Store) AddTrades(trades []models.Trade) (added []models.Trade, duplicates int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[models.TradeID]bool, len(s.state.Trades)+len(trades))
	for _, t := range s.state.Trades {
		seen[t.ID] = true
	}
	added = make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.ID == "" {
			t.ID = models.TradeID(keygen.TradeID())
		}
		if seen[t.ID] {
			duplicates++
			continue
		}
		t.Normalize()
		seen[t.ID] = true
		s.state.Trades = append(s.state.Trades, t)
		added = append(added, t)
	}
	return added, duplicates
}

// UpdateTrade replaces the trade with the same id
func (s *Store) UpdateTrade(t models.Trade) (models.Trade, error) {
	t.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.tradeIndexLocked(t.ID)
	if idx < 0 {
		return models.Trade{}, ErrTradeNotFound
	}
	s.state.Trades[idx] = t
	return t, nil
}

// RemoveTrade deletes a trade by id
func (s *Store) RemoveTrade(id models.TradeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.tradeIndexLocked(id)
	if idx < 0 {
		return ErrTradeNotFound
	}
	s.state.Trades = append(s.state.Trades[:idx:idx], s.state.Trades[idx+1:]...)
	return nil
}

func (s *Store) tradeIndexLocked(id models.TradeID) int {
	for i, t := range s.state.Trades {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// AddTransfer appends a transfer, generating an id when none is given
func (s *Store) AddTransfer(t models.Transfer) (models.Transfer, error) {
	if t.ID == 0 {
		t.ID = keygen.TransferID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.Transfers {
		if existing.ID == t.ID {
			return models.Transfer{}, ErrDuplicateID
		}
	}
	s.state.Transfers = append(s.state.Transfers, t)
	return t, nil
}

// RemoveTransfer deletes a transfer by id
func (s *Store) RemoveTransfer(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.state.Transfers {
		if t.ID == id {
			s.state.Transfers = append(s.state.Transfers[:i:i], s.state.Transfers[i+1:]...)
			return nil
		}
	}
	return ErrTransferNotFound
}

// SetPreferences replaces the preferences in memory
func (s *Store) SetPreferences(p models.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
}

// Replace swaps the whole state, as done by a backup restore
func (s *Store) Replace(state models.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.state.Version = models.SchemaVersion
	s.ensureAccountLocked()
}
