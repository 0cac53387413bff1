package store

import "github.com/tz-journal/internal/models"

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Accounts returns a copy of the account list
func (s *Store) Accounts() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Account, len(s.state.Accounts))
	copy(out, s.state.Accounts)
	return out
}

// CurrentAccountID returns the id of the selected account
func (s *Store) CurrentAccountID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// CurrentAccount returns the selected account
func (s *Store) CurrentAccount() models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.state.FindAccount(s.currentID); ok {
		return a
	}
	return s.state.Accounts[0]
}

// Account returns an account by id
func (s *Store) Account(id string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.FindAccount(id)
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}
	return a, nil
}

// AccountData returns an account with its trades and transfers. An empty id
// means the selected account.
func (s *Store) AccountData(id string) (AccountData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == "" {
		id = s.currentID
	}
	a, ok := s.state.FindAccount(id)
	if !ok {
		return AccountData{}, ErrAccountNotFound
	}
	return AccountData{
		Account:   a,
		Trades:    s.state.TradesFor(id),
		Transfers: s.state.TransfersFor(id),
	}, nil
}

// Trade returns a trade by id
func (s *Store) Trade(id models.TradeID) (models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.tradeIndexLocked(id)
	if idx < 0 {
		return models.Trade{}, ErrTradeNotFound
	}
	return s.state.Trades[idx], nil
}

// Preferences returns the current preferences
func (s *Store) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}
