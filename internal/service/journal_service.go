package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tz-journal/internal/models"
	"github.com/tz-journal/internal/store"
)

var ErrInvalidInput = errors.New("invalid input")

// Options tune the journal service
type Options struct {
	// Location is the zone calendar days and unzoned timestamps are read in
	Location *time.Location
	// MaxImageBytes caps trade attachments; zero disables the limit
	MaxImageBytes int64
}

// JournalService exposes the journal operations used by the API and CLI
type JournalService struct {
	store         *store.Store
	loc           *time.Location
	maxImageBytes int64
	logger        zerolog.Logger
	clock         func() time.Time
}

// NewJournalService creates a new JournalService
func NewJournalService(st *store.Store, opts Options, logger zerolog.Logger) *JournalService {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &JournalService{
		store:         st,
		loc:           loc,
		maxImageBytes: opts.MaxImageBytes,
		logger:        logger.With().Str("component", "JournalService").Logger(),
		clock:         time.Now,
	}
}

func (s *JournalService) now() time.Time {
	return s.clock().In(s.loc)
}

// Location returns the zone the service reads dates in
func (s *JournalService) Location() *time.Location {
	return s.loc
}

// AccountView is an account as listed to clients
type AccountView struct {
	models.Account
	Current bool `json:"current"`
}

// CreateAccountRequest represents the create account request
type CreateAccountRequest struct {
	Name    string             `json:"name" binding:"required,max=64"`
	Type    models.AccountType `json:"type" binding:"omitempty,max=32"`
	Initial float64            `json:"initial"`
}

// ListAccounts returns every account with the selected one flagged
func (s *JournalService) ListAccounts() []AccountView {
	current := s.store.CurrentAccountID()
	accounts := s.store.Accounts()
	views := make([]AccountView, len(accounts))
	for i, a := range accounts {
		views[i] = AccountView{Account: a, Current: a.ID == current}
	}
	return views
}

// CreateAccount adds an account and saves
func (s *JournalService) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*models.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrInvalidInput)
	}
	var account models.Account
	err := s.store.Update(ctx, "account.create", func() error {
		var err error
		account, err = s.store.AddAccount(models.Account{
			Name:    name,
			Type:    req.Type,
			Initial: req.Initial,
			Balance: req.Initial,
		})
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", account.ID).Str("name", account.Name).Msg("account created")
	return &account, nil
}

// DeleteAccount removes an account and saves. Its records stay in storage.
func (s *JournalService) DeleteAccount(ctx context.Context, id string) error {
	err := s.store.Update(ctx, "account.delete", func() error {
		return s.store.RemoveAccount(id)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

// SelectAccount changes the account views default to
func (s *JournalService) SelectAccount(id string) (*models.Account, error) {
	if err := s.store.SetCurrentAccount(id); err != nil {
		return nil, err
	}
	account := s.store.CurrentAccount()
	return &account, nil
}

// GetPreferences returns the display preferences
func (s *JournalService) GetPreferences() models.Preferences {
	return s.store.Preferences()
}

// UpdatePreferences replaces and saves the display preferences
func (s *JournalService) UpdatePreferences(ctx context.Context, prefs models.Preferences) (models.Preferences, error) {
	if err := s.store.UpdatePreferences(ctx, prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}
