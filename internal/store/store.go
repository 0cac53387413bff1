// Package store owns the journal's in-memory state and its persistence.
//
// Mutators change memory only; callers persist with Save, or run mutators
// inside Update to have them saved and rolled back on failure. Every save
// writes the whole dataset as one document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tz-journal/internal/migrate"
	"github.com/tz-journal/internal/models"
	"github.com/tz-journal/internal/repository"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrTradeNotFound    = errors.New("trade not found")
	ErrTransferNotFound = errors.New("transfer not found")
	ErrDuplicateID      = errors.New("id already exists")

	// ErrNoChange may be returned by an Update function to skip the save
	ErrNoChange = errors.New("no change")
)

// Change describes a persisted mutation
type Change struct {
	Revision uint64    `json:"revision"`
	Reason   string    `json:"reason"`
	At       time.Time `json:"at"`
}

// AccountData is an account together with the records that reference it
type AccountData struct {
	Account   models.Account
	Trades    []models.Trade
	Transfers []models.Transfer
}

// Store is the single owner of the journal state
type Store struct {
	// saveMu serializes writes so a document is never overwritten by an
	// older one; it is taken before mu
	saveMu sync.Mutex

	mu        sync.RWMutex
	repo      repository.BlobRepository
	logger    zerolog.Logger
	state     models.State
	prefs     models.Preferences
	currentID string
	revision  uint64

	listenersMu sync.RWMutex
	listeners   []func(Change)
}

// New creates a Store holding the built-in defaults
func New(repo repository.BlobRepository, logger zerolog.Logger) *Store {
	s := &Store{
		repo:   repo,
		logger: logger.With().Str("component", "Store").Logger(),
		state:  models.DefaultState(),
		prefs:  models.DefaultPreferences(),
	}
	s.currentID = s.state.Accounts[0].ID
	return s
}

// Load reads the persisted state and preferences. Missing documents keep the
// defaults. A state document that cannot be parsed is ignored with a warning.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, repository.StateKey)
	switch {
	case errors.Is(err, repository.ErrBlobNotFound):
		s.logger.Info().Msg("no saved journal, starting with defaults")
	case err != nil:
		return fmt.Errorf("failed to read journal state: %w", err)
	default:
		doc, err := migrate.Decode(raw)
		if err != nil {
			s.logger.Warn().Err(err).Msg("saved journal is unreadable, keeping defaults")
			break
		}
		if doc.Migrated() {
			s.logger.Info().Int("from_version", doc.FromVersion).Msg("migrated legacy journal")
		}
		s.mu.Lock()
		s.state = merge(s.state, doc)
		s.ensureAccountLocked()
		s.mu.Unlock()
	}

	raw, err = s.repo.Get(ctx, repository.PreferencesKey)
	switch {
	case errors.Is(err, repository.ErrBlobNotFound):
	case err != nil:
		return fmt.Errorf("failed to read preferences: %w", err)
	default:
		prefs := models.DefaultPreferences()
		if err := json.Unmarshal(raw, &prefs); err != nil {
			s.logger.Warn().Err(err).Msg("saved preferences are unreadable, keeping defaults")
			break
		}
		s.mu.Lock()
		s.prefs = prefs
		s.mu.Unlock()
	}

	s.mu.RLock()
	s.logger.Info().
		Int("accounts", len(s.state.Accounts)).
		Int("trades", len(s.state.Trades)).
		Int("transfers", len(s.state.Transfers)).
		Str("current", s.currentID).
		Msg("journal loaded")
	s.mu.RUnlock()
	return nil
}

// merge lays the collections present in doc over base
func merge(base models.State, doc migrate.Document) models.State {
	out := base.Clone()
	out.Version = models.SchemaVersion
	if doc.HasAccounts {
		out.Accounts = doc.State.Accounts
	}
	if doc.HasTrades {
		out.Trades = doc.State.Trades
	}
	if doc.HasTransfers {
		out.Transfers = doc.State.Transfers
	}
	return out
}

// Save writes the full state as a single document
func (s *Store) Save(ctx context.Context) error {
	return s.Commit(ctx, "save")
}

// Commit is Save with a reason attached to the emitted change
func (s *Store) Commit(ctx context.Context, reason string) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.saveLocked(ctx, reason)
}

// Update runs fn, which applies mutators, then saves. When fn or the save
// fails the state and selection are restored to what they were before fn.
// fn returning ErrNoChange skips the save and Update returns nil.
func (s *Store) Update(ctx context.Context, reason string, fn func() error) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	before := s.state.Clone()
	beforeID := s.currentID
	s.mu.RUnlock()

	err := fn()
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	if err == nil {
		err = s.saveLocked(ctx, reason)
	}
	if err != nil {
		s.mu.Lock()
		s.state = before
		s.currentID = beforeID
		s.mu.Unlock()
		s.logger.Warn().Err(err).Str("reason", reason).Msg("update rolled back")
		return err
	}
	return nil
}

func (s *Store) saveLocked(ctx context.Context, reason string) error {
	s.mu.RLock()
	data, err := migrate.Encode(s.state)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode journal state: %w", err)
	}
	if err := s.repo.Put(ctx, repository.StateKey, data); err != nil {
		return fmt.Errorf("failed to write journal state: %w", err)
	}
	s.notify(reason)
	return nil
}

// SavePreferences writes the preferences document
func (s *Store) SavePreferences(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.savePreferencesLocked(ctx)
}

// UpdatePreferences replaces the preferences and saves them. On failure the
// previous preferences are kept.
func (s *Store) UpdatePreferences(ctx context.Context, p models.Preferences) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	before := s.prefs
	s.prefs = p
	s.mu.Unlock()

	if err := s.savePreferencesLocked(ctx); err != nil {
		s.mu.Lock()
		s.prefs = before
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) savePreferencesLocked(ctx context.Context) error {
	s.mu.RLock()
	data, err := json.Marshal(s.prefs)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := s.repo.Put(ctx, repository.PreferencesKey, data); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	s.notify("preferences")
	return nil
}

// OnChange registers fn to be called after every successful save
func (s *Store) OnChange(fn func(Change)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(reason string) {
	s.mu.Lock()
	s.revision++
	change := Change{Revision: s.revision, Reason: reason, At: time.Now()}
	s.mu.Unlock()

	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, fn := range s.listeners {
		fn(change)
	}
}

// Revision returns the number of saves performed since startup
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// ensureAccountLocked restores the default account when none is left and
// repairs the selection
func (s *Store) ensureAccountLocked() {
	if len(s.state.Accounts) == 0 {
		s.state.Accounts = []models.Account{models.DefaultAccount()}
	}
	if _, ok := s.state.FindAccount(s.currentID); !ok {
		s.currentID = s.state.Accounts[0].ID
	}
}
