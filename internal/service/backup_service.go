package service

import (
	"context"
	"fmt"

	"github.com/tz-journal/internal/importer"
	"github.com/tz-journal/internal/models"
)

// RestoreResult summarizes a restored backup
type RestoreResult struct {
	Accounts  int `json:"accounts"`
	Trades    int `json:"trades"`
	Transfers int `json:"transfers"`
}

// ExportBackup returns the full journal as a backup document
func (s *JournalService) ExportBackup() ([]byte, error) {
	return importer.Export(s.store.Snapshot())
}

// BackupFilename returns the download name of a backup taken now
func (s *JournalService) BackupFilename() string {
	return fmt.Sprintf("tz_backup_%s.json", s.now().Format("2006-01-02"))
}

// RestoreBackup replaces the whole journal with a backup document and saves.
// An unreadable document leaves the journal untouched.
func (s *JournalService) RestoreBackup(ctx context.Context, raw []byte) (*RestoreResult, error) {
	state, err := importer.Restore(raw)
	if err != nil {
		return nil, err
	}
	err = s.store.Update(ctx, "backup.restore", func() error {
		s.store.Replace(state)
		return nil
	})
	if err != nil {
		return nil, err
	}

	restored := s.store.Snapshot()
	result := &RestoreResult{
		Accounts:  len(restored.Accounts),
		Trades:    len(restored.Trades),
		Transfers: len(restored.Transfers),
	}
	s.logger.Info().
		Int("accounts", result.Accounts).
		Int("trades", result.Trades).
		Int("transfers", result.Transfers).
		Msg("backup restored")
	return result, nil
}

// Snapshot returns a copy of the full journal
func (s *JournalService) Snapshot() models.State {
	return s.store.Snapshot()
}

// Revision returns the number of saves since startup
func (s *JournalService) Revision() uint64 {
	return s.store.Revision()
}
