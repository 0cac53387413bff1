package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tz-journal/internal/migrate"
	"github.com/tz-journal/internal/models"
)

// ErrInvalidBackup is returned when a backup file cannot be read as a journal
var ErrInvalidBackup = errors.New("invalid backup file")

// Export serializes the full state as an indented backup document
func Export(state models.State) ([]byte, error) {
	raw, err := migrate.Encode(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format backup: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Restore parses a backup document of any known schema version. The returned
// state replaces the journal wholesale; collections absent from the file are
// empty.
func Restore(raw []byte) (models.State, error) {
	doc, err := migrate.Decode(raw)
	if err != nil {
		return models.State{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return doc.State, nil
}
