package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	backupPrefix = "tz_backup_"
	backupSuffix = ".json"
	backupLayout = "20060102-150405.000"
)

// BackupSource produces backup documents
type BackupSource interface {
	ExportBackup() ([]byte, error)
	Revision() uint64
}

// BackupWorker periodically writes the journal to timestamped files and keeps
// only the newest ones
type BackupWorker struct {
	source   BackupSource
	dir      string
	keep     int
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
	stopChan chan struct{}

	written      bool
	lastRevision uint64
}

// NewBackupWorker creates a new backup worker. keep <= 0 keeps every file.
func NewBackupWorker(source BackupSource, dir string, keep int, interval time.Duration, logger zerolog.Logger) *BackupWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &BackupWorker{
		source:   source,
		dir:      dir,
		keep:     keep,
		interval: interval,
		logger:   logger.With().Str("component", "BackupWorker").Logger(),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start begins the backup loop
func (w *BackupWorker) Start() {
	w.logger.Info().Str("dir", w.dir).Dur("interval", w.interval).Int("keep", w.keep).Msg("backup worker started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.RunOnce(); err != nil {
				w.logger.Error().Err(err).Msg("backup failed")
			}
		case <-w.stopChan:
			w.logger.Info().Msg("backup worker stopped")
			return
		}
	}
}

// Stop stops the backup loop
func (w *BackupWorker) Stop() {
	close(w.stopChan)
}

// RunOnce writes a backup unless nothing was saved since the previous one. It
// returns the path written, or "" when skipped.
func (w *BackupWorker) RunOnce() (string, error) {
	rev := w.source.Revision()
	if w.written && rev == w.lastRevision {
		return "", nil
	}

	data, err := w.source.ExportBackup()
	if err != nil {
		return "", fmt.Errorf("failed to export backup: %w", err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(w.dir, backupPrefix+w.now().Format(backupLayout)+backupSuffix)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	w.written = true
	w.lastRevision = rev
	w.logger.Info().Str("path", path).Int("bytes", len(data)).Msg("backup written")

	if err := w.prune(); err != nil {
		w.logger.Warn().Err(err).Msg("failed to prune old backups")
	}
	return path, nil
}

// prune removes the oldest backups beyond keep
func (w *BackupWorker) prune() error {
	if w.keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && isTimestampedBackup(name) {
			names = append(names, name)
		}
	}
	if len(names) <= w.keep {
		return nil
	}
	// timestamped names sort chronologically
	sort.Strings(names)
	for _, name := range names[:len(names)-w.keep] {
		if err := os.Remove(filepath.Join(w.dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// isTimestampedBackup reports whether name was written by RunOnce. Manual
// exports share the prefix but carry a plain date and are never pruned.
func isTimestampedBackup(name string) bool {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	_, err := time.Parse(backupLayout, stamp)
	return err == nil
}
