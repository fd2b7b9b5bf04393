package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"wordcards/internal/config"
	"wordcards/internal/storage"
)

const backupVersion = "1.0"

// BackupData is the exported learner state, one raw JSON snapshot per key
type BackupData struct {
	Version      string          `json:"version"`
	ExportedAt   time.Time       `json:"exported_at"`
	Progress     json.RawMessage `json:"progress,omitempty"`
	Achievements json.RawMessage `json:"achievements,omitempty"`
	Stats        json.RawMessage `json:"stats,omitempty"`
	Session      json.RawMessage `json:"session,omitempty"`
}

// BackupService handles backup and restore of the stored learner state
type BackupService struct {
	store storage.Store
	keys  config.KeysConfig
	log   logrus.FieldLogger
}

// NewBackupService creates a new backup service
func NewBackupService(store storage.Store, keys config.KeysConfig, logger logrus.FieldLogger) *BackupService {
	return &BackupService{store: store, keys: keys, log: logger.WithField("component", "backup")}
}

func (s *BackupService) fields(backup *BackupData) map[string]*json.RawMessage {
	return map[string]*json.RawMessage{
		s.keys.Progress:     &backup.Progress,
		s.keys.Achievements: &backup.Achievements,
		s.keys.Stats:        &backup.Stats,
		s.keys.Session:      &backup.Session,
	}
}

// Export reads every stored snapshot. Values that are not valid JSON are skipped.
func (s *BackupService) Export(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
	}

	exported := 0
	for key, field := range s.fields(backup) {
		value, found, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", key, err)
		}
		if !found {
			continue
		}
		if !json.Valid([]byte(value)) {
			s.log.WithField("key", key).Warn("Skipping unreadable value in export")
			continue
		}
		*field = json.RawMessage(value)
		exported++
	}

	s.log.WithField("values", exported).Info("Learner state exported")
	return backup, nil
}

// ExportToWriter exports the learner state as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup, err := s.Export(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ImportFromReader decodes a backup written by ExportToWriter
func (s *BackupService) ImportFromReader(r io.Reader) (*BackupData, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}
	return &backup, nil
}

// Import writes every snapshot present in the backup, leaving absent keys untouched
func (s *BackupService) Import(ctx context.Context, backup *BackupData) error {
	s.log.WithFields(logrus.Fields{
		"version":     backup.Version,
		"exported_at": backup.ExportedAt,
	}).Info("Starting import")

	for key, field := range s.fields(backup) {
		if len(*field) == 0 || string(*field) == "null" {
			continue
		}
		if err := s.store.Set(ctx, key, string(*field)); err != nil {
			return fmt.Errorf("failed to import %s: %w", key, err)
		}
	}

	s.log.Info("Import completed successfully")
	return nil
}
