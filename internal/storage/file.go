package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shelfminer/shelfminer/internal/config"
)

// FileStorage writes each stage as an indented UTF-8 JSON array under
// the configured data directory.
type FileStorage struct {
	cfg    *config.StorageConfig
	logger *slog.Logger
}

// NewFileStorage creates a JSON file storage backend.
func NewFileStorage(cfg *config.StorageConfig, logger *slog.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStorage{
		cfg:    cfg,
		logger: logger.With("component", "file_storage"),
	}, nil
}

func (s *FileStorage) Name() string { return "json" }

// Store writes the three stage files. A failed stage aborts the write;
// earlier stages already on disk are left in place.
func (s *FileStorage) Store(a *Artifacts) error {
	stages := []struct {
		file string
		data any
	}{
		{s.cfg.RawFile, a.Raw},
		{s.cfg.CleanedFile, a.Cleaned},
		{s.cfg.FinalFile, a.Final},
	}
	for _, stage := range stages {
		path := filepath.Join(s.cfg.DataDir, stage.file)
		if err := writeJSON(path, stage.data); err != nil {
			return err
		}
		s.logger.Debug("stage written", "path", path, "run_id", a.RunID)
	}
	s.logger.Info("artifacts written", "dir", s.cfg.DataDir, "products", len(a.Final))
	return nil
}

func (s *FileStorage) Close() error { return nil }

func writeJSON(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
