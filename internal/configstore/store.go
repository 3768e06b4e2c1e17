// Package configstore writes generated configuration records to disk as
// pretty-printed JSON files named config_<name>.json.
package configstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
	log *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, log: logger}
}

// Save writes one record and returns the path written. The output directory
// is created on first use.
func (s *Store) Save(name string, record map[string]any) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", s.dir, err)
	}

	b, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal config %s: %w", name, err)
	}

	path := filepath.Join(s.dir, "config_"+name+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write config %s: %w", path, err)
	}

	s.log.Info("configstore.save.ok", "name", name, "path", path, "bytes", len(b))
	return path, nil
}
