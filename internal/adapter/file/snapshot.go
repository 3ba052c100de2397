// Package file persists the tracker snapshot as a JSON file on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
)

// Store implements ports.SnapshotStore with one file per storage key.
type Store struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

// NewStore returns a Store writing <dir>/<key>.json. The directory is created
// on first save.
func NewStore(dir, key string, log *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("file: directory is required")
	}
	if key == "" {
		return nil, errors.New("file: storage key is required")
	}
	return &Store{path: filepath.Join(dir, key+".json"), log: log}, nil
}

// Path returns the snapshot file location.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot; a missing file is reported as ok=false.
func (s *Store) Load(ctx context.Context) (domain.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.State{}, false, nil
	}
	if err != nil {
		return domain.State{}, false, err
	}
	var st domain.State
	if err := json.Unmarshal(b, &st); err != nil {
		return domain.State{}, false, fmt.Errorf("file: decoding %s: %w", s.path, err)
	}
	return st, true, nil
}

// Save overwrites the snapshot atomically.
func (s *Store) Save(ctx context.Context, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(s.path, b, 0o600); err != nil {
		return err
	}
	s.log.Debug("snapshot written", slog.String("path", s.path), slog.Int("sessions", len(state.Sessions)))
	return nil
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

var _ ports.SnapshotStore = (*Store)(nil)
