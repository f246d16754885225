package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/racktower/pkg/observability"
)

// FileStore keeps the state in a single JSON file.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// DefaultPath returns ~/.config/racktower/layout.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "racktower", "layout.json"), nil
}

// NewFileStore creates a file store at path. If path is empty, defaults to
// [DefaultPath]. The parent directory is created if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the file the store reads and writes.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(ctx context.Context) (*State, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	start := time.Now()
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			observability.Store().OnLoad(ctx, "file", -1, time.Since(start), nil)
			return nil, nil
		}
		err = fmt.Errorf("read state file: %w", err)
		observability.Store().OnLoad(ctx, "file", -1, time.Since(start), err)
		return nil, err
	}

	s, err := Decode(data)
	slots := -1
	if s != nil {
		slots = len(s.Slots)
	}
	observability.Store().OnLoad(ctx, "file", slots, time.Since(start), err)
	return s, err
}

// Save writes s to a temporary file and renames it over the old state, so a
// crash mid-write never leaves a truncated layout behind.
func (f *FileStore) Save(ctx context.Context, s *State) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()
	size := 0
	defer func() {
		observability.Store().OnSave(ctx, "file", size, time.Since(start), err)
	}()

	data, err := Encode(s)
	if err != nil {
		return err
	}
	size = len(data)

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".layout-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Reset deletes the state file. A missing file is not an error.
func (f *FileStore) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
