package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a durable key-value medium for the persisted session.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// ErrCorrupt is returned by reads from a FileStorage whose file could not be decoded.
var ErrCorrupt = errors.New("storage file is corrupt")

// corruptSuffix is appended to the name of an undecodable storage file when it is moved aside.
const corruptSuffix = ".corrupt"

// FileStorage keeps all keys in one JSON object file. The file is rewritten atomically after every change.
type FileStorage struct {
	path   string
	mu     sync.RWMutex
	values map[string]json.RawMessage

	// corrupt is set when the file could not be decoded and cleared by the next write.
	corrupt error
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage opens the file at path, creating its directory when needed. A missing file is an empty storage.
// An undecodable file is moved aside and the storage starts empty; reads report ErrCorrupt until the next write.
func NewFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	fs := &FileStorage{
		path:   path,
		values: make(map[string]json.RawMessage),
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStorage) load() error {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read storage file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &fs.values); err != nil {
		fs.discard(err)
	}
	return nil
}

func (fs *FileStorage) discard(cause error) {
	fs.values = make(map[string]json.RawMessage)
	fs.corrupt = fmt.Errorf("%w: %s: %v", ErrCorrupt, fs.path, cause)

	backup := fs.path + corruptSuffix
	if err := os.Rename(fs.path, backup); err != nil {
		slog.Warn("Failed to move corrupt storage file aside", "path", fs.path, "error", err)
		backup = ""
	}
	slog.Warn("Storage file is unreadable, starting empty", "path", fs.path, "backup", backup, "error", cause)
}

func (fs *FileStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if fs.corrupt != nil {
		return nil, false, fs.corrupt
	}
	v, ok := fs.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores value, which must be valid JSON.
func (fs *FileStorage) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.values[key] = append(json.RawMessage(nil), value...)
	fs.corrupt = nil
	return fs.persist()
}

func (fs *FileStorage) Remove(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.values[key]; !ok && fs.corrupt == nil {
		return nil
	}
	delete(fs.values, key)
	fs.corrupt = nil
	return fs.persist()
}

// persist writes a temp file next to the target and renames it over. Callers hold fs.mu.
func (fs *FileStorage) persist() error {
	data, err := json.MarshalIndent(fs.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("create temp storage file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close storage file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
