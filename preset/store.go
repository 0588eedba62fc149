package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore keeps presets in a client-local storage file. The file is a JSON
// object of storage key to value, and the whole preset map lives under
// StorageKey as one blob. Every write replaces the file.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	logger  *zap.Logger
	presets map[string]Preset
}

// OpenFileStore loads the presets stored at path. A missing file, an
// unreadable file, or a malformed blob yields an empty mapping; the failure
// is logged, not returned.
func OpenFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FileStore{path: path, logger: logger, presets: map[string]Preset{}}
	s.load()
	return s
}

func (s *FileStore) load() {
	entries, err := s.readEntries()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("read preset storage, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return
	}
	blob, ok := entries[StorageKey]
	if !ok {
		return
	}
	var presets map[string]Preset
	if err := json.Unmarshal(blob, &presets); err != nil {
		s.logger.Warn("decode presets, starting empty", zap.String("path", s.path), zap.Error(err))
		return
	}
	if presets != nil {
		s.presets = presets
	}
	s.logger.Debug("presets loaded", zap.Int("count", len(s.presets)))
}

func (s *FileStore) readEntries() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	entries := map[string]json.RawMessage{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}
	return entries, nil
}

// Get returns the preset for op.
func (s *FileStore) Get(op string) (Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[op]
	if !ok {
		return Preset{}, false
	}
	return p.Clone(), true
}

// Upsert stores p under op and persists the whole mapping.
func (s *FileStore) Upsert(op string, p Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.copyLocked()
	next[op] = p.Clone()
	return s.saveLocked(next)
}

// Delete removes the preset for op and persists the whole mapping.
func (s *FileStore) Delete(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.presets[op]; !ok {
		return nil
	}
	next := s.copyLocked()
	delete(next, op)
	return s.saveLocked(next)
}

// All returns a copy of every stored preset.
func (s *FileStore) All() map[string]Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *FileStore) copyLocked() map[string]Preset {
	out := make(map[string]Preset, len(s.presets))
	for k, v := range s.presets {
		out[k] = v.Clone()
	}
	return out
}

// saveLocked writes next and only then makes it the in-memory state, so a
// failed write leaves the store unchanged.
func (s *FileStore) saveLocked(next map[string]Preset) error {
	blob, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}

	// Other keys in the storage file are carried over untouched.
	entries, err := s.readEntries()
	if err != nil {
		entries = map[string]json.RawMessage{}
	}
	entries[StorageKey] = blob
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".presets-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write presets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write presets: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}

	s.presets = next
	return nil
}

// MemoryStore is a Store that keeps presets in memory only.
type MemoryStore struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewMemoryStore returns a MemoryStore seeded with a copy of initial.
func NewMemoryStore(initial map[string]Preset) *MemoryStore {
	s := &MemoryStore{presets: make(map[string]Preset, len(initial))}
	for k, v := range initial {
		s.presets[k] = v.Clone()
	}
	return s
}

func (s *MemoryStore) Get(op string) (Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[op]
	return p.Clone(), ok
}

func (s *MemoryStore) Upsert(op string, p Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[op] = p.Clone()
	return nil
}

func (s *MemoryStore) Delete(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.presets, op)
	return nil
}

func (s *MemoryStore) All() map[string]Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Preset, len(s.presets))
	for k, v := range s.presets {
		out[k] = v.Clone()
	}
	return out
}
