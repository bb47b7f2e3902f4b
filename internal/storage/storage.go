package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tellocheck/internal/models"
)

// SnapshotStorage handles persistence of diagnostic history to disk.
type SnapshotStorage struct {
	mu      sync.RWMutex
	path    string
	history []models.Snapshot
}

// NewSnapshotStorage creates a storage instance and loads existing history if present.
func NewSnapshotStorage(path string) (*SnapshotStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}

	s := &SnapshotStorage{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Append adds a new snapshot and persists it to disk.
func (s *SnapshotStorage) Append(snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, snap)
	return s.persist()
}

// Latest returns the latest snapshot if it exists.
func (s *SnapshotStorage) Latest() (models.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return models.Snapshot{}, false
	}
	return s.history[len(s.history)-1], true
}

// History returns a copy of the entire history slice.
func (s *SnapshotStorage) History() []models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]models.Snapshot, len(s.history))
	copy(copied, s.history)
	return copied
}

// HistoryN returns up to n most recent snapshots, oldest first.
func (s *SnapshotStorage) HistoryN(n int) []models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || len(s.history) == 0 {
		return nil
	}
	if n > len(s.history) {
		n = len(s.history)
	}
	out := make([]models.Snapshot, n)
	copy(out, s.history[len(s.history)-n:])
	return out
}

func (s *SnapshotStorage) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.history = []models.Snapshot{}
			return nil
		}
		return fmt.Errorf("read history: %w", err)
	}

	if len(data) == 0 {
		s.history = []models.Snapshot{}
		return nil
	}

	var entries []models.Snapshot
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse history: %w", err)
	}

	s.history = entries
	return nil
}

func (s *SnapshotStorage) persist() error {
	bytes, err := json.MarshalIndent(s.history, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", s.path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, bytes, 0o644); err != nil {
		return fmt.Errorf("write temp history: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
