package storage

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// store is the SQLite-backed implementation of Store, persisting into the
// local_state table created by the migrations.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite-backed Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM local_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		log.Error("Failed to read local state", "error", err, "key", key)
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO local_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		log.Error("Failed to write local state", "error", err, "key", key)
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM local_state WHERE key = ?", key)
	if err != nil {
		log.Error("Failed to remove local state", "error", err, "key", key)
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
