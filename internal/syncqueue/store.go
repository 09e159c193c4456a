package syncqueue

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// sqlStore persists queue items in the sync_queue table created by the
// migrations.
type sqlStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore creates the SQLite-backed queue store.
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) Upsert(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// On conflict only the payload and kind move; position and enqueued_at
	// stay with the original entry so replacement never reorders the queue.
	_, err := s.db.Exec(`
		INSERT INTO sync_queue (kind, dedup_key, payload, enqueued_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(dedup_key) DO UPDATE SET
			kind = excluded.kind,
			payload = excluded.payload
	`, string(item.Kind), item.DedupKey, item.Payload, item.EnqueuedAt.Unix())
	if err != nil {
		log.Error("Failed to upsert queue item", "error", err, "dedupKey", item.DedupKey)
		return fmt.Errorf("upsert queue item %q: %w", item.DedupKey, err)
	}
	return nil
}

func (s *sqlStore) List() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT position, kind, dedup_key, payload, enqueued_at
		FROM sync_queue ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var kind string
		var enqueuedAt int64
		if err := rows.Scan(&item.Position, &kind, &item.DedupKey, &item.Payload, &enqueuedAt); err != nil {
			return nil, fmt.Errorf("scan queue item: %w", err)
		}
		item.Kind = Kind(kind)
		item.EnqueuedAt = time.Unix(enqueuedAt, 0)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *sqlStore) Delete(position int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM sync_queue WHERE position = ?", position)
	if err != nil {
		return fmt.Errorf("delete queue item %d: %w", position, err)
	}
	return nil
}

func (s *sqlStore) RemoveByPrefix(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM sync_queue WHERE dedup_key LIKE ? || '%'", prefix)
	if err != nil {
		return fmt.Errorf("remove queue items with prefix %q: %w", prefix, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.Info("Dropped queued items", "prefix", prefix, "count", n)
	}
	return nil
}

func (s *sqlStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sync_queue").Scan(&n); err != nil {
		return 0, fmt.Errorf("count queue items: %w", err)
	}
	return n, nil
}
