// Package syncqueue holds the persisted, strictly ordered list of write
// operations that have not yet been acknowledged by the tournament server.
// Items survive restarts; an item only leaves the queue when the server
// acks it, so a reload mid-flight results in a resend, never a loss. The
// server overwrites on resubmission, which keeps resends harmless.
package syncqueue

import "time"

// Kind is the operation carried by a queue item.
type Kind string

const (
	KindProfileUpsert Kind = "PROFILE_UPSERT"
	KindSetSubmission Kind = "SET_SUBMISSION"
)

// Item is one not-yet-acknowledged write. Payload is a msgpack snapshot of
// the request taken at enqueue time; later local edits reach the server by
// replacing the payload under the same dedup key, not by stacking items.
type Item struct {
	Position   int64
	Kind       Kind
	DedupKey   string
	Payload    []byte
	EnqueuedAt time.Time
}

// FlushResult summarizes one drain attempt. The head-of-line policy means
// Failed is always 0 or 1: the first failure stops the drain and leaves
// the failing item and everything behind it queued.
type FlushResult struct {
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Remaining int    `json:"remaining"`
	FailedKey string `json:"failed_key,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Store is the persistence port for the queue.
type Store interface {
	// Upsert replaces the payload of an un-sent item with the same dedup
	// key, keeping its queue position; otherwise it appends.
	Upsert(item Item) error
	// List returns all items in queue order.
	List() ([]Item, error)
	Delete(position int64) error
	// RemoveByPrefix drops every item whose dedup key starts with prefix.
	// Used by match reset to discard submissions for a discarded match.
	RemoveByPrefix(prefix string) error
	Count() (int, error)
}
