package syncqueue

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/nholm/arrowsync/internal/metrics"
	"github.com/vmihailenco/msgpack/v5"
)

// DeliverFunc hands one item to the remote store. A nil error acks the
// item; any error stops the current drain at that item.
type DeliverFunc func(ctx context.Context, item Item) error

// Queue drains its persisted items head-to-tail, one flight at a time.
type Queue struct {
	store   Store
	deliver DeliverFunc
	clock   clockwork.Clock
	metrics metrics.Metrics

	mu       sync.Mutex
	inflight *flight
}

type flight struct {
	done   chan struct{}
	result FlushResult
}

// New creates a queue over the given store. The deliver func is supplied
// by the scoring service, which knows how to decode each item kind back
// into a gateway call.
func New(store Store, deliver DeliverFunc, clock clockwork.Clock, m metrics.Metrics) *Queue {
	return &Queue{
		store:   store,
		deliver: deliver,
		clock:   clock,
		metrics: m,
	}
}

// Enqueue snapshots the payload and persists it under the dedup key. An
// un-sent item with the same key keeps its queue position and gets the new
// payload (local last-write-wins), so rapid re-edits of the same set do
// not stack duplicate submissions.
func (q *Queue) Enqueue(kind Kind, dedupKey string, payload any) error {
	data, err := msgpack.Marshal(payload)
	if err != nil {
		log.Error("Failed to marshal queue payload", "error", err, "dedupKey", dedupKey)
		return fmt.Errorf("marshal payload for %q: %w", dedupKey, err)
	}
	item := Item{
		Kind:       kind,
		DedupKey:   dedupKey,
		Payload:    data,
		EnqueuedAt: q.clock.Now(),
	}
	if err := q.store.Upsert(item); err != nil {
		return err
	}
	q.updateDepth()
	log.Debug("Enqueued item", "kind", kind, "dedupKey", dedupKey)
	return nil
}

// Decode unmarshals an item's payload snapshot into out.
func Decode(item Item, out any) error {
	if err := msgpack.Unmarshal(item.Payload, out); err != nil {
		return fmt.Errorf("decode payload for %q: %w", item.DedupKey, err)
	}
	return nil
}

// Pending returns the number of queued items.
func (q *Queue) Pending() (int, error) {
	return q.store.Count()
}

// Discard drops all un-sent items whose dedup key starts with prefix.
func (q *Queue) Discard(prefix string) error {
	if err := q.store.RemoveByPrefix(prefix); err != nil {
		return err
	}
	q.updateDepth()
	return nil
}

// Flush drains the queue in order against the remote store. It is
// re-entrant-safe: a call made while a drain is already running does not
// start a second one, it waits for the in-flight drain and returns its
// result. On the first delivery failure the drain stops, leaving the
// failing item and everything behind it queued for the next trigger.
func (q *Queue) Flush(ctx context.Context) FlushResult {
	q.mu.Lock()
	if q.inflight != nil {
		f := q.inflight
		q.mu.Unlock()
		<-f.done
		return f.result
	}
	f := &flight{done: make(chan struct{})}
	q.inflight = f
	q.mu.Unlock()

	result := q.drain(ctx)

	q.mu.Lock()
	q.inflight = nil
	f.result = result
	q.mu.Unlock()
	close(f.done)
	return result
}

func (q *Queue) drain(ctx context.Context) FlushResult {
	start := q.clock.Now()
	q.metrics.IncFlushRuns()

	var result FlushResult
	items, err := q.store.List()
	if err != nil {
		log.Error("Failed to read queue for flush", "error", err)
		result.Error = err.Error()
		return result
	}
	if len(items) == 0 {
		return result
	}

	log.Info("Flushing sync queue", "pending", len(items))
	for _, item := range items {
		if err := q.deliver(ctx, item); err != nil {
			// Head-of-line blocking is deliberate: set submissions must
			// reach the server in enqueue order, so nothing behind the
			// failing item is attempted.
			log.Warn("Flush stopped at failing item", "dedupKey", item.DedupKey, "error", err)
			result.Failed = 1
			result.FailedKey = item.DedupKey
			result.Error = err.Error()
			q.metrics.IncFlushFailures()
			break
		}
		if err := q.store.Delete(item.Position); err != nil {
			log.Error("Failed to remove acknowledged item", "error", err, "dedupKey", item.DedupKey)
			result.Failed = 1
			result.FailedKey = item.DedupKey
			result.Error = err.Error()
			break
		}
		result.Processed++
	}

	if remaining, err := q.store.Count(); err == nil {
		result.Remaining = remaining
	}
	q.updateDepth()
	q.metrics.ObserveFlushDuration(q.clock.Since(start).Seconds())
	log.Info("Flush finished", "processed", result.Processed, "failed", result.Failed, "remaining", result.Remaining)
	return result
}

func (q *Queue) updateDepth() {
	if n, err := q.store.Count(); err == nil {
		q.metrics.SetQueueDepth(float64(n))
	}
}
