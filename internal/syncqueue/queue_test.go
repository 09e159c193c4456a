package syncqueue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nholm/arrowsync/internal/database"
	"github.com/nholm/arrowsync/internal/metrics"
	"github.com/nholm/arrowsync/internal/syncqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profilePayload struct {
	Key  string
	Name string
}

func TestEnqueue_DedupReplacesPayload(t *testing.T) {
	store := syncqueue.NewMemoryStore()
	q := syncqueue.New(store, func(ctx context.Context, item syncqueue.Item) error {
		return nil
	}, clockwork.NewFakeClock(), metrics.NewMock())

	require.NoError(t, q.Enqueue(syncqueue.KindProfileUpsert, "archer/asta-holm", profilePayload{Key: "asta-holm", Name: "Asta"}))
	require.NoError(t, q.Enqueue(syncqueue.KindProfileUpsert, "archer/asta-holm", profilePayload{Key: "asta-holm", Name: "Asta Holm"}))

	items, err := store.List()
	require.NoError(t, err)
	require.Len(t, items, 1, "Second enqueue for the same key must replace, not stack")

	var p profilePayload
	require.NoError(t, syncqueue.Decode(items[0], &p))
	assert.Equal(t, "Asta Holm", p.Name, "The replaced item must carry the second payload")
}

func TestEnqueue_DedupKeepsQueuePosition(t *testing.T) {
	store := syncqueue.NewMemoryStore()
	q := syncqueue.New(store, nil, clockwork.NewFakeClock(), metrics.NewMock())

	require.NoError(t, q.Enqueue(syncqueue.KindProfileUpsert, "a", 1))
	require.NoError(t, q.Enqueue(syncqueue.KindProfileUpsert, "b", 2))
	require.NoError(t, q.Enqueue(syncqueue.KindProfileUpsert, "a", 3))

	items, err := store.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].DedupKey, "Replacement must not move the item to the tail")
	assert.Equal(t, "b", items[1].DedupKey)
}

func TestFlush_DrainsInOrder(t *testing.T) {
	store := syncqueue.NewMemoryStore()
	var delivered []string
	q := syncqueue.New(store, func(ctx context.Context, item syncqueue.Item) error {
		delivered = append(delivered, item.DedupKey)
		return nil
	}, clockwork.NewFakeClock(), metrics.NewMock())

	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "set/m1/p1/1", 1))
	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "set/m1/p2/1", 2))
	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "set/m1/p1/2", 3))

	result := q.Flush(context.Background())
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, []string{"set/m1/p1/1", "set/m1/p2/1", "set/m1/p1/2"}, delivered)

	pending, err := q.Pending()
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}

func TestFlush_HeadOfLineBlocking(t *testing.T) {
	store := syncqueue.NewMemoryStore()
	attempts := 0
	q := syncqueue.New(store, func(ctx context.Context, item syncqueue.Item) error {
		attempts++
		return errors.New("server rejected")
	}, clockwork.NewFakeClock(), metrics.NewMock())

	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "item-1", 1))
	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "item-2", 2))
	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "item-3", 3))

	result := q.Flush(context.Background())
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Remaining)
	assert.Equal(t, "item-1", result.FailedKey)
	assert.Equal(t, 1, attempts, "Nothing behind the failing item may be attempted")

	// Items are still there, in original order, for the next trigger.
	items, err := store.List()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "item-1", items[0].DedupKey)
	assert.Equal(t, "item-3", items[2].DedupKey)
}

func TestFlush_ResumesAfterFailureCleared(t *testing.T) {
	store := syncqueue.NewMemoryStore()
	failing := true
	q := syncqueue.New(store, func(ctx context.Context, item syncqueue.Item) error {
		if failing && item.DedupKey == "item-1" {
			return errors.New("offline")
		}
		return nil
	}, clockwork.NewFakeClock(), metrics.NewMock())

	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "item-1", 1))
	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "item-2", 2))

	result := q.Flush(context.Background())
	assert.Equal(t, 0, result.Processed)

	failing = false
	result = q.Flush(context.Background())
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Remaining)
}

func TestFlush_ReentrantCallJoinsInflightDrain(t *testing.T) {
	store := syncqueue.NewMemoryStore()
	started := make(chan struct{})
	release := make(chan struct{})
	var deliveries int
	var mu sync.Mutex

	q := syncqueue.New(store, func(ctx context.Context, item syncqueue.Item) error {
		mu.Lock()
		deliveries++
		first := deliveries == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
		return nil
	}, clockwork.NewRealClock(), metrics.NewMock())

	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "item-1", 1))

	var wg sync.WaitGroup
	results := make([]syncqueue.FlushResult, 2)
	joining := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0] = q.Flush(context.Background())
	}()
	go func() {
		defer wg.Done()
		<-started
		close(joining)
		// This call must join the drain above, not start a second one.
		results[1] = q.Flush(context.Background())
	}()

	// Let the second Flush reach the guard while the first delivery is
	// still blocked, then release it.
	<-joining
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, deliveries, "The item must be delivered exactly once")
	assert.Equal(t, results[0], results[1], "Both callers see the same completion")
}

func TestDiscardByPrefix(t *testing.T) {
	store := syncqueue.NewMemoryStore()
	q := syncqueue.New(store, nil, clockwork.NewFakeClock(), metrics.NewMock())

	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "set/m1/p1/1", 1))
	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "set/m2/p1/1", 2))
	require.NoError(t, q.Enqueue(syncqueue.KindProfileUpsert, "archer/x", 3))

	require.NoError(t, q.Discard("set/m1/"))

	items, err := store.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "set/m2/p1/1", items[0].DedupKey)
}

func TestSQLStore_RoundTrip(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	store := syncqueue.NewStore(db)
	clock := clockwork.NewFakeClock()
	q := syncqueue.New(store, func(ctx context.Context, item syncqueue.Item) error {
		return nil
	}, clock, metrics.NewMock())

	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "set/m1/p1/1", profilePayload{Key: "k", Name: "n"}))
	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "set/m1/p1/2", profilePayload{Key: "k2", Name: "n2"}))
	require.NoError(t, q.Enqueue(syncqueue.KindSetSubmission, "set/m1/p1/1", profilePayload{Key: "k", Name: "replaced"}))

	items, err := store.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "set/m1/p1/1", items[0].DedupKey)

	var p profilePayload
	require.NoError(t, syncqueue.Decode(items[0], &p))
	assert.Equal(t, "replaced", p.Name)

	result := q.Flush(context.Background())
	assert.Equal(t, 2, result.Processed)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
