package scoring

import (
	"context"
	"fmt"

	"github.com/nholm/arrowsync/internal/gateway"
	"github.com/nholm/arrowsync/internal/syncqueue"
)

// NewDeliverer returns the queue delivery function that replays queued
// writes against the gateway. A decode failure is returned as an error and
// therefore blocks the queue like any other failure; the escape hatch for
// a genuinely poisoned item is match reset, which discards its prefix.
func NewDeliverer(gw gateway.Client) syncqueue.DeliverFunc {
	return func(ctx context.Context, item syncqueue.Item) error {
		switch item.Kind {
		case syncqueue.KindProfileUpsert:
			var req gateway.UpsertArcherRequest
			if err := syncqueue.Decode(item, &req); err != nil {
				return fmt.Errorf("decode profile upsert %s: %w", item.DedupKey, err)
			}
			return gw.UpsertArcher(ctx, req)
		case syncqueue.KindSetSubmission:
			var req gateway.SubmitSetRequest
			if err := syncqueue.Decode(item, &req); err != nil {
				return fmt.Errorf("decode set submission %s: %w", item.DedupKey, err)
			}
			return gw.SubmitSet(ctx, req)
		}
		return fmt.Errorf("unknown queue item kind %q", item.Kind)
	}
}
