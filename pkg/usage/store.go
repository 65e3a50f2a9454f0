package usage

import (
	"context"
	"time"

	"github.com/gatekit/gatekit/pkg/feature"
)

// Limit constants
const (
	// Unlimited represents a limit with no ceiling (-1)
	Unlimited int64 = -1
)

// Store persists per-bucket usage counters. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the current count for the key. Unknown or expired
	// keys count as zero.
	Get(ctx context.Context, key string) (int64, error)

	// IncrementIfBelow atomically increments the counter only while it
	// is below limit, and returns whether the slot was claimed along
	// with the resulting count. A limit of Unlimited always increments.
	// The counter expires at expireAt, the bucket's reset instant.
	IncrementIfBelow(ctx context.Context, key string, limit int64, expireAt time.Time) (allowed bool, current int64, err error)

	// Delete removes the counter for the key.
	Delete(ctx context.Context, key string) error
}

// Snapshot reads the counters for the given feature->key mapping into the
// shape EvalContext.Usage expects. Missing counters read as zero.
func Snapshot(ctx context.Context, store Store, keys map[feature.ID]string) (map[feature.ID]int64, error) {
	counts := make(map[feature.ID]int64, len(keys))
	for id, key := range keys {
		current, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		counts[id] = current
	}
	return counts, nil
}
