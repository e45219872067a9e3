package service

import (
	"context"
	"fmt"
	"time"
)

// blockTimeResolver maps confirmed heights to block timestamps for one sync
// session. Headers are fetched in batches only for heights actually needed
// and never evicted or overwritten until the session ends.
type blockTimeResolver struct {
	backend Backend
	times   map[uint32]time.Time
}

func newBlockTimeResolver(backend Backend) *blockTimeResolver {
	return &blockTimeResolver{
		backend: backend,
		times:   make(map[uint32]time.Time),
	}
}

// Cached reports whether the height is already resolved.
func (r *blockTimeResolver) Cached(height uint32) bool {
	_, ok := r.times[height]
	return ok
}

// Resolve fetches headers for the heights not yet cached in one batched call.
// The caller bounds len(heights) to the session chunk size.
func (r *blockTimeResolver) Resolve(ctx context.Context, heights []uint32) error {
	need := make([]uint32, 0, len(heights))
	queued := make(map[uint32]struct{}, len(heights))
	for _, h := range heights {
		if _, ok := r.times[h]; ok {
			continue
		}
		if _, dup := queued[h]; dup {
			continue
		}
		queued[h] = struct{}{}
		need = append(need, h)
	}
	if len(need) == 0 {
		return nil
	}

	headers, err := r.backend.BlockHeaders(ctx, need)
	if err != nil {
		return fmt.Errorf("block header batch: %w", err)
	}
	if len(headers) != len(need) {
		return fmt.Errorf("%w: %d headers for %d requested heights", ErrBackendMisbehaving, len(headers), len(need))
	}
	for i, h := range need {
		r.times[h] = headers[i].Timestamp
	}
	return nil
}

// Lookup returns the timestamp for a resolved height.
func (r *blockTimeResolver) Lookup(height uint32) (time.Time, bool) {
	ts, ok := r.times[height]
	return ts, ok
}
