package service

import (
	"context"
	"encoding/json"

	"github.com/monther20/bassita/internal/metrics"
	"github.com/monther20/bassita/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

// restoreFunc puts a cache entry back to its pre-mutation state.
type restoreFunc func(ctx context.Context)

// patchCached optimistically rewrites the cached value under key so reads
// reflect the mutation before the store write resolves. The returned
// restore puts the prior value back verbatim (or deletes the key if it was
// absent). A cache miss is not an error: there is nothing to patch, and
// restore is a no-op delete.
func patchCached[T any](ctx context.Context, c Cache, key redis.Key, patch func(T) T) restoreFunc {
	raw, existed, err := c.GetRaw(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("optimistic snapshot failed")
		return func(context.Context) {}
	}

	restore := func(rctx context.Context) {
		if existed {
			if err := c.SetRaw(rctx, key, raw, c.EntityTTL()); err != nil {
				log.Warn().Err(err).Str("key", key.String()).Msg("rollback restore failed")
			}
		} else {
			_ = c.Delete(rctx, key)
		}
	}

	if !existed {
		return restore
	}

	var val T
	if err := json.Unmarshal(raw, &val); err != nil {
		// Corrupt entry; drop it so the next read refetches.
		_ = c.Delete(ctx, key)
		return restore
	}

	data, err := json.Marshal(patch(val))
	if err != nil {
		return restore
	}
	if err := c.SetRaw(ctx, key, data, c.EntityTTL()); err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("optimistic patch failed")
	}
	return restore
}

// mutate runs the three-phase write contract shared by every mutating
// operation: the caller has already applied its optimistic patches
// (phase 1), commit issues the store write (phase 2), and settle either
// invalidates per the plan on success or restores every snapshot verbatim
// on failure (phase 3). Rollback is all-or-nothing per mutation.
// The mutation is taken by pointer so commit can fill in store-assigned
// ids before the plan is computed.
func mutate(ctx context.Context, c Cache, m *redis.Mutation, commit func(context.Context) error, restores ...restoreFunc) error {
	if err := commit(ctx); err != nil {
		for _, restore := range restores {
			restore(ctx)
		}
		metrics.MutationRollbacks.WithLabelValues(string(m.Kind)).Inc()
		return err
	}

	if err := c.Apply(ctx, redis.PlanFor(*m)); err != nil {
		// The write landed; a failed invalidation only delays
		// convergence until TTL expiry.
		log.Warn().Err(err).Str("mutation", string(m.Kind)).Msg("cache invalidation failed")
	}
	return nil
}
