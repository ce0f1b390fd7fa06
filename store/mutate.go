package store

import (
	"context"
	"time"

	"github.com/coachkit/coachkit/internal/metrics"
)

type mutateOptions struct {
	silent bool
}

// MutateOption adjusts how a single mutation is applied locally.
type MutateOption func(*mutateOptions)

// Silent applies the optimistic change without flipping the pending flag.
// Used for high-frequency interactions (drag rescheduling) where the flag
// would cause visible flicker.
func Silent() MutateOption {
	return func(o *mutateOptions) { o.silent = true }
}

// Create appends an optimistic entity with a temporary id, then invokes
// remote with the optimistic entity. On success the temporary entity is
// replaced by the server's; on failure it is removed and the error is
// returned. The draft's id field is ignored.
func (s *Store[T]) Create(ctx context.Context, draft T, remote func(context.Context, T) (T, error)) (T, error) {
	var zero T
	start := time.Now()

	tempID := TempID()
	optimistic := draft.WithEntityID(tempID).WithPending(true)

	s.mu.Lock()
	s.items = append(cloneSlice(s.items), optimistic)
	s.writeThroughLocked()
	s.mu.Unlock()

	created, err := remote(ctx, optimistic)
	if err != nil {
		s.mu.Lock()
		s.items = removeByID(s.items, tempID)
		s.writeThroughLocked()
		s.mu.Unlock()

		s.metrics.Mutation(s.resource, "create", metrics.OutcomeRolledBack, time.Since(start))
		s.log.Error().Err(err).Msg("create failed, optimistic entity removed")
		return zero, err
	}

	confirmed := created.WithPending(false).WithDeleting(false)

	s.mu.Lock()
	s.items = replaceByID(s.items, tempID, confirmed)
	s.writeThroughLocked()
	s.mu.Unlock()
	s.publish()

	s.metrics.Mutation(s.resource, "create", metrics.OutcomeConfirmed, time.Since(start))
	s.log.Debug().Str("id", confirmed.EntityID()).Msg("create confirmed")
	return confirmed, nil
}

// Update patches the entity with the given id, marks it pending, and
// invokes remote with the patched entity. On success the entity is
// reconciled with the server's; on failure the pre-mutation collection is
// restored verbatim. A missing id is a no-op reported as ok == false with
// a nil error: the local collection may be a subset of server state.
func (s *Store[T]) Update(ctx context.Context, id string, patch func(T) T, remote func(context.Context, T) (T, error), opts ...MutateOption) (T, bool, error) {
	var zero T
	start := time.Now()

	var o mutateOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	idx := indexByID(s.items, id)
	if idx < 0 {
		s.mu.Unlock()
		s.metrics.Mutation(s.resource, "update", metrics.OutcomeSkipped, time.Since(start))
		s.log.Debug().Str("id", id).Msg("update target not in local collection")
		return zero, false, nil
	}

	snapshot := cloneSlice(s.items)
	patched := patch(s.items[idx])
	if !o.silent {
		patched = patched.WithPending(true)
	}
	s.items[idx] = patched
	s.writeThroughLocked()
	s.mu.Unlock()

	updated, err := remote(ctx, patched)
	if err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.writeThroughLocked()
		s.mu.Unlock()

		s.metrics.Mutation(s.resource, "update", metrics.OutcomeRolledBack, time.Since(start))
		s.log.Error().Err(err).Str("id", id).Msg("update failed, collection restored")
		return zero, true, err
	}

	confirmed := updated.WithPending(false).WithDeleting(false)

	s.mu.Lock()
	s.items = replaceByID(s.items, id, confirmed)
	s.writeThroughLocked()
	s.mu.Unlock()
	s.publish()

	s.metrics.Mutation(s.resource, "update", metrics.OutcomeConfirmed, time.Since(start))
	return confirmed, true, nil
}

// Delete marks the entity as deleting (it stays visible until the server
// confirms), then invokes remote. On success the entity is removed; on
// failure the pre-mutation collection is restored. A missing id is a
// no-op reported as ok == false with a nil error.
func (s *Store[T]) Delete(ctx context.Context, id string, remote func(context.Context) error) (bool, error) {
	start := time.Now()

	s.mu.Lock()
	idx := indexByID(s.items, id)
	if idx < 0 {
		s.mu.Unlock()
		s.metrics.Mutation(s.resource, "delete", metrics.OutcomeSkipped, time.Since(start))
		s.log.Debug().Str("id", id).Msg("delete target not in local collection")
		return false, nil
	}

	snapshot := cloneSlice(s.items)
	s.items[idx] = s.items[idx].WithDeleting(true)
	s.writeThroughLocked()
	s.mu.Unlock()

	if err := remote(ctx); err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.writeThroughLocked()
		s.mu.Unlock()

		s.metrics.Mutation(s.resource, "delete", metrics.OutcomeRolledBack, time.Since(start))
		s.log.Error().Err(err).Str("id", id).Msg("delete failed, collection restored")
		return true, err
	}

	s.mu.Lock()
	s.items = removeByID(s.items, id)
	s.writeThroughLocked()
	s.mu.Unlock()
	s.publish()

	s.metrics.Mutation(s.resource, "delete", metrics.OutcomeConfirmed, time.Since(start))
	return true, nil
}

// Transact applies an arbitrary optimistic transform to the whole
// collection, then invokes remote. On success the entity with the given id
// is reconciled with the server's; on failure the pre-mutation collection
// is restored. It backs mutations whose optimistic effect spans several
// entities, such as activating one diet plan while deactivating the rest.
func (s *Store[T]) Transact(ctx context.Context, id string, transform func([]T) []T, remote func(context.Context) (T, error)) (T, error) {
	var zero T
	start := time.Now()

	s.mu.Lock()
	snapshot := cloneSlice(s.items)
	next := transform(cloneSlice(s.items))
	if next == nil {
		next = []T{}
	}
	s.items = next
	s.writeThroughLocked()
	s.mu.Unlock()

	result, err := remote(ctx)
	if err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.writeThroughLocked()
		s.mu.Unlock()

		s.metrics.Mutation(s.resource, "transact", metrics.OutcomeRolledBack, time.Since(start))
		s.log.Error().Err(err).Str("id", id).Msg("transact failed, collection restored")
		return zero, err
	}

	confirmed := result.WithPending(false).WithDeleting(false)

	s.mu.Lock()
	s.items = replaceByID(s.items, id, confirmed)
	s.writeThroughLocked()
	s.mu.Unlock()
	s.publish()

	s.metrics.Mutation(s.resource, "transact", metrics.OutcomeConfirmed, time.Since(start))
	return confirmed, nil
}

// replaceByID swaps the entity with oldID for next, dropping any other
// entity that already carries next's id so confirmed ids stay unique.
// If oldID is absent, next is appended.
func replaceByID[T Entity[T]](items []T, oldID string, next T) []T {
	out := make([]T, 0, len(items))
	replaced := false
	for _, item := range items {
		switch item.EntityID() {
		case oldID:
			out = append(out, next)
			replaced = true
		case next.EntityID():
			// stale duplicate of the confirmed id
		default:
			out = append(out, item)
		}
	}
	if !replaced {
		out = append(out, next)
	}
	return out
}

func removeByID[T Entity[T]](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.EntityID() != id {
			out = append(out, item)
		}
	}
	return out
}
