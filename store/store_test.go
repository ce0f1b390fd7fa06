package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/coachkit/coachkit/broadcast"
	"github.com/coachkit/coachkit/cache"
)

type note struct {
	Meta
	ID   string
	Body string
}

func (n note) EntityID() string { return n.ID }
func (n note) WithEntityID(id string) note {
	n.ID = id
	return n
}
func (n note) WithPending(pending bool) note {
	n.Pending = pending
	return n
}
func (n note) WithDeleting(deleting bool) note {
	n.Deleting = deleting
	return n
}

func newTestStore(t *testing.T, cfg Config) *Store[note] {
	t.Helper()
	cfg.Logger = zerolog.Nop()
	s := New[note]("notes", cfg)
	t.Cleanup(s.Close)
	return s
}

func seed(t *testing.T, s *Store[note], items ...note) {
	t.Helper()
	_, err := s.Fetch(context.Background(), true, func(context.Context) ([]note, error) {
		return items, nil
	})
	require.NoError(t, err)
}

func TestTempID(t *testing.T) {
	id := TempID()
	if !IsTempID(id) {
		t.Errorf("TempID() = %q, not recognized as temporary", id)
	}
	if IsTempID("42") {
		t.Error("server id misclassified as temporary")
	}
	if id == TempID() {
		t.Error("temp ids must be unique")
	}
}

func TestFetchRemote(t *testing.T) {
	s := newTestStore(t, Config{})
	require.False(t, s.Fetched())

	items, err := s.Fetch(context.Background(), false, func(context.Context) ([]note, error) {
		return []note{{ID: "1", Body: "hello"}}, nil
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, s.Fetched())
	require.Equal(t, 1, s.Count())
}

func TestFetchNilCollectionNormalized(t *testing.T) {
	s := newTestStore(t, Config{})

	items, err := s.Fetch(context.Background(), false, func(context.Context) ([]note, error) {
		return nil, nil
	})
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
	require.True(t, s.Fetched())
}

func TestFetchErrorLeavesStoreUntouched(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1"})

	_, err := s.Fetch(context.Background(), true, func(context.Context) ([]note, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	require.Equal(t, 1, s.Count())
}

func TestFetchServedFromCacheSkipsRemote(t *testing.T) {
	mem := cache.NewMemory()
	first := newTestStore(t, Config{Cache: mem, TTL: time.Minute})
	seed(t, first, note{ID: "1", Body: "cached"})

	second := newTestStore(t, Config{Cache: mem, TTL: time.Minute})
	calls := 0
	items, err := second.Fetch(context.Background(), false, func(context.Context) ([]note, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	require.Zero(t, calls, "fresh cache entry must suppress the remote call")
	require.Len(t, items, 1)
	require.Equal(t, "cached", items[0].Body)
	require.True(t, second.Fetched())
}

func TestFetchForceBypassesCache(t *testing.T) {
	mem := cache.NewMemory()
	s := newTestStore(t, Config{Cache: mem, TTL: time.Minute})
	seed(t, s, note{ID: "1", Body: "old"})

	calls := 0
	items, err := s.Fetch(context.Background(), true, func(context.Context) ([]note, error) {
		calls++
		return []note{{ID: "1", Body: "new"}}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, "new", items[0].Body)
}

func TestFetchExpiredCacheFallsThroughToRemote(t *testing.T) {
	mem := cache.NewMemory()
	s := newTestStore(t, Config{Cache: mem, TTL: time.Nanosecond})
	seed(t, s, note{ID: "1", Body: "stale"})
	time.Sleep(2 * time.Millisecond)

	calls := 0
	items, err := s.Fetch(context.Background(), false, func(context.Context) ([]note, error) {
		calls++
		return []note{{ID: "1", Body: "fresh"}}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls, "expired entry must not suppress the remote call")
	require.Equal(t, "fresh", items[0].Body)
}

func TestCreateConfirmed(t *testing.T) {
	s := newTestStore(t, Config{})

	var midFlight note
	created, err := s.Create(context.Background(), note{Body: "draft"}, func(_ context.Context, optimistic note) (note, error) {
		got, ok := s.GetByID(optimistic.ID)
		require.True(t, ok, "optimistic entity should be visible during the remote call")
		midFlight = got
		return note{ID: "42", Body: "draft"}, nil
	})
	require.NoError(t, err)

	require.True(t, IsTempID(midFlight.ID))
	require.True(t, midFlight.Pending)

	require.Equal(t, "42", created.ID)
	require.False(t, created.Pending)
	require.Equal(t, 1, s.Count())

	got, ok := s.GetByID("42")
	require.True(t, ok)
	require.Equal(t, "draft", got.Body)
	_, ok = s.GetByID(midFlight.ID)
	require.False(t, ok, "temp id must be gone after confirmation")
}

func TestCreateRollbackRemovesOptimisticEntity(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1"})

	_, err := s.Create(context.Background(), note{Body: "doomed"}, func(context.Context, note) (note, error) {
		return note{}, errors.New("server rejected")
	})
	require.Error(t, err)
	require.Equal(t, 1, s.Count())

	for _, item := range s.Items() {
		require.False(t, IsTempID(item.ID))
		require.False(t, item.Pending)
	}
}

func TestUpdateConfirmed(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1", Body: "before"})

	updated, ok, err := s.Update(context.Background(), "1",
		func(n note) note { n.Body = "after"; return n },
		func(_ context.Context, patched note) (note, error) {
			require.True(t, patched.Pending)
			require.Equal(t, "after", patched.Body)
			got, found := s.GetByID("1")
			require.True(t, found)
			require.True(t, got.Pending, "entity should be pending mid-flight")
			return patched, nil
		})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "after", updated.Body)
	require.False(t, updated.Pending)

	got, _ := s.GetByID("1")
	require.False(t, got.Pending, "pending flag must be cleared after confirmation")
}

func TestUpdateRollbackRestoresSnapshot(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1", Body: "original"}, note{ID: "2", Body: "bystander"})

	_, ok, err := s.Update(context.Background(), "1",
		func(n note) note { n.Body = "mutated"; return n },
		func(context.Context, note) (note, error) {
			return note{}, errors.New("conflict")
		})
	require.Error(t, err)
	require.True(t, ok)

	got, found := s.GetByID("1")
	require.True(t, found)
	require.Equal(t, note{ID: "1", Body: "original"}, got, "rollback must restore the entity field for field")
	other, _ := s.GetByID("2")
	require.Equal(t, "bystander", other.Body)
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1"})

	calls := 0
	_, ok, err := s.Update(context.Background(), "ghost",
		func(n note) note { return n },
		func(context.Context, note) (note, error) {
			calls++
			return note{}, nil
		})
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, calls, "remote must not be called for a missing id")
}

func TestUpdateSilentSkipsPendingFlag(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1", Body: "a"})

	_, ok, err := s.Update(context.Background(), "1",
		func(n note) note { n.Body = "b"; return n },
		func(_ context.Context, patched note) (note, error) {
			require.False(t, patched.Pending, "silent update must not flip the pending flag")
			return patched, nil
		}, Silent())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDeleteConfirmed(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1"}, note{ID: "2"})

	ok, err := s.Delete(context.Background(), "1", func(context.Context) error {
		got, found := s.GetByID("1")
		require.True(t, found, "entity stays visible until the server confirms")
		require.True(t, got.Deleting)
		return nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, s.Count())
	_, found := s.GetByID("1")
	require.False(t, found)
}

func TestDeleteRollbackRestoresEntity(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1", Body: "keep"})

	ok, err := s.Delete(context.Background(), "1", func(context.Context) error {
		return errors.New("forbidden")
	})
	require.Error(t, err)
	require.True(t, ok)

	got, found := s.GetByID("1")
	require.True(t, found)
	require.False(t, got.Deleting, "deleting flag must be cleared on rollback")
	require.Equal(t, "keep", got.Body)
}

func TestDeleteMissingIDIsNoOp(t *testing.T) {
	s := newTestStore(t, Config{})

	calls := 0
	ok, err := s.Delete(context.Background(), "ghost", func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, calls)
}

func TestTransactConfirmedAndRollback(t *testing.T) {
	s := newTestStore(t, Config{})
	seed(t, s, note{ID: "1", Body: "a"}, note{ID: "2", Body: "b"})

	confirmed, err := s.Transact(context.Background(), "1",
		func(items []note) []note {
			for i := range items {
				items[i].Body = "swept"
			}
			return items
		},
		func(context.Context) (note, error) {
			got, _ := s.GetByID("2")
			require.Equal(t, "swept", got.Body, "transform applies to the whole collection")
			return note{ID: "1", Body: "server"}, nil
		})
	require.NoError(t, err)
	require.Equal(t, "server", confirmed.Body)

	_, err = s.Transact(context.Background(), "1",
		func(items []note) []note { return nil },
		func(context.Context) (note, error) {
			require.Zero(t, s.Count(), "transform may empty the collection optimistically")
			return note{}, errors.New("boom")
		})
	require.Error(t, err)
	require.Equal(t, 2, s.Count(), "rollback must restore the whole collection")
}

func TestMutationsWriteThroughCache(t *testing.T) {
	mem := cache.NewMemory()
	s := newTestStore(t, Config{Cache: mem, TTL: time.Minute})
	seed(t, s, note{ID: "1"})

	_, err := s.Create(context.Background(), note{Body: "new"}, func(_ context.Context, n note) (note, error) {
		return n.WithEntityID("2"), nil
	})
	require.NoError(t, err)

	entry, ok := mem.Read(cache.KeyFor("notes", nil), time.Minute)
	require.True(t, ok)
	cached := entry.Data.([]note)
	require.Len(t, cached, 2)
}

func TestBroadcastSyncsSiblingStore(t *testing.T) {
	mem := cache.NewMemory()
	bus := broadcast.NewBus()

	var refreshed []uint64
	a := newTestStore(t, Config{Cache: mem, TTL: time.Minute, Bus: bus})
	b := newTestStore(t, Config{Cache: mem, TTL: time.Minute, Bus: bus, OnRefresh: func(trigger uint64) {
		refreshed = append(refreshed, trigger)
	}})

	seed(t, a, note{ID: "1", Body: "a"})
	require.Zero(t, b.Count(), "fetch alone does not publish")

	_, ok, err := a.Update(context.Background(), "1",
		func(n note) note { n.Body = "updated"; return n },
		func(_ context.Context, n note) (note, error) { return n, nil })
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, 1, b.Count(), "sibling must adopt the cache on publish")
	got, _ := b.GetByID("1")
	require.Equal(t, "updated", got.Body)
	require.True(t, b.Fetched())
	require.Equal(t, []uint64{1}, refreshed)
}

func TestRollbackDoesNotPublish(t *testing.T) {
	bus := broadcast.NewBus()
	s := newTestStore(t, Config{Bus: bus})
	seed(t, s, note{ID: "1"})

	_, _, err := s.Update(context.Background(), "1",
		func(n note) note { return n },
		func(context.Context, note) (note, error) { return note{}, errors.New("nope") })
	require.Error(t, err)
	require.Zero(t, bus.Trigger(), "failed mutations must not broadcast")
}

func TestCloseStopsRefresh(t *testing.T) {
	mem := cache.NewMemory()
	bus := broadcast.NewBus()
	s := newTestStore(t, Config{Cache: mem, TTL: time.Minute, Bus: bus})

	s.Close()
	mem.Write(cache.KeyFor("notes", nil), []note{{ID: "1"}})
	bus.Publish()

	require.Zero(t, s.Count(), "closed store must ignore the bus")
}

func TestReplaceByIDDropsStaleDuplicate(t *testing.T) {
	items := []note{{ID: "tmp_x"}, {ID: "42", Body: "stale"}}
	out := replaceByID(items, "tmp_x", note{ID: "42", Body: "fresh"})

	require.Len(t, out, 1)
	require.Equal(t, "fresh", out[0].Body)
}
