// Package tasks binds the optimistic store to the task endpoints.
package tasks

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coachkit/coachkit/api"
	"github.com/coachkit/coachkit/broadcast"
	"github.com/coachkit/coachkit/cache"
	"github.com/coachkit/coachkit/internal/metrics"
	"github.com/coachkit/coachkit/store"
)

// DefaultTTL bounds task cache freshness.
const DefaultTTL = 3 * time.Minute

// Options wires a Board to the application's shared collaborators.
type Options struct {
	Cache     cache.Store
	Buses     *broadcast.Registry
	Logger    zerolog.Logger
	Metrics   *metrics.Set
	OnRefresh func(trigger uint64)
	TTL       time.Duration // defaults to DefaultTTL
}

// Board is the task-list façade.
type Board struct {
	api   *api.Client
	store *store.Store[api.Task]
}

// New creates a task board façade and subscribes it to the tasks bus.
func New(apiClient *api.Client, opts Options) *Board {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	var bus *broadcast.Bus
	if opts.Buses != nil {
		bus = opts.Buses.Bus(broadcast.Tasks)
	}

	return &Board{
		api: apiClient,
		store: store.New[api.Task](broadcast.Tasks, store.Config{
			Cache:     opts.Cache,
			TTL:       ttl,
			Bus:       bus,
			OnRefresh: opts.OnRefresh,
			Logger:    opts.Logger,
			Metrics:   opts.Metrics,
		}),
	}
}

// Close unsubscribes the board from the refresh bus.
func (b *Board) Close() { b.store.Close() }

// Fetch loads the task list, from cache when fresh unless force is set.
func (b *Board) Fetch(ctx context.Context, force bool) ([]api.Task, error) {
	return b.store.Fetch(ctx, force, b.api.ListTasks)
}

// Add creates a task optimistically. An empty status defaults to pending.
func (b *Board) Add(ctx context.Context, draft api.Task) (api.Task, error) {
	if draft.Status == "" {
		draft.Status = api.TaskPending
	}
	return b.store.Create(ctx, draft, b.api.CreateTask)
}

// Update patches a task optimistically.
func (b *Board) Update(ctx context.Context, id string, patch func(api.Task) api.Task) (api.Task, bool, error) {
	return b.store.Update(ctx, id, patch, b.api.UpdateTask)
}

// Complete marks a task completed, locally first.
func (b *Board) Complete(ctx context.Context, id string) (api.Task, bool, error) {
	patch := func(t api.Task) api.Task {
		t.Status = api.TaskCompleted
		return t
	}
	remote := func(ctx context.Context, _ api.Task) (api.Task, error) {
		return b.api.CompleteTask(ctx, id)
	}
	return b.store.Update(ctx, id, patch, remote)
}

// MarkOverdue flips a task to overdue, locally first.
func (b *Board) MarkOverdue(ctx context.Context, id string) (api.Task, bool, error) {
	patch := func(t api.Task) api.Task {
		t.Status = api.TaskOverdue
		return t
	}
	return b.store.Update(ctx, id, patch, b.api.UpdateTask)
}

// Remove deletes a task optimistically.
func (b *Board) Remove(ctx context.Context, id string) (bool, error) {
	return b.store.Delete(ctx, id, func(ctx context.Context) error {
		return b.api.DeleteTask(ctx, id)
	})
}

// All returns a snapshot of the task list.
func (b *Board) All() []api.Task { return b.store.Items() }

// Get returns the task with the given id, if known locally.
func (b *Board) Get(id string) (api.Task, bool) { return b.store.GetByID(id) }

// WithStatus returns the tasks currently in the given status.
func (b *Board) WithStatus(status string) []api.Task {
	return b.store.Filter(func(t api.Task) bool { return t.Status == status })
}

// ForClient returns the tasks assigned to one client.
func (b *Board) ForClient(clientID string) []api.Task {
	return b.store.Filter(func(t api.Task) bool { return t.ClientID == clientID })
}

// Count returns the task-list size.
func (b *Board) Count() int { return b.store.Count() }
