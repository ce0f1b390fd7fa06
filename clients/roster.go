// Package clients binds the optimistic store to the trainer's client
// roster endpoints.
package clients

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coachkit/coachkit/api"
	"github.com/coachkit/coachkit/broadcast"
	"github.com/coachkit/coachkit/cache"
	"github.com/coachkit/coachkit/internal/metrics"
	"github.com/coachkit/coachkit/store"
)

// DefaultTTL bounds roster cache freshness.
const DefaultTTL = 5 * time.Minute

// Options wires a Roster to the application's shared collaborators.
type Options struct {
	Cache     cache.Store
	Buses     *broadcast.Registry
	Logger    zerolog.Logger
	Metrics   *metrics.Set
	OnRefresh func(trigger uint64)
	TTL       time.Duration // defaults to DefaultTTL
}

// Roster is the client-roster façade. Multiple Roster instances sharing a
// cache and bus registry see each other's writes.
type Roster struct {
	api   *api.Client
	store *store.Store[api.Athlete]
}

// New creates a roster façade and subscribes it to the clients bus.
func New(apiClient *api.Client, opts Options) *Roster {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	var bus *broadcast.Bus
	if opts.Buses != nil {
		bus = opts.Buses.Bus(broadcast.Clients)
	}

	return &Roster{
		api: apiClient,
		store: store.New[api.Athlete](broadcast.Clients, store.Config{
			Cache:     opts.Cache,
			TTL:       ttl,
			Bus:       bus,
			OnRefresh: opts.OnRefresh,
			Logger:    opts.Logger,
			Metrics:   opts.Metrics,
		}),
	}
}

// Close unsubscribes the roster from the refresh bus.
func (r *Roster) Close() { r.store.Close() }

// Fetch loads the roster, from cache when fresh unless force is set.
func (r *Roster) Fetch(ctx context.Context, force bool) ([]api.Athlete, error) {
	return r.store.Fetch(ctx, force, r.api.ListClients)
}

// Add creates a client optimistically.
func (r *Roster) Add(ctx context.Context, draft api.Athlete) (api.Athlete, error) {
	return r.store.Create(ctx, draft, r.api.CreateClient)
}

// Update patches a client optimistically. ok is false when the client is
// not in the local roster.
func (r *Roster) Update(ctx context.Context, id string, patch func(api.Athlete) api.Athlete) (api.Athlete, bool, error) {
	return r.store.Update(ctx, id, patch, r.api.UpdateClient)
}

// Remove deletes a client optimistically. ok is false when the client is
// not in the local roster.
func (r *Roster) Remove(ctx context.Context, id string) (bool, error) {
	return r.store.Delete(ctx, id, func(ctx context.Context) error {
		return r.api.DeleteClient(ctx, id)
	})
}

// Invite emails a signup invitation. Side-channel: no cache write, no
// broadcast; the roster changes only once the invitee accepts.
func (r *Roster) Invite(ctx context.Context, email string) error {
	return r.api.InviteClient(ctx, email)
}

// All returns a snapshot of the roster.
func (r *Roster) All() []api.Athlete { return r.store.Items() }

// Get returns the client with the given id, if known locally.
func (r *Roster) Get(id string) (api.Athlete, bool) { return r.store.GetByID(id) }

// ByEmail returns the client with the given email, case-insensitively.
func (r *Roster) ByEmail(email string) (api.Athlete, bool) {
	matches := r.store.Filter(func(c api.Athlete) bool {
		return strings.EqualFold(c.Email, email)
	})
	if len(matches) == 0 {
		return api.Athlete{}, false
	}
	return matches[0], true
}

// Count returns the roster size.
func (r *Roster) Count() int { return r.store.Count() }
