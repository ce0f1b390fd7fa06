// Package sessions binds the optimistic store to the scheduling endpoints.
package sessions

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

// DefaultTTL bounds schedule cache freshness. Shorter than the roster's:
// the calendar churns more.
const DefaultTTL = 3 * time.Minute

// timeLayouts are the session timestamp formats the platform emits.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// Options wires a Calendar to the application's shared collaborators.
type Options struct {
	Cache     cache.Store
	Buses     *broadcast.Registry
	Logger    zerolog.Logger
	Metrics   *metrics.Set
	OnRefresh func(trigger uint64)
	TTL       time.Duration // defaults to DefaultTTL
}

// Calendar is the session-schedule façade.
type Calendar struct {
	api   *api.Client
	store *store.Store[api.Session]
}

// New creates a calendar façade and subscribes it to the sessions bus.
func New(apiClient *api.Client, opts Options) *Calendar {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	var bus *broadcast.Bus
	if opts.Buses != nil {
		bus = opts.Buses.Bus(broadcast.Sessions)
	}

	return &Calendar{
		api: apiClient,
		store: store.New[api.Session](broadcast.Sessions, store.Config{
			Cache:     opts.Cache,
			TTL:       ttl,
			Bus:       bus,
			OnRefresh: opts.OnRefresh,
			Logger:    opts.Logger,
			Metrics:   opts.Metrics,
		}),
	}
}

// Close unsubscribes the calendar from the refresh bus.
func (c *Calendar) Close() { c.store.Close() }

// Fetch loads the schedule, from cache when fresh unless force is set.
func (c *Calendar) Fetch(ctx context.Context, force bool) ([]api.Session, error) {
	return c.store.Fetch(ctx, force, c.api.ListSessions)
}

// Schedule creates a session optimistically.
func (c *Calendar) Schedule(ctx context.Context, draft api.Session) (api.Session, error) {
	return c.store.Create(ctx, draft, c.api.CreateSession)
}

// Update patches a session optimistically.
func (c *Calendar) Update(ctx context.Context, id string, patch func(api.Session) api.Session) (api.Session, bool, error) {
	return c.store.Update(ctx, id, patch, c.api.UpdateSession)
}

// Reschedule moves a session to new start and end times, recomputing its
// duration from the bounds. The mutation is silent: drag interactions
// reschedule repeatedly and the pending flag would flicker.
func (c *Calendar) Reschedule(ctx context.Context, id, startTime, endTime string) (api.Session, bool, error) {
	patch := func(s api.Session) api.Session {
		s.StartTime = startTime
		s.EndTime = endTime
		if minutes, ok := durationMinutes(startTime, endTime); ok {
			s.DurationMinutes = minutes
		}
		return s
	}
	remote := func(ctx context.Context, s api.Session) (api.Session, error) {
		return c.api.UpdateSessionTime(ctx, id, s.StartTime, s.EndTime, s.DurationMinutes)
	}
	return c.store.Update(ctx, id, patch, remote, store.Silent())
}

// Cancel deletes a session optimistically.
func (c *Calendar) Cancel(ctx context.Context, id string) (bool, error) {
	return c.store.Delete(ctx, id, func(ctx context.Context) error {
		return c.api.DeleteSession(ctx, id)
	})
}

// All returns a snapshot of the schedule.
func (c *Calendar) All() []api.Session { return c.store.Items() }

// Get returns the session with the given id, if known locally.
func (c *Calendar) Get(id string) (api.Session, bool) { return c.store.GetByID(id) }

// ForClient returns the sessions scheduled for one client.
func (c *Calendar) ForClient(clientID string) []api.Session {
	return c.store.Filter(func(s api.Session) bool { return s.ClientID == clientID })
}

// Count returns the schedule size.
func (c *Calendar) Count() int { return c.store.Count() }

// durationMinutes computes the minutes between two session timestamps.
// ok is false when either timestamp fails to parse; callers keep the
// previous duration in that case.
func durationMinutes(startTime, endTime string) (int, bool) {
	start, ok1 := parseSessionTime(startTime)
	end, ok2 := parseSessionTime(endTime)
	if !ok1 || !ok2 || end.Before(start) {
		return 0, false
	}
	return int(end.Sub(start).Minutes()), true
}

func parseSessionTime(value string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
