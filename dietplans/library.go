// Package dietplans binds the optimistic store to the nutrition-plan
// endpoints, enforcing the single-active-plan-per-client invariant in
// local state ahead of server confirmation.
package dietplans

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

// DefaultTTL bounds plan cache freshness.
const DefaultTTL = 5 * time.Minute

// Options wires a Library to the application's shared collaborators.
type Options struct {
	Cache     cache.Store
	Buses     *broadcast.Registry
	Logger    zerolog.Logger
	Metrics   *metrics.Set
	OnRefresh func(trigger uint64)
	TTL       time.Duration // defaults to DefaultTTL
}

// Library is the diet-plan façade.
type Library struct {
	api   *api.Client
	store *store.Store[api.DietPlan]
}

// New creates a plan library façade and subscribes it to the dietplans bus.
func New(apiClient *api.Client, opts Options) *Library {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	var bus *broadcast.Bus
	if opts.Buses != nil {
		bus = opts.Buses.Bus(broadcast.DietPlans)
	}

	return &Library{
		api: apiClient,
		store: store.New[api.DietPlan](broadcast.DietPlans, store.Config{
			Cache:     opts.Cache,
			TTL:       ttl,
			Bus:       bus,
			OnRefresh: opts.OnRefresh,
			Logger:    opts.Logger,
			Metrics:   opts.Metrics,
		}),
	}
}

// Close unsubscribes the library from the refresh bus.
func (l *Library) Close() { l.store.Close() }

// Fetch loads the plans, from cache when fresh unless force is set.
func (l *Library) Fetch(ctx context.Context, force bool) ([]api.DietPlan, error) {
	return l.store.Fetch(ctx, force, l.api.ListDietPlans)
}

// Create adds a plan optimistically.
func (l *Library) Create(ctx context.Context, draft api.DietPlan) (api.DietPlan, error) {
	return l.store.Create(ctx, draft, l.api.CreateDietPlan)
}

// Update patches a plan optimistically.
func (l *Library) Update(ctx context.Context, id string, patch func(api.DietPlan) api.DietPlan) (api.DietPlan, bool, error) {
	return l.store.Update(ctx, id, patch, l.api.UpdateDietPlan)
}

// Remove deletes a plan optimistically.
func (l *Library) Remove(ctx context.Context, id string) (bool, error) {
	return l.store.Delete(ctx, id, func(ctx context.Context) error {
		return l.api.DeleteDietPlan(ctx, id)
	})
}

// Activate makes the plan its client's active one. Locally, every other
// plan for the same client is deactivated before the server confirms, so
// the single-active invariant holds for the UI immediately. ok is false
// when the plan is not known locally.
func (l *Library) Activate(ctx context.Context, planID string) (api.DietPlan, bool, error) {
	plan, found := l.store.GetByID(planID)
	if !found {
		return api.DietPlan{}, false, nil
	}
	clientID := plan.ClientID

	transform := func(items []api.DietPlan) []api.DietPlan {
		for i, p := range items {
			if p.ClientID != clientID {
				continue
			}
			if p.ID == planID {
				p.IsActive = true
				p.Pending = true
			} else {
				p.IsActive = false
			}
			items[i] = p
		}
		return items
	}
	remote := func(ctx context.Context) (api.DietPlan, error) {
		return l.api.ActivateDietPlan(ctx, clientID, planID)
	}

	confirmed, err := l.store.Transact(ctx, planID, transform, remote)
	if err != nil {
		return api.DietPlan{}, true, err
	}
	return confirmed, true, nil
}

// Deactivate clears the plan's active flag. ok is false when the plan is
// not known locally.
func (l *Library) Deactivate(ctx context.Context, planID string) (api.DietPlan, bool, error) {
	plan, found := l.store.GetByID(planID)
	if !found {
		return api.DietPlan{}, false, nil
	}
	clientID := plan.ClientID

	transform := func(items []api.DietPlan) []api.DietPlan {
		for i, p := range items {
			if p.ID == planID {
				p.IsActive = false
				p.Pending = true
				items[i] = p
			}
		}
		return items
	}
	remote := func(ctx context.Context) (api.DietPlan, error) {
		return l.api.DeactivateDietPlan(ctx, clientID, planID)
	}

	confirmed, err := l.store.Transact(ctx, planID, transform, remote)
	if err != nil {
		return api.DietPlan{}, true, err
	}
	return confirmed, true, nil
}

// All returns a snapshot of the plan collection.
func (l *Library) All() []api.DietPlan { return l.store.Items() }

// Get returns the plan with the given id, if known locally.
func (l *Library) Get(id string) (api.DietPlan, bool) { return l.store.GetByID(id) }

// ForClient returns one client's plans.
func (l *Library) ForClient(clientID string) []api.DietPlan {
	return l.store.Filter(func(p api.DietPlan) bool { return p.ClientID == clientID })
}

// ActiveFor returns the client's active plan, if any.
func (l *Library) ActiveFor(clientID string) (api.DietPlan, bool) {
	active := l.store.Filter(func(p api.DietPlan) bool {
		return p.ClientID == clientID && p.IsActive
	})
	if len(active) == 0 {
		return api.DietPlan{}, false
	}
	return active[0], true
}

// Count returns the plan-collection size.
func (l *Library) Count() int { return l.store.Count() }
