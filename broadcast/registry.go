package broadcast

import "sync"

// Well-known bus names, one per resource family.
const (
	Clients   = "clients"
	Sessions  = "sessions"
	Tasks     = "tasks"
	DietPlans = "dietplans"
)

// Registry manages named buses so independently constructed consumers (a
// resource store, the realtime feed, a widget) reach the same bus by name.
type Registry struct {
	mu    sync.Mutex
	buses map[string]*Bus
}

// NewRegistry creates a new bus registry.
func NewRegistry() *Registry {
	return &Registry{buses: make(map[string]*Bus)}
}

// Bus returns the bus for name, creating it on first use.
func (r *Registry) Bus(name string) *Bus {
	r.mu.Lock()
	defer r.mu.Unlock()

	bus, ok := r.buses[name]
	if !ok {
		bus = NewBus()
		r.buses[name] = bus
	}
	return bus
}

// List returns the names of all buses created so far.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.buses))
	for name := range r.buses {
		names = append(names, name)
	}
	return names
}
