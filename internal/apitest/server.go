// Package apitest provides an in-memory fake of the coaching platform API
// for tests: the full endpoint surface the SDK consumes, with per-route
// failure injection and call counting.
package apitest

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/coachkit/coachkit/api"
)

// Server is the fake API. Zero-value maps are initialized by New; seed
// state through the Seed helpers before starting it with httptest.
type Server struct {
	Handler *chi.Mux

	mu       sync.Mutex
	clients  []api.Athlete
	sessions []api.Session
	tasks    []api.Task
	plans    []api.DietPlan
	invites  []string

	calls    map[string]int
	failures map[string]string
	nextIDs  []string
}

// New creates a fake API server with empty state.
func New() *Server {
	s := &Server{
		calls:    make(map[string]int),
		failures: make(map[string]string),
	}

	r := chi.NewRouter()

	r.Route("/api/trainer/clients", func(r chi.Router) {
		r.Get("/", s.listClients)
		r.Post("/", s.createClient)
		r.Post("/invite", s.invite)
		r.Put("/{id}", s.updateClient)
		r.Delete("/{id}", s.deleteClient)
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Put("/{id}", s.updateSession)
		r.Put("/{id}/time", s.updateSessionTime)
		r.Delete("/{id}", s.deleteSession)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.createTask)
		r.Put("/{id}", s.updateTask)
		r.Patch("/{id}/complete", s.completeTask)
		r.Delete("/{id}", s.deleteTask)
	})

	r.Route("/api/diet-plans", func(r chi.Router) {
		r.Get("/", s.listPlans)
		r.Post("/", s.createPlan)
		r.Put("/{id}", s.updatePlan)
		r.Delete("/{id}", s.deletePlan)
		r.Post("/client/{clientID}/activate", s.activatePlan)
		r.Post("/client/{clientID}/deactivate", s.deactivatePlan)
	})

	s.Handler = r
	return s
}

// FailNext makes the next call to the given route fail with a 500 carrying
// message. Route keys look like "POST /api/tasks".
func (s *Server) FailNext(route, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = message
}

// Calls returns how many times a route was hit.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// SetNextIDs queues the ids the server will issue for upcoming creates,
// falling back to UUIDs when exhausted.
func (s *Server) SetNextIDs(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextIDs = append(s.nextIDs, ids...)
}

// SeedClients replaces the stored roster.
func (s *Server) SeedClients(clients ...api.Athlete) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append([]api.Athlete(nil), clients...)
}

// SeedSessions replaces the stored schedule.
func (s *Server) SeedSessions(sessions ...api.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append([]api.Session(nil), sessions...)
}

// SeedTasks replaces the stored task list.
func (s *Server) SeedTasks(tasks ...api.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]api.Task(nil), tasks...)
}

// SeedDietPlans replaces the stored plans.
func (s *Server) SeedDietPlans(plans ...api.DietPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = append([]api.DietPlan(nil), plans...)
}

// Invites returns the emails invited so far.
func (s *Server) Invites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.invites...)
}

// begin records the call and reports whether the handler should proceed.
// On a true return s.mu is still held; handlers defer the unlock. On a
// false return the injected failure has already been written.
func (s *Server) begin(w http.ResponseWriter, r *http.Request, route string) bool {
	s.mu.Lock()
	s.calls[route]++
	if msg, ok := s.failures[route]; ok {
		delete(s.failures, route)
		s.mu.Unlock()
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": msg,
		})
		return false
	}
	return true
}

func (s *Server) issueID() string {
	if len(s.nextIDs) > 0 {
		id := s.nextIDs[0]
		s.nextIDs = s.nextIDs[1:]
		return id
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeBody(r *http.Request, out any) {
	_ = json.NewDecoder(r.Body).Decode(out)
}
