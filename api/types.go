package api

import (
	"encoding/json"

	"github.com/coachkit/coachkit/store"
)

// Athlete is a coached client on the trainer's roster. The wire protocol
// calls the resource "clients"; internally we follow the platform's domain
// vocabulary to keep the name clear of the API client type.
type Athlete struct {
	store.Meta
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Goal   string `json:"goal,omitempty"`
	Status string `json:"status,omitempty"`
}

func (a Athlete) EntityID() string { return a.ID }

func (a Athlete) WithEntityID(id string) Athlete { a.ID = id; return a }

func (a Athlete) WithPending(p bool) Athlete { a.Pending = p; return a }

func (a Athlete) WithDeleting(d bool) Athlete { a.Deleting = d; return a }

// Session is a scheduled training session.
type Session struct {
	store.Meta
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status,omitempty"`
}

func (s Session) EntityID() string { return s.ID }

func (s Session) WithEntityID(id string) Session { s.ID = id; return s }

func (s Session) WithPending(p bool) Session { s.Pending = p; return s }

func (s Session) WithDeleting(d bool) Session { s.Deleting = d; return s }

// Task statuses.
const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
	TaskOverdue   = "overdue"
)

// Task is a to-do assigned to a client.
type Task struct {
	store.Meta
	ID       string `json:"id"`
	ClientID string `json:"client_id,omitempty"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}

func (t Task) EntityID() string { return t.ID }

func (t Task) WithEntityID(id string) Task { t.ID = id; return t }

func (t Task) WithPending(p bool) Task { t.Pending = p; return t }

func (t Task) WithDeleting(d bool) Task { t.Deleting = d; return t }

// DietPlan is a nutrition plan for one client. At most one plan per client
// is active at a time.
type DietPlan struct {
	store.Meta
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	Title       string `json:"title"`
	MealsPerDay int    `json:"meals_per_day"`
	IsActive    bool   `json:"is_active"`
}

func (p DietPlan) EntityID() string { return p.ID }

func (p DietPlan) WithEntityID(id string) DietPlan { p.ID = id; return p }

func (p DietPlan) WithPending(pd bool) DietPlan { p.Pending = pd; return p }

func (p DietPlan) WithDeleting(d bool) DietPlan { p.Deleting = d; return p }

// envelope matches the platform's response shape. Collections arrive under
// a resource-specific key; single entities under data.
type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Clients  json.RawMessage `json:"clients,omitempty"`
	Sessions json.RawMessage `json:"sessions,omitempty"`
	Tasks    json.RawMessage `json:"tasks,omitempty"`
	Plans    json.RawMessage `json:"plans,omitempty"`
}

// collection returns the first populated collection key, falling back to
// data. Nil means the envelope carried no collection.
func (e *envelope) collection() json.RawMessage {
	for _, raw := range []json.RawMessage{e.Clients, e.Sessions, e.Tasks, e.Plans, e.Data} {
		if len(raw) > 0 {
			return raw
		}
	}
	return nil
}
