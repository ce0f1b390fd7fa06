package apitest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coachkit/coachkit/api"
)

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "GET /api/trainer/clients") {
		return
	}
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "clients": s.clients})
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "POST /api/trainer/clients") {
		return
	}
	defer s.mu.Unlock()

	var c api.Athlete
	decodeBody(r, &c)
	c.ID = s.issueID()
	s.clients = append(s.clients, c)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": c})
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "PUT /api/trainer/clients/{id}") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	var c api.Athlete
	decodeBody(r, &c)
	c.ID = id
	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients[i] = c
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": c})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "client not found"})
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "DELETE /api/trainer/clients/{id}") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	kept := s.clients[:0]
	for _, c := range s.clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.clients = kept
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) invite(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "POST /api/trainer/clients/invite") {
		return
	}
	defer s.mu.Unlock()

	var body struct {
		Email string `json:"email"`
	}
	decodeBody(r, &body)
	s.invites = append(s.invites, body.Email)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "invite sent"})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "GET /api/sessions") {
		return
	}
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "sessions": s.sessions})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "POST /api/sessions") {
		return
	}
	defer s.mu.Unlock()

	var sess api.Session
	decodeBody(r, &sess)
	sess.ID = s.issueID()
	s.sessions = append(s.sessions, sess)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": sess})
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "PUT /api/sessions/{id}") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	var sess api.Session
	decodeBody(r, &sess)
	sess.ID = id
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i] = sess
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": sess})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "session not found"})
}

func (s *Server) updateSessionTime(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "PUT /api/sessions/{id}/time") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	var body struct {
		StartTime       string `json:"start_time"`
		EndTime         string `json:"end_time"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	decodeBody(r, &body)
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].StartTime = body.StartTime
			s.sessions[i].EndTime = body.EndTime
			s.sessions[i].DurationMinutes = body.DurationMinutes
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s.sessions[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "session not found"})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "DELETE /api/sessions/{id}") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "GET /api/tasks") {
		return
	}
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tasks": s.tasks})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "POST /api/tasks") {
		return
	}
	defer s.mu.Unlock()

	var t api.Task
	decodeBody(r, &t)
	t.ID = s.issueID()
	s.tasks = append(s.tasks, t)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": t})
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "PUT /api/tasks/{id}") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	var t api.Task
	decodeBody(r, &t)
	t.ID = id
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = t
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": t})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "task not found"})
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "PATCH /api/tasks/{id}/complete") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Status = api.TaskCompleted
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s.tasks[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "task not found"})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "DELETE /api/tasks/{id}") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "GET /api/diet-plans") {
		return
	}
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "plans": s.plans})
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "POST /api/diet-plans") {
		return
	}
	defer s.mu.Unlock()

	var p api.DietPlan
	decodeBody(r, &p)
	p.ID = s.issueID()
	s.plans = append(s.plans, p)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": p})
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "PUT /api/diet-plans/{id}") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	var p api.DietPlan
	decodeBody(r, &p)
	p.ID = id
	for i := range s.plans {
		if s.plans[i].ID == id {
			s.plans[i] = p
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": p})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "diet plan not found"})
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "DELETE /api/diet-plans/{id}") {
		return
	}
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	kept := s.plans[:0]
	for _, p := range s.plans {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.plans = kept
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) activatePlan(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "POST /api/diet-plans/client/{clientID}/activate") {
		return
	}
	defer s.mu.Unlock()

	clientID := chi.URLParam(r, "clientID")
	var body struct {
		PlanID string `json:"plan_id"`
	}
	decodeBody(r, &body)

	var activated *api.DietPlan
	for i := range s.plans {
		if s.plans[i].ClientID != clientID {
			continue
		}
		s.plans[i].IsActive = s.plans[i].ID == body.PlanID
		if s.plans[i].IsActive {
			activated = &s.plans[i]
		}
	}
	if activated == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "diet plan not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": *activated})
}

func (s *Server) deactivatePlan(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, "POST /api/diet-plans/client/{clientID}/deactivate") {
		return
	}
	defer s.mu.Unlock()

	var body struct {
		PlanID string `json:"plan_id"`
	}
	decodeBody(r, &body)

	for i := range s.plans {
		if s.plans[i].ID == body.PlanID {
			s.plans[i].IsActive = false
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s.plans[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "diet plan not found"})
}
