package api

import "context"

// ListSessions returns the trainer's scheduled sessions.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	env, err := c.do(ctx, "GET", "/api/sessions", nil, "failed to load sessions")
	if err != nil {
		return nil, err
	}
	return decodeList[Session](env.collection()), nil
}

// CreateSession schedules a session and returns the server's copy.
func (c *Client) CreateSession(ctx context.Context, s Session) (Session, error) {
	env, err := c.do(ctx, "POST", "/api/sessions", s, "failed to schedule session")
	if err != nil {
		return Session{}, err
	}
	return decodeOne[Session](env.Data)
}

// UpdateSession updates a session and returns the server's copy.
func (c *Client) UpdateSession(ctx context.Context, s Session) (Session, error) {
	env, err := c.do(ctx, "PUT", "/api/sessions/"+s.ID, s, "failed to update session")
	if err != nil {
		return Session{}, err
	}
	return decodeOne[Session](env.Data)
}

// UpdateSessionTime moves a session to new start and end times. The server
// recomputes nothing: duration travels with the request.
func (c *Client) UpdateSessionTime(ctx context.Context, id, startTime, endTime string, durationMinutes int) (Session, error) {
	body := map[string]any{
		"start_time":       startTime,
		"end_time":         endTime,
		"duration_minutes": durationMinutes,
	}
	env, err := c.do(ctx, "PUT", "/api/sessions/"+id+"/time", body, "failed to reschedule session")
	if err != nil {
		return Session{}, err
	}
	return decodeOne[Session](env.Data)
}

// DeleteSession cancels a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	_, err := c.do(ctx, "DELETE", "/api/sessions/"+id, nil, "failed to cancel session")
	return err
}
