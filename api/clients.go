package api

import "context"

// ListClients returns the trainer's roster. Missing or malformed server
// data yields an empty roster, never an error.
func (c *Client) ListClients(ctx context.Context) ([]Athlete, error) {
	env, err := c.do(ctx, "GET", "/api/trainer/clients", nil, "failed to load clients")
	if err != nil {
		return nil, err
	}
	return decodeList[Athlete](env.collection()), nil
}

// CreateClient adds an athlete to the roster and returns the server's copy.
func (c *Client) CreateClient(ctx context.Context, athlete Athlete) (Athlete, error) {
	env, err := c.do(ctx, "POST", "/api/trainer/clients", athlete, "failed to add client")
	if err != nil {
		return Athlete{}, err
	}
	return decodeOne[Athlete](env.Data)
}

// UpdateClient updates a roster entry and returns the server's copy.
func (c *Client) UpdateClient(ctx context.Context, athlete Athlete) (Athlete, error) {
	env, err := c.do(ctx, "PUT", "/api/trainer/clients/"+athlete.ID, athlete, "failed to update client")
	if err != nil {
		return Athlete{}, err
	}
	return decodeOne[Athlete](env.Data)
}

// DeleteClient removes an athlete from the roster.
func (c *Client) DeleteClient(ctx context.Context, id string) error {
	_, err := c.do(ctx, "DELETE", "/api/trainer/clients/"+id, nil, "failed to remove client")
	return err
}

// InviteClient emails a signup invitation. Side-channel: the roster is
// unchanged until the invitee accepts.
func (c *Client) InviteClient(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	_, err := c.do(ctx, "POST", "/api/trainer/clients/invite", body, "failed to send invite")
	return err
}
