package api

import "context"

// ListDietPlans returns all diet plans across the trainer's clients.
func (c *Client) ListDietPlans(ctx context.Context) ([]DietPlan, error) {
	env, err := c.do(ctx, "GET", "/api/diet-plans", nil, "failed to load diet plans")
	if err != nil {
		return nil, err
	}
	return decodeList[DietPlan](env.collection()), nil
}

// CreateDietPlan adds a plan and returns the server's copy.
func (c *Client) CreateDietPlan(ctx context.Context, p DietPlan) (DietPlan, error) {
	env, err := c.do(ctx, "POST", "/api/diet-plans", p, "failed to create diet plan")
	if err != nil {
		return DietPlan{}, err
	}
	return decodeOne[DietPlan](env.Data)
}

// UpdateDietPlan updates a plan and returns the server's copy.
func (c *Client) UpdateDietPlan(ctx context.Context, p DietPlan) (DietPlan, error) {
	env, err := c.do(ctx, "PUT", "/api/diet-plans/"+p.ID, p, "failed to update diet plan")
	if err != nil {
		return DietPlan{}, err
	}
	return decodeOne[DietPlan](env.Data)
}

// DeleteDietPlan removes a plan.
func (c *Client) DeleteDietPlan(ctx context.Context, id string) error {
	_, err := c.do(ctx, "DELETE", "/api/diet-plans/"+id, nil, "failed to remove diet plan")
	return err
}

// ActivateDietPlan makes the plan the client's active one. The server
// deactivates the client's other plans and returns the activated plan.
func (c *Client) ActivateDietPlan(ctx context.Context, clientID, planID string) (DietPlan, error) {
	body := map[string]string{"plan_id": planID}
	env, err := c.do(ctx, "POST", "/api/diet-plans/client/"+clientID+"/activate", body, "failed to activate diet plan")
	if err != nil {
		return DietPlan{}, err
	}
	return decodeOne[DietPlan](env.Data)
}

// DeactivateDietPlan clears the client's active plan and returns the
// deactivated plan.
func (c *Client) DeactivateDietPlan(ctx context.Context, clientID, planID string) (DietPlan, error) {
	body := map[string]string{"plan_id": planID}
	env, err := c.do(ctx, "POST", "/api/diet-plans/client/"+clientID+"/deactivate", body, "failed to deactivate diet plan")
	if err != nil {
		return DietPlan{}, err
	}
	return decodeOne[DietPlan](env.Data)
}
