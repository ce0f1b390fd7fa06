package api

import "context"

// ListTasks returns the trainer's task list.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	env, err := c.do(ctx, "GET", "/api/tasks", nil, "failed to load tasks")
	if err != nil {
		return nil, err
	}
	return decodeList[Task](env.collection()), nil
}

// CreateTask adds a task and returns the server's copy.
func (c *Client) CreateTask(ctx context.Context, t Task) (Task, error) {
	env, err := c.do(ctx, "POST", "/api/tasks", t, "failed to add task")
	if err != nil {
		return Task{}, err
	}
	return decodeOne[Task](env.Data)
}

// UpdateTask updates a task and returns the server's copy.
func (c *Client) UpdateTask(ctx context.Context, t Task) (Task, error) {
	env, err := c.do(ctx, "PUT", "/api/tasks/"+t.ID, t, "failed to update task")
	if err != nil {
		return Task{}, err
	}
	return decodeOne[Task](env.Data)
}

// CompleteTask marks a task completed and returns the server's copy.
func (c *Client) CompleteTask(ctx context.Context, id string) (Task, error) {
	env, err := c.do(ctx, "PATCH", "/api/tasks/"+id+"/complete", nil, "failed to complete task")
	if err != nil {
		return Task{}, err
	}
	return decodeOne[Task](env.Data)
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, "DELETE", "/api/tasks/"+id, nil, "failed to remove task")
	return err
}
