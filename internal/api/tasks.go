package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/taskflow/tui/internal/model"
)

// TaskRequest carries the writable fields of a task.
type TaskRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      model.TaskStatus   `json:"status,omitempty"`
	Priority    model.TaskPriority `json:"priority"`
	ProjectID   int64              `json:"projectId"`
	AssigneeID  *int64             `json:"assigneeId,omitempty"`
	Deadline    string             `json:"deadline,omitempty"`
}

// TasksByProject lists the tasks belonging to a project.
func (c *Client) TasksByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.Get(ctx, fmt.Sprintf("/tasks/project/%d", projectID), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Task fetches a single task by id.
func (c *Client) Task(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	if err := c.Get(ctx, fmt.Sprintf("/tasks/%d", id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a new task in the given project.
func (c *Client) CreateTask(ctx context.Context, req TaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.Post(ctx, "/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces the writable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, req TaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.Put(ctx, fmt.Sprintf("/tasks/%d", id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus moves a task to another Kanban column.
func (c *Client) UpdateTaskStatus(ctx context.Context, id int64, status model.TaskStatus) (*model.Task, error) {
	var task model.Task
	path := fmt.Sprintf("/tasks/%d/status?status=%s", id, url.QueryEscape(string(status)))
	if err := c.Patch(ctx, path, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AssignTask assigns a task to a user.
func (c *Client) AssignTask(ctx context.Context, taskID, userID int64) (*model.Task, error) {
	var task model.Task
	body := map[string]int64{"userId": userID}
	if err := c.Patch(ctx, fmt.Sprintf("/tasks/%d/assign", taskID), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/tasks/%d", id))
}
