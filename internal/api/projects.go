package api

import (
	"context"
	"fmt"

	"github.com/taskflow/tui/internal/model"
)

// ProjectRequest carries the writable fields of a project.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Projects lists all projects visible to the authenticated user.
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.Get(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project fetches a single project by id.
func (c *Client) Project(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	if err := c.Get(ctx, fmt.Sprintf("/projects/%d", id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a new project owned by the current user.
func (c *Client) CreateProject(ctx context.Context, req ProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := c.Post(ctx, "/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject replaces the writable fields of a project.
func (c *Client) UpdateProject(ctx context.Context, id int64, req ProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := c.Put(ctx, fmt.Sprintf("/projects/%d", id), req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/projects/%d", id))
}

// AddProjectMember adds a user to a project's member list.
func (c *Client) AddProjectMember(ctx context.Context, projectID, userID int64) (*model.Project, error) {
	var project model.Project
	path := fmt.Sprintf("/projects/%d/members/%d", projectID, userID)
	if err := c.Post(ctx, path, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// RemoveProjectMember removes a user from a project's member list.
func (c *Client) RemoveProjectMember(ctx context.Context, projectID, userID int64) error {
	return c.Delete(ctx, fmt.Sprintf("/projects/%d/members/%d", projectID, userID))
}
