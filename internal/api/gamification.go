package api

import (
	"context"
	"fmt"

	"github.com/taskflow/tui/internal/model"
)

// GamificationProfile fetches the scoring summary for the current user.
func (c *Client) GamificationProfile(ctx context.Context) (*model.GamificationProfile, error) {
	var profile model.GamificationProfile
	if err := c.Get(ctx, "/gamification/profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Badges lists the badges the current user has unlocked.
func (c *Client) Badges(ctx context.Context) ([]model.Badge, error) {
	var badges []model.Badge
	if err := c.Get(ctx, "/gamification/badges", &badges); err != nil {
		return nil, err
	}
	return badges, nil
}

// GlobalRanking fetches the top entries of the global leaderboard.
func (c *Client) GlobalRanking(ctx context.Context, limit int) ([]model.RankingEntry, error) {
	var resp model.RankingResponse
	path := fmt.Sprintf("/gamification/ranking?limit=%d", limit)
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Rankings, nil
}

// ProjectRanking fetches the leaderboard scoped to a single project.
func (c *Client) ProjectRanking(ctx context.Context, projectID int64, limit int) ([]model.RankingEntry, error) {
	var resp model.RankingResponse
	path := fmt.Sprintf("/gamification/ranking/project/%d?limit=%d", projectID, limit)
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Rankings, nil
}
