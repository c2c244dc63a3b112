package model

import "time"

// Badge represents an achievement that can be unlocked by a user.
type Badge struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// GamificationProfile is the full scoring summary for the current user.
type GamificationProfile struct {
	UserID             int64   `json:"userId"`
	UserName           string  `json:"userName"`
	TotalPoints        int     `json:"totalPoints"`
	Level              int     `json:"level"`
	LevelName          string  `json:"levelName"`
	PointsToNextLevel  int     `json:"pointsToNextLevel"`
	NextLevelThreshold int     `json:"nextLevelThreshold"`
	ProgressPercentage float64 `json:"progressPercentage"`
	CurrentStreak      int     `json:"currentStreak"`
	LongestStreak      int     `json:"longestStreak"`
	TasksCompleted     int     `json:"tasksCompleted"`
	ProjectsCount      int     `json:"projectsCount"`
	CommentsCount      int     `json:"commentsCount"`
	RecentBadges       []Badge `json:"recentBadges"`
	TotalBadges        int     `json:"totalBadges"`
	GlobalRankPosition int     `json:"globalRankPosition"`
}

// RankingEntry is a single row in the global or per-project leaderboard.
type RankingEntry struct {
	Position       int    `json:"position"`
	UserID         int64  `json:"userId"`
	UserName       string `json:"userName"`
	Level          int    `json:"level"`
	LevelName      string `json:"levelName"`
	TotalPoints    int    `json:"totalPoints"`
	TasksCompleted int    `json:"tasksCompleted"`
	CurrentStreak  int    `json:"currentStreak"`
}

// RankingResponse wraps a leaderboard page with its participant count.
type RankingResponse struct {
	Rankings          []RankingEntry `json:"rankings"`
	TotalParticipants int            `json:"totalParticipants"`
}
