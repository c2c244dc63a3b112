package model

import "time"

// Role identifies the server-side permission level of a user account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User represents an account on the TaskFlow server, including the
// gamification counters the server maintains for it.
type User struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`

	// Name is the display name shown across the UI.
	Name string `json:"name"`

	// Email is the login identity.
	Email string `json:"email"`

	// Role is the account's permission level.
	Role Role `json:"role"`

	// AvatarURL is an optional profile image location.
	AvatarURL string `json:"avatarUrl,omitempty"`

	// TotalPoints is the lifetime gamification score.
	TotalPoints int `json:"totalPoints"`

	// Level is the current gamification level number.
	Level int `json:"level"`

	// LevelName is the human-readable label for the current level.
	LevelName string `json:"levelName"`

	// CurrentStreak is the active consecutive-day activity streak.
	CurrentStreak int `json:"currentStreak"`

	// LongestStreak is the best streak ever recorded.
	LongestStreak int `json:"longestStreak"`

	// TasksCompleted counts tasks this user has finished.
	TasksCompleted int `json:"tasksCompleted"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"createdAt"`
}
