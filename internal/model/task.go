package model

import "time"

// TaskStatus is the Kanban column a task currently sits in.
type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "TODO"
	TaskStatusDoing TaskStatus = "DOING"
	TaskStatusDone  TaskStatus = "DONE"
)

// TaskPriority is the server-side priority classification.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// UserRef is the abbreviated user reference embedded in task responses.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Task represents a single task as returned by the TaskFlow server.
type Task struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`

	// Title is the short task summary.
	Title string `json:"title"`

	// Description is the long-form task body.
	Description string `json:"description"`

	// Status is the current Kanban column.
	Status TaskStatus `json:"status"`

	// Priority is the task's priority classification.
	Priority TaskPriority `json:"priority"`

	// Deadline is the optional due date.
	Deadline *time.Time `json:"deadline,omitempty"`

	// CompletedAt is set once the task reaches DONE.
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// IsOverdue reports whether the deadline has passed without completion.
	IsOverdue bool `json:"isOverdue"`

	// PointsAwarded is the gamification score granted on completion.
	PointsAwarded int `json:"pointsAwarded"`

	// ProjectID is the owning project's identifier.
	ProjectID int64 `json:"projectId"`

	// ProjectName is the owning project's title.
	ProjectName string `json:"projectName"`

	// Assignee is the user the task is assigned to, if any.
	Assignee *UserRef `json:"assignee,omitempty"`

	// Reporter is the user who created the task.
	Reporter UserRef `json:"reporter"`

	// CommentCount is the number of comments on the task.
	CommentCount int `json:"commentCount"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment represents a single comment in a task's discussion thread.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Author    User      `json:"author"`
	TaskID    int64     `json:"taskId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
