package model

import "time"

// Project represents a TaskFlow project with its owner and member list.
type Project struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`

	// Name is the project title.
	Name string `json:"name"`

	// Description is the free-form project summary.
	Description string `json:"description"`

	// Owner is the user who created the project.
	Owner User `json:"owner"`

	// Members are the users with access to the project.
	Members []User `json:"members"`

	// CreatedAt is when the project was created on the server.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the project was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}
