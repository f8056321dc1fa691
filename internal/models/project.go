package models

import "time"

type Project struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerUserID int       `json:"owner_user_id"`
	OwnerName   string    `json:"owner_name,omitempty"` // Denormalized for display
	Status      string    `json:"status"`               // 'active' or 'archived'
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateProjectRequest represents the request body for updating a project
type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
