package models

import "time"

type Assignment struct {
	ID            int        `json:"id"`
	CompetitionID *int       `json:"competition_id,omitempty"`
	ProjectID     *int       `json:"project_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	CreatedBy     int        `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Submission is a member's response to an assignment. ObjectKey points at the
// uploaded file in the object store when one was attached.
type Submission struct {
	ID           int       `json:"id"`
	AssignmentID int       `json:"assignment_id"`
	UserID       int       `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	Notes        string    `json:"notes"`
	ObjectKey    *string   `json:"object_key,omitempty"`
	FileName     *string   `json:"file_name,omitempty"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// CreateAssignmentRequest represents the request body for creating an assignment
type CreateAssignmentRequest struct {
	CompetitionID *int       `json:"competition_id,omitempty"`
	ProjectID     *int       `json:"project_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueAt         *time.Time `json:"due_at,omitempty"`
}
