package models

import "time"

// Allocation reserves item quantity for a project without a specific borrower.
// Active allocations are claims against items.available_quantity.
type Allocation struct {
	ID                int       `json:"id"`
	ItemID            int       `json:"item_id"`
	ItemName          string    `json:"item_name,omitempty"`
	ProjectID         int       `json:"project_id"`
	ProjectName       string    `json:"project_name,omitempty"`
	AllocatedQuantity int       `json:"allocated_quantity"`
	AllocatedByUserID int       `json:"allocated_by_user_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// CreateAllocationRequest represents the request body for creating an allocation
type CreateAllocationRequest struct {
	ItemID            int `json:"item_id"`
	ProjectID         int `json:"project_id"`
	AllocatedQuantity int `json:"allocated_quantity"`
}
