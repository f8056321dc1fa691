package models

import "time"

type Item struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`           // Total owned
	Available   int       `json:"available_quantity"` // On hand, not allocated/borrowed
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateItemRequest represents the request body for creating an item
type CreateItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// UpdateItemRequest represents the request body for updating an item.
// Quantity changes adjust available_quantity by the same delta so that
// outstanding allocations and borrowings stay accounted for.
type UpdateItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Quantity    *int   `json:"quantity,omitempty"`
}
