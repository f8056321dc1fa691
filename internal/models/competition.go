package models

import "time"

type Competition struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedBy   int        `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CompetitionItem reserves item quantity for a competition's equipment pool.
// Adding one claims stock through the ledger; removing it releases the claim.
type CompetitionItem struct {
	ID            int       `json:"id"`
	CompetitionID int       `json:"competition_id"`
	ItemID        int       `json:"item_id"`
	ItemName      string    `json:"item_name,omitempty"`
	Quantity      int       `json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCompetitionRequest represents the request body for creating a competition
type CreateCompetitionRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// AddCompetitionItemRequest represents the request body for adding an item
// to a competition's pool
type AddCompetitionItemRequest struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}
