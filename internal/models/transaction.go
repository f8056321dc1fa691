package models

import "time"

// TransactionType represents the direction of a stock movement
type TransactionType string

const (
	TransactionTypeIssue  TransactionType = "issue"
	TransactionTypeReturn TransactionType = "return"
)

// Transaction is an immutable stock movement record. Rows are only ever
// inserted, never updated or deleted.
type Transaction struct {
	ID            int             `json:"id"`
	ItemID        int             `json:"item_id"`
	ItemName      string          `json:"item_name,omitempty"`
	UserID        int             `json:"user_id"`
	UserName      string          `json:"user_name,omitempty"`
	Type          TransactionType `json:"type"`
	Quantity      int             `json:"quantity"`
	ReferenceType string          `json:"reference_type,omitempty"` // 'allocation', 'borrowing', 'manual'
	ReferenceID   *int            `json:"reference_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateTransactionRequest represents the request body for a manual
// issue/return by an admin.
type CreateTransactionRequest struct {
	ItemID   int             `json:"item_id"`
	UserID   int             `json:"user_id"`
	Type     TransactionType `json:"type"`
	Quantity int             `json:"quantity"`
}
