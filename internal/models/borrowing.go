package models

import "time"

// Borrowing records a user holding a quantity of an item until returned.
// ActualReturnDate is nil while the borrowing is open. ItemID is nil for
// free-text tool borrowings that are not tracked in the item ledger.
type Borrowing struct {
	ID                 int        `json:"id"`
	ItemID             *int       `json:"item_id,omitempty"`
	ToolName           string     `json:"tool_name"`
	UserID             int        `json:"user_id"`
	UserName           string     `json:"user_name,omitempty"`
	Quantity           int        `json:"quantity"`
	BorrowDate         time.Time  `json:"borrow_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	ReturnNotes        string     `json:"return_notes,omitempty"`
	RequestID          *int       `json:"request_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Open reports whether the borrowing has not been returned yet.
func (b *Borrowing) Open() bool { return b.ActualReturnDate == nil }

// CreateBorrowingRequest represents the request body for issuing a borrowing
// directly (admin), without going through the request approval flow.
type CreateBorrowingRequest struct {
	ItemID             *int       `json:"item_id,omitempty"`
	ToolName           string     `json:"tool_name"`
	UserID             int        `json:"user_id"`
	Quantity           int        `json:"quantity"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
}

// ReturnBorrowingRequest represents the request body for returning a borrowing
type ReturnBorrowingRequest struct {
	Notes string `json:"notes,omitempty"`
}
