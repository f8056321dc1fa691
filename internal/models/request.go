package models

import "time"

// RequestStatus represents the lifecycle state of a tool request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s RequestStatus) Terminal() bool { return s != RequestStatusPending }

// Request is a member's ask to borrow a tool, subject to admin approval.
// Transitions are one-way: pending → approved | rejected | cancelled.
type Request struct {
	ID                 int           `json:"id"`
	UserID             int           `json:"user_id"`
	UserName           string        `json:"user_name,omitempty"`
	ToolName           string        `json:"tool_name"`
	ItemID             *int          `json:"item_id,omitempty"`
	Quantity           int           `json:"quantity"`
	Reason             string        `json:"reason"`
	Status             RequestStatus `json:"status"`
	RequestedAt        time.Time     `json:"requested_at"`
	ExpectedReturnDate *time.Time    `json:"expected_return_date,omitempty"`
	ResolvedAt         *time.Time    `json:"resolved_at,omitempty"`
	ResolvedBy         *int          `json:"resolved_by,omitempty"`
	CancellationReason *string       `json:"cancellation_reason,omitempty"`
	BorrowingID        *int          `json:"borrowing_id,omitempty"`
}

// CreateRequestRequest represents the request body for creating a tool request
type CreateRequestRequest struct {
	ToolName           string     `json:"tool_name"`
	ItemID             *int       `json:"item_id,omitempty"`
	Quantity           int        `json:"quantity"`
	Reason             string     `json:"reason"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
}

// ResolveRequestRequest represents the request body for reject/cancel
type ResolveRequestRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ApproveRequestResponse bundles the updated request with the borrowing it created
type ApproveRequestResponse struct {
	Request   *Request   `json:"request"`
	Borrowing *Borrowing `json:"borrowing"`
}
