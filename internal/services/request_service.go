package services

import (
	"context"
	"fmt"

	"labstock/internal/apperror"
	"labstock/internal/metrics"
	"labstock/internal/models"
)

// RequestService runs the request lifecycle. Every transition out of pending
// is terminal. This layer checks the current state and the permission rules;
// the repository repeats the pending guard inside its transactions, which is
// what holds under concurrent resolution.
type RequestService struct {
	RequestRepo RequestStore
	LedgerRepo  LedgerStore
	ItemRepo    ItemStore
	Audit       *AuditService
}

func NewRequestService(
	requestRepo RequestStore,
	ledgerRepo LedgerStore,
	itemRepo ItemStore,
	audit *AuditService,
) *RequestService {
	return &RequestService{
		RequestRepo: requestRepo,
		LedgerRepo:  ledgerRepo,
		ItemRepo:    itemRepo,
		Audit:       audit,
	}
}

// Create submits a new pending request on behalf of a member
func (s *RequestService) Create(ctx context.Context, in *models.CreateRequestRequest, userID int, username string) (*models.Request, error) {
	if in.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be positive")
	}
	if in.ToolName == "" && in.ItemID == nil {
		return nil, apperror.Validation("tool_name or item_id required")
	}
	if in.Reason == "" {
		return nil, apperror.Validation("reason is required")
	}

	toolName := in.ToolName
	if in.ItemID != nil {
		// Catalog-backed requests snapshot the item name at submission time
		item, err := s.ItemRepo.Get(ctx, *in.ItemID)
		if err != nil {
			return nil, err
		}
		toolName = item.Name
	}

	req := &models.Request{
		UserID:             userID,
		UserName:           username,
		ToolName:           toolName,
		ItemID:             in.ItemID,
		Quantity:           in.Quantity,
		Reason:             in.Reason,
		ExpectedReturnDate: in.ExpectedReturnDate,
	}
	if err := s.RequestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, userID, username, "REQUEST_CREATED",
		fmt.Sprintf("Requested %d × %q: %s", req.Quantity, req.ToolName, req.Reason))
	return req, nil
}

// Approve grants a pending request, claiming stock and issuing the borrowing
// atomically. On insufficient stock the request stays pending.
func (s *RequestService) Approve(ctx context.Context, requestID, adminID int, adminName string) (*models.ApproveRequestResponse, error) {
	existing, err := s.RequestRepo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing.Status.Terminal() {
		return nil, apperror.ErrInvalidState
	}

	req, borrowing, err := s.RequestRepo.Approve(ctx, requestID, adminID)
	if err := observeClaim(err); err != nil {
		return nil, err
	}

	if n, err := s.LedgerRepo.CountOpenBorrowings(ctx); err == nil {
		metrics.OpenBorrowings.Set(float64(n))
	}
	s.Audit.Record(ctx, adminID, adminName, "REQUEST_APPROVED",
		fmt.Sprintf("Approved request %d (%d × %q for user %d), borrowing %d",
			req.ID, req.Quantity, req.ToolName, req.UserID, borrowing.ID))
	return &models.ApproveRequestResponse{Request: req, Borrowing: borrowing}, nil
}

// Reject denies a pending request. No stock moves.
func (s *RequestService) Reject(ctx context.Context, requestID, adminID int, adminName, reason string) (*models.Request, error) {
	existing, err := s.RequestRepo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing.Status.Terminal() {
		return nil, apperror.ErrInvalidState
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	req, err := s.RequestRepo.Resolve(ctx, requestID, models.RequestStatusRejected, adminID, reasonPtr, nil)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, adminID, adminName, "REQUEST_REJECTED",
		fmt.Sprintf("Rejected request %d (%d × %q)", req.ID, req.Quantity, req.ToolName))
	return req, nil
}

// Cancel withdraws a pending request. Only the original requester may cancel.
func (s *RequestService) Cancel(ctx context.Context, requestID, userID int, username, reason string) (*models.Request, error) {
	existing, err := s.RequestRepo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	if existing.Status.Terminal() {
		return nil, apperror.ErrInvalidState
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	req, err := s.RequestRepo.Resolve(ctx, requestID, models.RequestStatusCancelled, userID, reasonPtr, nil)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, userID, username, "REQUEST_CANCELLED",
		fmt.Sprintf("Cancelled request %d (%d × %q)", req.ID, req.Quantity, req.ToolName))
	return req, nil
}
