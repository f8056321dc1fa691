package services

import (
	"context"
	"errors"
	"fmt"

	"labstock/internal/apperror"
	"labstock/internal/metrics"
	"labstock/internal/models"
)

// LedgerService fronts every operation that moves stock. Handlers and the
// request state machine go through here, never through raw item updates, so
// available_quantity has a single mutation path.
type LedgerService struct {
	LedgerRepo LedgerStore
	Items      ItemStore
	Audit      *AuditService
}

func NewLedgerService(ledgerRepo LedgerStore, items ItemStore, audit *AuditService) *LedgerService {
	return &LedgerService{
		LedgerRepo: ledgerRepo,
		Items:      items,
		Audit:      audit,
	}
}

func observeClaim(err error) error {
	if errors.Is(err, apperror.ErrInsufficientStock) {
		metrics.StockClaims.WithLabelValues("insufficient").Inc()
	} else if err == nil {
		metrics.StockClaims.WithLabelValues("ok").Inc()
	}
	return err
}

func (s *LedgerService) refreshOpenBorrowings(ctx context.Context) {
	if n, err := s.LedgerRepo.CountOpenBorrowings(ctx); err == nil {
		metrics.OpenBorrowings.Set(float64(n))
	}
}

// Allocate reserves stock for a project
func (s *LedgerService) Allocate(ctx context.Context, req *models.CreateAllocationRequest, userID int, username string) (*models.Allocation, error) {
	if req.AllocatedQuantity <= 0 {
		return nil, apperror.Validation("allocated_quantity must be positive")
	}

	alloc, err := s.LedgerRepo.Allocate(ctx, req, userID)
	if err := observeClaim(err); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, userID, username, "ALLOCATION_CREATED",
		fmt.Sprintf("Allocated %d of item %d to project %d", req.AllocatedQuantity, req.ItemID, req.ProjectID))
	return alloc, nil
}

// Deallocate removes an allocation and restores its stock
func (s *LedgerService) Deallocate(ctx context.Context, allocationID, userID int, username string) error {
	if err := s.LedgerRepo.Deallocate(ctx, allocationID, userID); err != nil {
		return err
	}

	s.Audit.Record(ctx, userID, username, "ALLOCATION_DELETED",
		fmt.Sprintf("Deallocated allocation %d", allocationID))
	return nil
}

// IssueBorrowing creates a borrowing directly (admin flow, no request)
func (s *LedgerService) IssueBorrowing(ctx context.Context, req *models.CreateBorrowingRequest, issuerID int, issuerName string) (*models.Borrowing, error) {
	if req.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be positive")
	}
	if req.ToolName == "" && req.ItemID == nil {
		return nil, apperror.Validation("tool_name or item_id required")
	}

	// Item-backed borrowings snapshot the catalog name, same as requests
	toolName := req.ToolName
	if toolName == "" && req.ItemID != nil {
		item, err := s.Items.Get(ctx, *req.ItemID)
		if err != nil {
			return nil, err
		}
		toolName = item.Name
	}

	b := &models.Borrowing{
		ItemID:             req.ItemID,
		ToolName:           toolName,
		UserID:             req.UserID,
		Quantity:           req.Quantity,
		ExpectedReturnDate: req.ExpectedReturnDate,
	}
	err := s.LedgerRepo.IssueBorrowing(ctx, b)
	if err := observeClaim(err); err != nil {
		return nil, err
	}

	s.refreshOpenBorrowings(ctx)
	s.Audit.Record(ctx, issuerID, issuerName, "BORROWING_ISSUED",
		fmt.Sprintf("Issued %d × %q to user %d", b.Quantity, b.ToolName, b.UserID))
	return b, nil
}

// ReturnBorrowing closes an open borrowing and restores its stock
func (s *LedgerService) ReturnBorrowing(ctx context.Context, borrowingID int, notes string, userID int, username string) (*models.Borrowing, error) {
	b, err := s.LedgerRepo.ReturnBorrowing(ctx, borrowingID, notes)
	if err != nil {
		return nil, err
	}

	s.refreshOpenBorrowings(ctx)
	s.Audit.Record(ctx, userID, username, "BORROWING_RETURNED",
		fmt.Sprintf("Returned borrowing %d (%d × %q)", b.ID, b.Quantity, b.ToolName))
	return b, nil
}

// RecordManualTransaction applies an admin issue/return without a borrowing
func (s *LedgerService) RecordManualTransaction(ctx context.Context, req *models.CreateTransactionRequest, adminID int, adminName string) (*models.Transaction, error) {
	if req.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be positive")
	}

	t, err := s.LedgerRepo.RecordManualTransaction(ctx, req)
	if err := observeClaim(err); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, adminID, adminName, "TRANSACTION_RECORDED",
		fmt.Sprintf("%s %d of item %d for user %d", t.Type, t.Quantity, t.ItemID, t.UserID))
	return t, nil
}

// ReserveForCompetition claims stock into a competition pool
func (s *LedgerService) ReserveForCompetition(ctx context.Context, competitionID int, req *models.AddCompetitionItemRequest, userID int, username string) (*models.CompetitionItem, error) {
	if req.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be positive")
	}

	ci, err := s.LedgerRepo.ReserveForCompetition(ctx, competitionID, req, userID)
	if err := observeClaim(err); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, userID, username, "COMPETITION_ITEM_ADDED",
		fmt.Sprintf("Reserved %d of item %d for competition %d", req.Quantity, req.ItemID, competitionID))
	return ci, nil
}

// ReleaseCompetitionItem removes a reservation from the given competition's
// pool. The competition scope travels down to the delete predicate.
func (s *LedgerService) ReleaseCompetitionItem(ctx context.Context, competitionID, competitionItemID, userID int, username string) error {
	if err := s.LedgerRepo.ReleaseCompetitionItem(ctx, competitionID, competitionItemID, userID); err != nil {
		return err
	}

	s.Audit.Record(ctx, userID, username, "COMPETITION_ITEM_REMOVED",
		fmt.Sprintf("Released competition item %d from competition %d", competitionItemID, competitionID))
	return nil
}
