package services

import (
	"context"

	"labstock/internal/models"
)

// Store interfaces at the service boundary. The concrete repositories satisfy
// them; tests substitute in-memory implementations.

type LedgerStore interface {
	Allocate(ctx context.Context, req *models.CreateAllocationRequest, userID int) (*models.Allocation, error)
	Deallocate(ctx context.Context, allocationID, userID int) error
	IssueBorrowing(ctx context.Context, b *models.Borrowing) error
	ReturnBorrowing(ctx context.Context, borrowingID int, notes string) (*models.Borrowing, error)
	RecordManualTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error)
	ReserveForCompetition(ctx context.Context, competitionID int, req *models.AddCompetitionItemRequest, userID int) (*models.CompetitionItem, error)
	ReleaseCompetitionItem(ctx context.Context, competitionID, competitionItemID, userID int) error
	CountOpenBorrowings(ctx context.Context) (int, error)
}

type RequestStore interface {
	Create(ctx context.Context, req *models.Request) error
	Get(ctx context.Context, id int) (*models.Request, error)
	List(ctx context.Context) ([]*models.Request, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Request, error)
	ListPending(ctx context.Context) ([]*models.Request, error)
	Approve(ctx context.Context, id, adminID int) (*models.Request, *models.Borrowing, error)
	Resolve(ctx context.Context, id int, status models.RequestStatus, resolvedBy int, reason *string, borrowingID *int) (*models.Request, error)
}

type ItemStore interface {
	Get(ctx context.Context, id int) (*models.Item, error)
}

type HistoryStore interface {
	Create(ctx context.Context, entry *models.HistoryEntry) error
	List(ctx context.Context, limit, offset int) ([]*models.HistoryEntry, error)
}
