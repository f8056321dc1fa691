package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labstock/internal/apperror"
	"labstock/internal/models"
)

// LedgerRepository is the only code path that mutates
// items.available_quantity. Every operation runs as a single database
// transaction: the stock adjustment, the claim row (allocation/borrowing) and
// the movement record commit or roll back as a unit.
type LedgerRepository struct {
	DB *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// claimStock decrements available_quantity if enough stock is on hand. The
// floor check and the decrement are one conditional UPDATE, so concurrent
// claims on the same item serialize on the row and can never oversubscribe.
func claimStock(ctx context.Context, tx pgx.Tx, itemID, qty int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE items
		SET available_quantity = available_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND available_quantity >= $1
	`, qty, itemID)
	if err != nil {
		return fmt.Errorf("failed to claim stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing item from an undersupplied one
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, itemID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check item: %w", err)
		}
		if !exists {
			return apperror.NotFound("item", itemID)
		}
		return apperror.ErrInsufficientStock
	}
	return nil
}

// releaseStock restores claimed quantity. LEAST caps at the total owned so a
// shrunken item can never report more on hand than it has.
func releaseStock(ctx context.Context, tx pgx.Tx, itemID, qty int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE items
		SET available_quantity = LEAST(quantity, available_quantity + $1), updated_at = NOW()
		WHERE id = $2
	`, qty, itemID)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("item", itemID)
	}
	return nil
}

// insertMovement appends an immutable transaction row
func insertMovement(ctx context.Context, tx pgx.Tx, itemID, userID int, typ models.TransactionType, qty int, refType string, refID *int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (item_id, user_id, type, quantity, reference_type, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, itemID, userID, typ, qty, refType, refID)
	if err != nil {
		return fmt.Errorf("failed to record movement: %w", err)
	}
	return nil
}

// Allocate claims stock for a project and creates the allocation record
func (r *LedgerRepository) Allocate(ctx context.Context, req *models.CreateAllocationRequest, userID int) (*models.Allocation, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin allocation: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := claimStock(ctx, tx, req.ItemID, req.AllocatedQuantity); err != nil {
		return nil, err
	}

	alloc := &models.Allocation{
		ItemID:            req.ItemID,
		ProjectID:         req.ProjectID,
		AllocatedQuantity: req.AllocatedQuantity,
		AllocatedByUserID: userID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO allocations (item_id, project_id, allocated_quantity, allocated_by_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, req.ItemID, req.ProjectID, req.AllocatedQuantity, userID).Scan(&alloc.ID, &alloc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}

	if err := insertMovement(ctx, tx, req.ItemID, userID,
		models.TransactionTypeIssue, req.AllocatedQuantity, "allocation", &alloc.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit allocation: %w", err)
	}
	return alloc, nil
}

// Deallocate deletes an allocation and restores its claimed quantity
func (r *LedgerRepository) Deallocate(ctx context.Context, allocationID, userID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin deallocation: %w", err)
	}
	defer tx.Rollback(ctx)

	var itemID, qty int
	err = tx.QueryRow(ctx, `
		DELETE FROM allocations WHERE id = $1
		RETURNING item_id, allocated_quantity
	`, allocationID).Scan(&itemID, &qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("allocation", allocationID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}

	if err := releaseStock(ctx, tx, itemID, qty); err != nil {
		return err
	}

	if err := insertMovement(ctx, tx, itemID, userID,
		models.TransactionTypeReturn, qty, "allocation", &allocationID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit deallocation: %w", err)
	}
	return nil
}

// IssueBorrowing claims stock (for item-backed borrowings) and creates the
// borrowing row. Free-text tool borrowings (nil ItemID) skip the ledger.
func (r *LedgerRepository) IssueBorrowing(ctx context.Context, b *models.Borrowing) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin borrowing: %w", err)
	}
	defer tx.Rollback(ctx)

	if b.ItemID != nil {
		if err := claimStock(ctx, tx, *b.ItemID, b.Quantity); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO borrowings (item_id, tool_name, user_id, quantity, expected_return_date, request_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, borrow_date, created_at
	`, b.ItemID, b.ToolName, b.UserID, b.Quantity, b.ExpectedReturnDate, b.RequestID).
		Scan(&b.ID, &b.BorrowDate, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create borrowing: %w", err)
	}

	if b.ItemID != nil {
		if err := insertMovement(ctx, tx, *b.ItemID, b.UserID,
			models.TransactionTypeIssue, b.Quantity, "borrowing", &b.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit borrowing: %w", err)
	}
	return nil
}

// ReturnBorrowing closes an open borrowing and restores its quantity. The
// already-returned guard is part of the UPDATE predicate, so a double return
// cannot release stock twice.
func (r *LedgerRepository) ReturnBorrowing(ctx context.Context, borrowingID int, notes string) (*models.Borrowing, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin return: %w", err)
	}
	defer tx.Rollback(ctx)

	var b models.Borrowing
	err = tx.QueryRow(ctx, `
		UPDATE borrowings
		SET actual_return_date = NOW(), return_notes = $2
		WHERE id = $1 AND actual_return_date IS NULL
		RETURNING id, item_id, tool_name, user_id, quantity, borrow_date,
			expected_return_date, actual_return_date, return_notes, request_id, created_at
	`, borrowingID, notes).Scan(&b.ID, &b.ItemID, &b.ToolName, &b.UserID, &b.Quantity,
		&b.BorrowDate, &b.ExpectedReturnDate, &b.ActualReturnDate, &b.ReturnNotes,
		&b.RequestID, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := r.DB.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM borrowings WHERE id = $1)`, borrowingID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check borrowing: %w", err)
		}
		if !exists {
			return nil, apperror.NotFound("borrowing", borrowingID)
		}
		return nil, apperror.ErrAlreadyReturned
	}
	if err != nil {
		return nil, fmt.Errorf("failed to return borrowing: %w", err)
	}

	if b.ItemID != nil {
		if err := releaseStock(ctx, tx, *b.ItemID, b.Quantity); err != nil {
			return nil, err
		}
		if err := insertMovement(ctx, tx, *b.ItemID, b.UserID,
			models.TransactionTypeReturn, b.Quantity, "borrowing", &b.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit return: %w", err)
	}
	return &b, nil
}

// RecordManualTransaction applies an admin issue/return directly against the
// ledger without an allocation or borrowing row.
func (r *LedgerRepository) RecordManualTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	switch req.Type {
	case models.TransactionTypeIssue:
		if err := claimStock(ctx, tx, req.ItemID, req.Quantity); err != nil {
			return nil, err
		}
	case models.TransactionTypeReturn:
		if err := releaseStock(ctx, tx, req.ItemID, req.Quantity); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.Validation("unknown transaction type %q", req.Type)
	}

	t := &models.Transaction{
		ItemID:        req.ItemID,
		UserID:        req.UserID,
		Type:          req.Type,
		Quantity:      req.Quantity,
		ReferenceType: "manual",
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (item_id, user_id, type, quantity, reference_type)
		VALUES ($1, $2, $3, $4, 'manual')
		RETURNING id, created_at
	`, req.ItemID, req.UserID, req.Type, req.Quantity).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

// ReserveForCompetition claims stock into a competition's equipment pool
func (r *LedgerRepository) ReserveForCompetition(ctx context.Context, competitionID int, req *models.AddCompetitionItemRequest, userID int) (*models.CompetitionItem, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := claimStock(ctx, tx, req.ItemID, req.Quantity); err != nil {
		return nil, err
	}

	ci := &models.CompetitionItem{
		CompetitionID: competitionID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO competition_items (competition_id, item_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, competitionID, req.ItemID, req.Quantity).Scan(&ci.ID, &ci.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add competition item: %w", err)
	}

	if err := insertMovement(ctx, tx, req.ItemID, userID,
		models.TransactionTypeIssue, req.Quantity, "competition", &ci.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}
	return ci, nil
}

// ReleaseCompetitionItem removes a pool reservation and restores its stock.
// The delete is scoped to the owning competition so a reservation can never be
// released through another competition's route.
func (r *LedgerRepository) ReleaseCompetitionItem(ctx context.Context, competitionID, competitionItemID, userID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin release: %w", err)
	}
	defer tx.Rollback(ctx)

	var itemID, qty int
	err = tx.QueryRow(ctx, `
		DELETE FROM competition_items WHERE id = $1 AND competition_id = $2
		RETURNING item_id, quantity
	`, competitionItemID, competitionID).Scan(&itemID, &qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("competition item", competitionItemID)
	}
	if err != nil {
		return fmt.Errorf("failed to remove competition item: %w", err)
	}

	if err := releaseStock(ctx, tx, itemID, qty); err != nil {
		return err
	}

	if err := insertMovement(ctx, tx, itemID, userID,
		models.TransactionTypeReturn, qty, "competition", &competitionItemID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit release: %w", err)
	}
	return nil
}

// CountOpenBorrowings returns the number of borrowings not yet returned
func (r *LedgerRepository) CountOpenBorrowings(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM borrowings WHERE actual_return_date IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count open borrowings: %w", err)
	}
	return n, nil
}
