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

type BorrowingRepository struct {
	DB *pgxpool.Pool
}

func NewBorrowingRepository(db *pgxpool.Pool) *BorrowingRepository {
	return &BorrowingRepository{DB: db}
}

const borrowingSelect = `
	SELECT b.id, b.item_id, b.tool_name, b.user_id, u.name, b.quantity,
		b.borrow_date, b.expected_return_date, b.actual_return_date,
		b.return_notes, b.request_id, b.created_at
	FROM borrowings b
	JOIN users u ON u.id = b.user_id
`

func scanBorrowing(row pgx.Row) (*models.Borrowing, error) {
	var b models.Borrowing
	err := row.Scan(&b.ID, &b.ItemID, &b.ToolName, &b.UserID, &b.UserName,
		&b.Quantity, &b.BorrowDate, &b.ExpectedReturnDate, &b.ActualReturnDate,
		&b.ReturnNotes, &b.RequestID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BorrowingRepository) Get(ctx context.Context, id int) (*models.Borrowing, error) {
	b, err := scanBorrowing(r.DB.QueryRow(ctx, borrowingSelect+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("borrowing", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get borrowing: %w", err)
	}
	return b, nil
}

func (r *BorrowingRepository) List(ctx context.Context) ([]*models.Borrowing, error) {
	return r.list(ctx, borrowingSelect+` ORDER BY b.borrow_date DESC`)
}

func (r *BorrowingRepository) ListByUser(ctx context.Context, userID int) ([]*models.Borrowing, error) {
	return r.list(ctx, borrowingSelect+` WHERE b.user_id = $1 ORDER BY b.borrow_date DESC`, userID)
}

// ListOpen returns borrowings that have not been returned yet
func (r *BorrowingRepository) ListOpen(ctx context.Context) ([]*models.Borrowing, error) {
	return r.list(ctx, borrowingSelect+` WHERE b.actual_return_date IS NULL ORDER BY b.borrow_date`)
}

func (r *BorrowingRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Borrowing, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowings: %w", err)
	}
	defer rows.Close()

	var bs []*models.Borrowing
	for rows.Next() {
		b, err := scanBorrowing(rows)
		if err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, rows.Err()
}
