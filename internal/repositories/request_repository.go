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

type RequestRepository struct {
	DB *pgxpool.Pool
}

func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{DB: db}
}

const requestSelect = `
	SELECT r.id, r.user_id, u.name, r.tool_name, r.item_id, r.quantity, r.reason,
		r.status, r.requested_at, r.expected_return_date, r.resolved_at,
		r.resolved_by, r.cancellation_reason, r.borrowing_id
	FROM requests r
	JOIN users u ON u.id = r.user_id
`

func scanRequest(row pgx.Row) (*models.Request, error) {
	var req models.Request
	err := row.Scan(&req.ID, &req.UserID, &req.UserName, &req.ToolName, &req.ItemID,
		&req.Quantity, &req.Reason, &req.Status, &req.RequestedAt,
		&req.ExpectedReturnDate, &req.ResolvedAt, &req.ResolvedBy,
		&req.CancellationReason, &req.BorrowingID)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *models.Request) error {
	query := `
		INSERT INTO requests (user_id, tool_name, item_id, quantity, reason, expected_return_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, requested_at
	`

	err := r.DB.QueryRow(ctx, query,
		req.UserID, req.ToolName, req.ItemID, req.Quantity, req.Reason, req.ExpectedReturnDate,
	).Scan(&req.ID, &req.Status, &req.RequestedAt)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (r *RequestRepository) Get(ctx context.Context, id int) (*models.Request, error) {
	req, err := scanRequest(r.DB.QueryRow(ctx, requestSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("request", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) List(ctx context.Context) ([]*models.Request, error) {
	return r.list(ctx, requestSelect+` ORDER BY r.requested_at DESC`)
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID int) ([]*models.Request, error) {
	return r.list(ctx, requestSelect+` WHERE r.user_id = $1 ORDER BY r.requested_at DESC`, userID)
}

func (r *RequestRepository) ListPending(ctx context.Context) ([]*models.Request, error) {
	return r.list(ctx, requestSelect+` WHERE r.status = 'pending' ORDER BY r.requested_at`)
}

func (r *RequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Request, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Approve resolves a pending request and issues its borrowing in one
// transaction. The request row is locked first so a concurrent reject or
// cancel cannot interleave; the stock claim, the borrowing row and the status
// flip commit or roll back together, leaving the request pending and the item
// untouched on any failure.
func (r *RequestRepository) Approve(ctx context.Context, id, adminID int) (*models.Request, *models.Borrowing, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin approval: %w", err)
	}
	defer tx.Rollback(ctx)

	var req models.Request
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, tool_name, item_id, quantity, reason, status,
			requested_at, expected_return_date
		FROM requests WHERE id = $1 FOR UPDATE
	`, id).Scan(&req.ID, &req.UserID, &req.ToolName, &req.ItemID, &req.Quantity,
		&req.Reason, &req.Status, &req.RequestedAt, &req.ExpectedReturnDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperror.NotFound("request", id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load request: %w", err)
	}

	if req.Status != models.RequestStatusPending {
		return nil, nil, apperror.ErrInvalidState
	}

	if req.ItemID != nil {
		if err := claimStock(ctx, tx, *req.ItemID, req.Quantity); err != nil {
			return nil, nil, err
		}
	}

	b := models.Borrowing{
		ItemID:             req.ItemID,
		ToolName:           req.ToolName,
		UserID:             req.UserID,
		Quantity:           req.Quantity,
		ExpectedReturnDate: req.ExpectedReturnDate,
		RequestID:          &req.ID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO borrowings (item_id, tool_name, user_id, quantity, expected_return_date, request_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, borrow_date, created_at
	`, b.ItemID, b.ToolName, b.UserID, b.Quantity, b.ExpectedReturnDate, b.RequestID).
		Scan(&b.ID, &b.BorrowDate, &b.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create borrowing: %w", err)
	}

	if req.ItemID != nil {
		if err := insertMovement(ctx, tx, *req.ItemID, req.UserID,
			models.TransactionTypeIssue, req.Quantity, "borrowing", &b.ID); err != nil {
			return nil, nil, err
		}
	}

	err = tx.QueryRow(ctx, `
		UPDATE requests
		SET status = 'approved', resolved_at = NOW(), resolved_by = $2, borrowing_id = $3
		WHERE id = $1
		RETURNING status, resolved_at, resolved_by, borrowing_id
	`, id, adminID, b.ID).Scan(&req.Status, &req.ResolvedAt, &req.ResolvedBy, &req.BorrowingID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mark request approved: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit approval: %w", err)
	}
	return &req, &b, nil
}

// Resolve moves a pending request into a terminal state. The pending guard is
// part of the UPDATE predicate: a request that was already resolved is left
// untouched and the caller gets ErrInvalidState, so terminal states are
// one-way even under concurrent resolution attempts.
func (r *RequestRepository) Resolve(ctx context.Context, id int, status models.RequestStatus, resolvedBy int, reason *string, borrowingID *int) (*models.Request, error) {
	req, err := scanRequest(r.DB.QueryRow(ctx, `
		WITH resolved AS (
			UPDATE requests
			SET status = $2, resolved_at = NOW(), resolved_by = $3,
				cancellation_reason = $4, borrowing_id = $5
			WHERE id = $1 AND status = 'pending'
			RETURNING *
		)
		SELECT r.id, r.user_id, u.name, r.tool_name, r.item_id, r.quantity, r.reason,
			r.status, r.requested_at, r.expected_return_date, r.resolved_at,
			r.resolved_by, r.cancellation_reason, r.borrowing_id
		FROM resolved r
		JOIN users u ON u.id = r.user_id
	`, id, status, resolvedBy, reason, borrowingID))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := r.DB.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM requests WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check request: %w", err)
		}
		if !exists {
			return nil, apperror.NotFound("request", id)
		}
		return nil, apperror.ErrInvalidState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve request: %w", err)
	}
	return req, nil
}
