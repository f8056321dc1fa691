package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labstock/internal/models"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const transactionSelect = `
	SELECT t.id, t.item_id, i.name, t.user_id, u.name, t.type, t.quantity,
		t.reference_type, t.reference_id, t.created_at
	FROM transactions t
	JOIN items i ON i.id = t.item_id
	JOIN users u ON u.id = t.user_id
`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.ItemID, &t.ItemName, &t.UserID, &t.UserName,
		&t.Type, &t.Quantity, &t.ReferenceType, &t.ReferenceID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) List(ctx context.Context, limit int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return r.list(ctx, transactionSelect+` ORDER BY t.created_at DESC, t.id DESC LIMIT $1`, limit)
}

func (r *TransactionRepository) ListByItem(ctx context.Context, itemID int) ([]*models.Transaction, error) {
	return r.list(ctx, transactionSelect+` WHERE t.item_id = $1 ORDER BY t.created_at DESC, t.id DESC`, itemID)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var ts []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, rows.Err()
}
