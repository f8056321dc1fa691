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

type AllocationRepository struct {
	DB *pgxpool.Pool
}

func NewAllocationRepository(db *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{DB: db}
}

const allocationSelect = `
	SELECT a.id, a.item_id, i.name, a.project_id, p.name,
		a.allocated_quantity, a.allocated_by_user_id, a.created_at
	FROM allocations a
	JOIN items i ON i.id = a.item_id
	JOIN projects p ON p.id = a.project_id
`

func scanAllocation(row pgx.Row) (*models.Allocation, error) {
	var a models.Allocation
	err := row.Scan(&a.ID, &a.ItemID, &a.ItemName, &a.ProjectID, &a.ProjectName,
		&a.AllocatedQuantity, &a.AllocatedByUserID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AllocationRepository) Get(ctx context.Context, id int) (*models.Allocation, error) {
	alloc, err := scanAllocation(r.DB.QueryRow(ctx, allocationSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("allocation", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}
	return alloc, nil
}

func (r *AllocationRepository) List(ctx context.Context) ([]*models.Allocation, error) {
	return r.list(ctx, allocationSelect+` ORDER BY a.created_at DESC`)
}

func (r *AllocationRepository) ListByProject(ctx context.Context, projectID int) ([]*models.Allocation, error) {
	return r.list(ctx, allocationSelect+` WHERE a.project_id = $1 ORDER BY a.created_at DESC`, projectID)
}

func (r *AllocationRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Allocation, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocs []*models.Allocation
	for rows.Next() {
		alloc, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, alloc)
	}
	return allocs, rows.Err()
}
