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

type ItemRepository struct {
	DB *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{DB: db}
}

const itemColumns = `id, name, category, description, quantity, available_quantity, created_at, updated_at`

func scanItem(row pgx.Row) (*models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Description,
		&it.Quantity, &it.Available, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (name, category, description, quantity, available_quantity)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, available_quantity, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		item.Name, item.Category, item.Description, item.Quantity,
	).Scan(&item.ID, &item.Available, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *ItemRepository) Get(ctx context.Context, id int) (*models.Item, error) {
	item, err := scanItem(r.DB.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update changes metadata and, when a new total quantity is given, shifts
// available_quantity by the same delta so outstanding claims stay accounted
// for. The items table CHECK constraint rejects totals below what is
// currently claimed.
func (r *ItemRepository) Update(ctx context.Context, id int, req *models.UpdateItemRequest) (*models.Item, error) {
	var item *models.Item
	var err error
	if req.Quantity != nil {
		item, err = scanItem(r.DB.QueryRow(ctx, `
			UPDATE items
			SET name = $1, category = $2, description = $3,
				available_quantity = available_quantity + ($4 - quantity),
				quantity = $4,
				updated_at = NOW()
			WHERE id = $5
			RETURNING `+itemColumns,
			req.Name, req.Category, req.Description, *req.Quantity, id))
	} else {
		item, err = scanItem(r.DB.QueryRow(ctx, `
			UPDATE items
			SET name = $1, category = $2, description = $3, updated_at = NOW()
			WHERE id = $4
			RETURNING `+itemColumns,
			req.Name, req.Category, req.Description, id))
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// Delete removes an item that has no outstanding claims. Foreign keys from
// allocations/borrowings block deletion of items still referenced.
func (r *ItemRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("item", id)
	}
	return nil
}
