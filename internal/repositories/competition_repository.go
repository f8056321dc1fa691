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

type CompetitionRepository struct {
	DB *pgxpool.Pool
}

func NewCompetitionRepository(db *pgxpool.Pool) *CompetitionRepository {
	return &CompetitionRepository{DB: db}
}

func (r *CompetitionRepository) Create(ctx context.Context, c *models.Competition) error {
	query := `
		INSERT INTO competitions (name, description, starts_at, ends_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		c.Name, c.Description, c.StartsAt, c.EndsAt, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create competition: %w", err)
	}
	return nil
}

func (r *CompetitionRepository) Get(ctx context.Context, id int) (*models.Competition, error) {
	var c models.Competition
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, description, starts_at, ends_at, created_by, created_at
		FROM competitions WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.StartsAt, &c.EndsAt, &c.CreatedBy, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("competition", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return &c, nil
}

func (r *CompetitionRepository) List(ctx context.Context) ([]*models.Competition, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, description, starts_at, ends_at, created_by, created_at
		FROM competitions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	defer rows.Close()

	var cs []*models.Competition
	for rows.Next() {
		var c models.Competition
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.StartsAt, &c.EndsAt,
			&c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		cs = append(cs, &c)
	}
	return cs, rows.Err()
}

// ListItems returns the equipment pool reserved for a competition
func (r *CompetitionRepository) ListItems(ctx context.Context, competitionID int) ([]*models.CompetitionItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.competition_id, ci.item_id, i.name, ci.quantity, ci.created_at
		FROM competition_items ci
		JOIN items i ON i.id = ci.item_id
		WHERE ci.competition_id = $1
		ORDER BY i.name
	`, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list competition items: %w", err)
	}
	defer rows.Close()

	var cis []*models.CompetitionItem
	for rows.Next() {
		var ci models.CompetitionItem
		if err := rows.Scan(&ci.ID, &ci.CompetitionID, &ci.ItemID, &ci.ItemName,
			&ci.Quantity, &ci.CreatedAt); err != nil {
			return nil, err
		}
		cis = append(cis, &ci)
	}
	return cis, rows.Err()
}
