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

type ProjectRepository struct {
	DB *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

const projectSelect = `
	SELECT p.id, p.name, p.description, p.owner_user_id, u.name, p.status, p.created_at
	FROM projects p
	JOIN users u ON u.id = p.owner_user_id
`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerUserID, &p.OwnerName,
		&p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (name, description, owner_user_id)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at
	`

	err := r.DB.QueryRow(ctx, query, p.Name, p.Description, p.OwnerUserID).
		Scan(&p.ID, &p.Status, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (*models.Project, error) {
	p, err := scanProject(r.DB.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.DB.Query(ctx, projectSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var ps []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id int, req *models.UpdateProjectRequest) (*models.Project, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE projects SET name = $1, description = $2, status = $3 WHERE id = $4
	`, req.Name, req.Description, req.Status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperror.NotFound("project", id)
	}
	return r.Get(ctx, id)
}

// Delete removes a project with no outstanding allocations. Allocation
// foreign keys block deletion otherwise.
func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("project", id)
	}
	return nil
}
