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

type AssignmentRepository struct {
	DB *pgxpool.Pool
}

func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	query := `
		INSERT INTO assignments (competition_id, project_id, title, description, due_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		a.CompetitionID, a.ProjectID, a.Title, a.Description, a.DueAt, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) Get(ctx context.Context, id int) (*models.Assignment, error) {
	var a models.Assignment
	err := r.DB.QueryRow(ctx, `
		SELECT id, competition_id, project_id, title, description, due_at, created_by, created_at
		FROM assignments WHERE id = $1
	`, id).Scan(&a.ID, &a.CompetitionID, &a.ProjectID, &a.Title, &a.Description,
		&a.DueAt, &a.CreatedBy, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("assignment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

func (r *AssignmentRepository) List(ctx context.Context) ([]*models.Assignment, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, competition_id, project_id, title, description, due_at, created_by, created_at
		FROM assignments ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var as []*models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.CompetitionID, &a.ProjectID, &a.Title,
			&a.Description, &a.DueAt, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		as = append(as, &a)
	}
	return as, rows.Err()
}

func (r *AssignmentRepository) CreateSubmission(ctx context.Context, s *models.Submission) error {
	query := `
		INSERT INTO submissions (assignment_id, user_id, notes, object_key, file_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, submitted_at
	`

	err := r.DB.QueryRow(ctx, query,
		s.AssignmentID, s.UserID, s.Notes, s.ObjectKey, s.FileName,
	).Scan(&s.ID, &s.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) ListSubmissions(ctx context.Context, assignmentID int) ([]*models.Submission, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT s.id, s.assignment_id, s.user_id, u.name, s.notes, s.object_key,
			s.file_name, s.submitted_at
		FROM submissions s
		JOIN users u ON u.id = s.user_id
		WHERE s.assignment_id = $1
		ORDER BY s.submitted_at DESC
	`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var ss []*models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.AssignmentID, &s.UserID, &s.UserName,
			&s.Notes, &s.ObjectKey, &s.FileName, &s.SubmittedAt); err != nil {
			return nil, err
		}
		ss = append(ss, &s)
	}
	return ss, rows.Err()
}
