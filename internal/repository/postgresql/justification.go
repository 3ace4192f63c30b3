package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pontocerto/ponto-backend-go/internal/domain/justification"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
)

type justificationRepository struct {
	db *database.DB
}

// NewJustificationRepository creates a new justification repository
func NewJustificationRepository(db *database.DB) justification.Repository {
	return &justificationRepository{db: db}
}

const justificationColumns = `
	id, record_id, employee_id, type, reason, note, status,
	reviewer_id, reviewer_comment, reviewed_at, created_at, updated_at
`

func scanJustification(row pgx.Row) (justification.Justification, error) {
	var j justification.Justification
	var jType, status string

	err := row.Scan(
		&j.ID, &j.RecordID, &j.EmployeeID, &jType, &j.Reason, &j.Note, &status,
		&j.ReviewerID, &j.ReviewerComment, &j.ReviewedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return justification.Justification{}, err
	}
	j.Type = justification.Type(jType)
	j.Status = justification.Status(status)
	return j, nil
}

func (r *justificationRepository) Create(ctx context.Context, j justification.Justification) (justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	if j.ID == "" {
		j.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO justifications (id, record_id, employee_id, type, reason, note, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING %s
	`, justificationColumns)

	saved, err := scanJustification(q.QueryRow(ctx, query,
		j.ID, j.RecordID, j.EmployeeID, string(j.Type), j.Reason, j.Note, string(j.Status),
	))
	if err != nil {
		return justification.Justification{}, fmt.Errorf("failed to create justification: %w", err)
	}
	return saved, nil
}

func (r *justificationRepository) GetByID(ctx context.Context, id string) (justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM justifications WHERE id = $1`, justificationColumns)

	j, err := scanJustification(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return justification.Justification{}, justification.ErrJustificationNotFound
		}
		return justification.Justification{}, fmt.Errorf("failed to get justification: %w", err)
	}
	return j, nil
}

func (r *justificationRepository) GetPendingByLeader(ctx context.Context, leaderID string) ([]justification.Justification, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM justifications
		WHERE status = 'pending'
		  AND employee_id IN (
			SELECT id FROM employees WHERE leader_id = $1 OR secondary_leader_id = $1
		  )
		ORDER BY created_at
	`, justificationColumns)

	rows, err := q.Query(ctx, query, leaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending justifications: %w", err)
	}
	defer rows.Close()

	var justifications []justification.Justification
	for rows.Next() {
		j, err := scanJustification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan justification: %w", err)
		}
		justifications = append(justifications, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read justifications: %w", err)
	}
	return justifications, nil
}

func (r *justificationRepository) UpdateStatus(ctx context.Context, req justification.ReviewUpdate) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE justifications SET
			status = $1, reviewer_id = $2, reviewer_comment = $3, reviewed_at = $4, updated_at = now()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, string(req.Status), req.ReviewerID, req.Comment, req.ReviewedAt, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update justification status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return justification.ErrJustificationNotFound
	}
	return nil
}

func (r *justificationRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM justifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete justification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return justification.ErrJustificationNotFound
	}
	return nil
}
