package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pontocerto/ponto-backend-go/internal/domain/adjustment"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
)

type adjustmentRepository struct {
	db *database.DB
}

// NewAdjustmentRepository creates a new punch adjustment repository
func NewAdjustmentRepository(db *database.DB) adjustment.Repository {
	return &adjustmentRepository{db: db}
}

const adjustmentColumns = `
	id, record_id, employee_id, type, missing_slots, reason, status,
	corrected_punch_1, corrected_punch_2, corrected_punch_3, corrected_punch_4,
	reviewer_id, reviewer_comment, reviewed_at, created_at, updated_at
`

func scanAdjustment(row pgx.Row) (adjustment.PunchAdjustmentRequest, error) {
	var adj adjustment.PunchAdjustmentRequest
	var adjType, status string

	err := row.Scan(
		&adj.ID, &adj.RecordID, &adj.EmployeeID, &adjType, &adj.MissingSlots, &adj.Reason, &status,
		&adj.CorrectedPunch1, &adj.CorrectedPunch2, &adj.CorrectedPunch3, &adj.CorrectedPunch4,
		&adj.ReviewerID, &adj.ReviewerComment, &adj.ReviewedAt, &adj.CreatedAt, &adj.UpdatedAt,
	)
	if err != nil {
		return adjustment.PunchAdjustmentRequest{}, err
	}
	adj.Type = adjustment.Type(adjType)
	adj.Status = adjustment.Status(status)
	return adj, nil
}

func (r *adjustmentRepository) Create(ctx context.Context, req adjustment.PunchAdjustmentRequest) (adjustment.PunchAdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO punch_adjustments (id, record_id, employee_id, type, missing_slots, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING %s
	`, adjustmentColumns)

	saved, err := scanAdjustment(q.QueryRow(ctx, query,
		req.ID, req.RecordID, req.EmployeeID, string(req.Type), req.MissingSlots, req.Reason, string(req.Status),
	))
	if err != nil {
		return adjustment.PunchAdjustmentRequest{}, fmt.Errorf("failed to create adjustment: %w", err)
	}
	return saved, nil
}

func (r *adjustmentRepository) GetByID(ctx context.Context, id string) (adjustment.PunchAdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM punch_adjustments WHERE id = $1`, adjustmentColumns)

	adj, err := scanAdjustment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adjustment.PunchAdjustmentRequest{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.PunchAdjustmentRequest{}, fmt.Errorf("failed to get adjustment: %w", err)
	}
	return adj, nil
}

func (r *adjustmentRepository) GetPendingByLeader(ctx context.Context, leaderID string) ([]adjustment.PunchAdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM punch_adjustments
		WHERE status = 'pending'
		  AND employee_id IN (
			SELECT id FROM employees WHERE leader_id = $1 OR secondary_leader_id = $1
		  )
		ORDER BY created_at
	`, adjustmentColumns)

	rows, err := q.Query(ctx, query, leaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []adjustment.PunchAdjustmentRequest
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read adjustments: %w", err)
	}
	return adjustments, nil
}

func (r *adjustmentRepository) UpdateStatus(ctx context.Context, req adjustment.ReviewUpdate) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE punch_adjustments SET
			status = $1, reviewer_id = $2, reviewer_comment = $3,
			corrected_punch_1 = $4, corrected_punch_2 = $5, corrected_punch_3 = $6, corrected_punch_4 = $7,
			reviewed_at = $8, updated_at = now()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		string(req.Status), req.ReviewerID, req.Comment,
		req.CorrectedPunches[0], req.CorrectedPunches[1], req.CorrectedPunches[2], req.CorrectedPunches[3],
		req.ReviewedAt, req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update adjustment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return adjustment.ErrAdjustmentNotFound
	}
	return nil
}
