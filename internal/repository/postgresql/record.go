package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
)

type recordRepository struct {
	db *database.DB
}

// NewRecordRepository creates a new daily record repository
func NewRecordRepository(db *database.DB) record.Repository {
	return &recordRepository{db: db}
}

const recordColumns = `
	r.id, r.employee_id, r.date,
	r.punch_1, r.punch_2, r.punch_3, r.punch_4,
	r.total_worked_minutes, r.difference_minutes, r.classification,
	r.alert_sent, r.manager_alert_sent, r.created_at, r.updated_at
`

func scanRecord(row pgx.Row, withName bool) (record.DailyRecord, error) {
	var rec record.DailyRecord
	var classification *string

	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.Date,
		&rec.Punch1, &rec.Punch2, &rec.Punch3, &rec.Punch4,
		&rec.TotalWorkedMinutes, &rec.DifferenceMinutes, &classification,
		&rec.AlertSent, &rec.ManagerAlertSent, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withName {
		dest = append(dest, &rec.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return record.DailyRecord{}, err
	}
	if classification != nil {
		c := record.Classification(*classification)
		rec.Classification = &c
	}
	return rec, nil
}

func (r *recordRepository) GetByID(ctx context.Context, id string) (record.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM daily_records r WHERE r.id = $1`, recordColumns)

	rec, err := scanRecord(q.QueryRow(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.DailyRecord{}, record.ErrRecordNotFound
		}
		return record.DailyRecord{}, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

func (r *recordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*record.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM daily_records r WHERE r.employee_id = $1 AND r.date = $2`, recordColumns)

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02")), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record by employee and date: %w", err)
	}
	return &rec, nil
}

// Upsert inserts or overwrites the punch and derived fields for one
// (employee, date). Alert flags of an existing row survive the overwrite.
func (r *recordRepository) Upsert(ctx context.Context, rec record.DailyRecord) (record.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	var classification *string
	if rec.Classification != nil {
		c := string(*rec.Classification)
		classification = &c
	}

	query := fmt.Sprintf(`
		INSERT INTO daily_records (
			id, employee_id, date,
			punch_1, punch_2, punch_3, punch_4,
			total_worked_minutes, difference_minutes, classification,
			alert_sent, manager_alert_sent, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, false, now(), now())
		ON CONFLICT (employee_id, date) DO UPDATE SET
			punch_1 = EXCLUDED.punch_1,
			punch_2 = EXCLUDED.punch_2,
			punch_3 = EXCLUDED.punch_3,
			punch_4 = EXCLUDED.punch_4,
			total_worked_minutes = EXCLUDED.total_worked_minutes,
			difference_minutes = EXCLUDED.difference_minutes,
			classification = EXCLUDED.classification,
			updated_at = now()
		RETURNING %s
	`, recordColumnsBare)

	saved, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Date.Format("2006-01-02"),
		rec.Punch1, rec.Punch2, rec.Punch3, rec.Punch4,
		rec.TotalWorkedMinutes, rec.DifferenceMinutes, classification,
	), false)
	if err != nil {
		return record.DailyRecord{}, fmt.Errorf("failed to upsert record: %w", err)
	}
	return saved, nil
}

func (r *recordRepository) GetByDate(ctx context.Context, date time.Time) ([]record.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, e.full_name
		FROM daily_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.date = $1
		ORDER BY e.full_name
	`, recordColumns)

	return queryRecords(ctx, q, query, true, date.Format("2006-01-02"))
}

func (r *recordRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]record.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, e.full_name
		FROM daily_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.date BETWEEN $1 AND $2
		ORDER BY r.date, e.full_name
	`, recordColumns)

	return queryRecords(ctx, q, query, true, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (r *recordRepository) GetByLeaderAndDateRange(ctx context.Context, leaderID string, start, end time.Time) ([]record.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, e.full_name
		FROM daily_records r
		JOIN employees e ON e.id = r.employee_id
		WHERE (e.leader_id = $1 OR e.secondary_leader_id = $1)
		  AND r.date BETWEEN $2 AND $3
		ORDER BY r.date, e.full_name
	`, recordColumns)

	return queryRecords(ctx, q, query, true, leaderID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (r *recordRepository) SetClassification(ctx context.Context, id string, classification record.Classification) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE daily_records SET classification = $1, updated_at = now() WHERE id = $2`

	tag, err := q.Exec(ctx, query, string(classification), id)
	if err != nil {
		return fmt.Errorf("failed to set classification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrRecordNotFound
	}
	return nil
}

func (r *recordRepository) MarkAlertSent(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "alert_sent")
}

func (r *recordRepository) MarkManagerAlertSent(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "manager_alert_sent")
}

func (r *recordRepository) setFlag(ctx context.Context, id, column string) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`UPDATE daily_records SET %s = true, updated_at = now() WHERE id = $1`, column)

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrRecordNotFound
	}
	return nil
}

func (r *recordRepository) ApplyAdjustment(ctx context.Context, id string, punches [4]*string, total, difference *int, classification *record.Classification) error {
	q := GetQuerier(ctx, r.db)

	var cls *string
	if classification != nil {
		c := string(*classification)
		cls = &c
	}

	query := `
		UPDATE daily_records SET
			punch_1 = $1, punch_2 = $2, punch_3 = $3, punch_4 = $4,
			total_worked_minutes = $5,
			difference_minutes = $6,
			classification = COALESCE($7, classification),
			updated_at = now()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query, punches[0], punches[1], punches[2], punches[3], total, difference, cls, id)
	if err != nil {
		return fmt.Errorf("failed to apply adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrRecordNotFound
	}
	return nil
}

// recordColumnsBare is recordColumns without the table alias, for RETURNING.
const recordColumnsBare = `
	id, employee_id, date,
	punch_1, punch_2, punch_3, punch_4,
	total_worked_minutes, difference_minutes, classification,
	alert_sent, manager_alert_sent, created_at, updated_at
`

func queryRecords(ctx context.Context, q database.Querier, query string, withName bool, args ...interface{}) ([]record.DailyRecord, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []record.DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows, withName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}
