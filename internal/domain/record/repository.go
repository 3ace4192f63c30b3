package record

import (
	"context"
	"time"
)

// Repository defines data access for daily punch records. Upsert is keyed on
// (employee_id, date); concurrent writers for the same key resolve
// last-writer-wins on the punch fields, which is safe because ingestion only
// ever adds punch information.
type Repository interface {
	// GetByID retrieves a record by its ID.
	GetByID(ctx context.Context, id string) (DailyRecord, error)

	// GetByEmployeeAndDate retrieves the record for one employee on one date.
	// Returns nil (no error) when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*DailyRecord, error)

	// Upsert inserts the record, or overwrites punch and derived fields when a
	// record for (employee_id, date) already exists. The alert flags of an
	// existing record are preserved.
	Upsert(ctx context.Context, rec DailyRecord) (DailyRecord, error)

	// GetByDate retrieves all records for a calendar date.
	GetByDate(ctx context.Context, date time.Time) ([]DailyRecord, error)

	// GetByDateRange retrieves all records with date in [start, end].
	GetByDateRange(ctx context.Context, start, end time.Time) ([]DailyRecord, error)

	// GetByLeaderAndDateRange retrieves records in [start, end] for employees
	// reporting to the given leader.
	GetByLeaderAndDateRange(ctx context.Context, leaderID string, start, end time.Time) ([]DailyRecord, error)

	// SetClassification finalizes the classification of a record.
	SetClassification(ctx context.Context, id string, classification Classification) error

	// MarkAlertSent sets the employee alert idempotence guard.
	MarkAlertSent(ctx context.Context, id string) error

	// MarkManagerAlertSent sets the manager alert idempotence guard.
	MarkManagerAlertSent(ctx context.Context, id string) error

	// ApplyAdjustment overwrites the record's punch set with the merged
	// punches of an approved adjustment together with the freshly derived
	// totals.
	ApplyAdjustment(ctx context.Context, id string, punches [4]*string, total, difference *int, classification *Classification) error
}
