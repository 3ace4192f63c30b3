package audit

import (
	"time"
)

// Entry is one append-only audit log line. Every mutating engine operation
// writes one; entries are never updated or deleted.
type Entry struct {
	ID         string
	Action     string
	EntityType string
	EntityID   *string
	Details    map[string]interface{}
	CreatedAt  time.Time
}

// Actions written by the engine.
const (
	ActionIngestRunFailed       = "ingest_run_failed"
	ActionRecordUpserted        = "record_upserted"
	ActionEmployeeLinked        = "employee_external_id_linked"
	ActionReconcileFinalized    = "reconcile_day_finalized"
	ActionReconcileFailed       = "reconcile_employee_failed"
	ActionManagerDecision       = "manager_decision"
	ActionJustificationCreated  = "justification_created"
	ActionJustificationReviewed = "justification_reviewed"
	ActionAdjustmentCreated     = "adjustment_created"
	ActionAdjustmentReviewed    = "adjustment_reviewed"
	ActionWeeklySummarySent     = "weekly_summary_sent"
)
