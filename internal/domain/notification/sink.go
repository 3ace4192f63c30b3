package notification

import (
	"context"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
)

// Sink is the engine's outbound notification boundary. Every call is
// fire-and-forget: implementations queue or deliver as they can, callers log
// failures and never propagate them.
type Sink interface {
	// NotifyEmployeeDeviation alerts an employee that the day's worked time
	// deviates from the expected workload beyond the alert threshold.
	NotifyEmployeeDeviation(ctx context.Context, emp employee.Employee, rec record.DailyRecord) error

	// NotifyEmployeeMissingPunch asks an employee to request an adjustment
	// for the named empty punch slots.
	NotifyEmployeeMissingPunch(ctx context.Context, emp employee.Employee, rec record.DailyRecord, missingSlots []string) error

	// NotifyEmployeeLateStart tells an employee their first punch looks
	// implausibly late.
	NotifyEmployeeLateStart(ctx context.Context, emp employee.Employee, rec record.DailyRecord) error

	// NotifyEmployeeLatePunch tells an employee a specific punch looks wrong.
	NotifyEmployeeLatePunch(ctx context.Context, emp employee.Employee, rec record.DailyRecord, slotName string) error

	// NotifyManagerNoRecord asks an employee's leader to decide folga or
	// falta for a working day with zero punches.
	NotifyManagerNoRecord(ctx context.Context, leaderID string, emp employee.Employee, date time.Time) error

	// NotifyManagerWeeklySummary sends a leader one summary of the week's
	// deviating records.
	NotifyManagerWeeklySummary(ctx context.Context, leaderID string, start, end time.Time, records []record.DailyRecord) error

	// NotifyJustificationOutcome tells an employee their justification was
	// approved or rejected.
	NotifyJustificationOutcome(ctx context.Context, emp employee.Employee, rec record.DailyRecord, justificationType, status, reviewerComment string) error

	// NotifyAdjustmentOutcome tells an employee their punch adjustment
	// request was approved or rejected.
	NotifyAdjustmentOutcome(ctx context.Context, emp employee.Employee, rec record.DailyRecord, status, reviewerComment string) error
}
