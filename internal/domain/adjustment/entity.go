package adjustment

import (
	"time"
)

// Type is the reason kind behind a punch adjustment request.
type Type string

const (
	TypeMissingPunch Type = "missing_punch"
	TypeLateStart    Type = "late_start"
)

// IsValid reports whether t is a known adjustment type.
func (t Type) IsValid() bool {
	return t == TypeMissingPunch || t == TypeLateStart
}

// Status is the lifecycle state of an adjustment request. Approved and
// rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// PunchAdjustmentRequest asks a manager to correct missing or implausible
// punches on a daily record. On approval, the supplied corrected punches are
// merged into the record and the day's hours are recalculated.
type PunchAdjustmentRequest struct {
	ID           string
	RecordID     string
	EmployeeID   string
	Type         Type
	MissingSlots []string
	Reason       string
	Status       Status

	// Corrected punches supplied by the reviewer on approval; any subset.
	CorrectedPunch1 *string
	CorrectedPunch2 *string
	CorrectedPunch3 *string
	CorrectedPunch4 *string

	ReviewerID      *string
	ReviewerComment *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CorrectedPunches returns the reviewer-supplied punches in slot order.
func (p PunchAdjustmentRequest) CorrectedPunches() [4]*string {
	return [4]*string{p.CorrectedPunch1, p.CorrectedPunch2, p.CorrectedPunch3, p.CorrectedPunch4}
}
