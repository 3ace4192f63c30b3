package justification

import (
	"time"
)

// Type is the deviation kind a justification explains.
type Type string

const (
	TypeLate     Type = "late"
	TypeOvertime Type = "overtime"
)

// IsValid reports whether t is a known justification type.
func (t Type) IsValid() bool {
	return t == TypeLate || t == TypeOvertime
}

// Status is the lifecycle state of a justification. Approved and rejected
// are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Justification annotates a late or overtime day with the employee's reason.
// It never changes the underlying punches; approval is purely an
// acknowledgement with an audit trail.
type Justification struct {
	ID              string
	RecordID        string
	EmployeeID      string
	Type            Type
	Reason          string
	Note            *string
	Status          Status
	ReviewerID      *string
	ReviewerComment *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
