package employee

import (
	"time"
)

// Employee is a tracked worker. ExternalID is the identity used by the
// time-clock provider; it is nil until the first successful punch match
// back-fills it. ExpectedDailyMinutes drives the weekday hours calculation
// (apprentices usually carry a reduced value).
type Employee struct {
	ID                   string
	FullName             string
	ExternalID           *string
	LeaderID             string
	SecondaryLeaderID    *string
	IsApprentice         bool
	ExpectedDailyMinutes int
	NoPunchRequired      bool
	WorksSaturday        bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Leader is a manager who reviews justifications and punch adjustments for
// the employees reporting to them.
type Leader struct {
	ID        string
	FullName  string
	Email     string
	SlackID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	// DefaultDailyMinutes is the expected weekday workload when no override
	// is configured for the employee.
	DefaultDailyMinutes = 480

	// DefaultApprenticeMinutes is the expected daily workload for
	// apprentices without an explicit override.
	DefaultApprenticeMinutes = 240
)
