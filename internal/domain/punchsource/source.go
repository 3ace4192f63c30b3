package punchsource

import (
	"context"
	"time"
)

// ExternalEmployee is an entry of the time-clock provider's directory.
type ExternalEmployee struct {
	ID   string
	Name string
}

// PunchPair is one entry/exit pair as reported by the time-clock provider.
// DateOut is nil while the employee has not clocked out of the pair yet.
// Timestamps are epoch milliseconds.
type PunchPair struct {
	ExternalEmployeeID string
	EmployeeName       string
	Date               time.Time
	DateIn             int64
	DateOut            *int64
}

// Source is the read-only time-clock provider API. The engine never writes
// through this interface.
type Source interface {
	// FetchEmployees retrieves the provider's employee directory.
	FetchEmployees(ctx context.Context) ([]ExternalEmployee, error)

	// FetchPunches retrieves all punch pairs with date in [start, end].
	// Implementations page through the provider's API with a bounded loop.
	FetchPunches(ctx context.Context, start, end time.Time) ([]PunchPair, error)
}
