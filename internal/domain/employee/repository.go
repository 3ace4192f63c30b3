package employee

import (
	"context"
)

// Repository defines data access for employees.
type Repository interface {
	// GetByID retrieves an employee by ID.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetAll retrieves every employee.
	GetAll(ctx context.Context) ([]Employee, error)

	// GetByExternalID retrieves the employee linked to a time-clock external
	// id. Returns nil (no error) when no employee is linked.
	GetByExternalID(ctx context.Context, externalID string) (*Employee, error)

	// GetByName retrieves an employee by case-insensitive exact name match.
	// Returns nil (no error) when no employee matches.
	GetByName(ctx context.Context, name string) (*Employee, error)

	// GetByLeader retrieves the employees reporting to a leader, including
	// those whose secondary approver is the leader.
	GetByLeader(ctx context.Context, leaderID string) ([]Employee, error)

	// LinkExternalID back-fills the time-clock external id on first match.
	LinkExternalID(ctx context.Context, id string, externalID string) error

	// Update mutates the admin-managed scheduling flags.
	Update(ctx context.Context, req UpdateEmployeeRequest) error
}

// LeaderRepository defines data access for leaders.
type LeaderRepository interface {
	// GetByID retrieves a leader by ID.
	GetByID(ctx context.Context, id string) (Leader, error)

	// GetAll retrieves every leader.
	GetAll(ctx context.Context) ([]Leader, error)
}
