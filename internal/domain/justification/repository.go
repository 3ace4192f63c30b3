package justification

import (
	"context"
)

// Repository defines data access for justifications.
type Repository interface {
	// Create inserts a pending justification.
	Create(ctx context.Context, j Justification) (Justification, error)

	// GetByID retrieves a justification by ID.
	GetByID(ctx context.Context, id string) (Justification, error)

	// GetPendingByLeader retrieves the pending justifications of employees
	// reporting to a leader.
	GetPendingByLeader(ctx context.Context, leaderID string) ([]Justification, error)

	// UpdateStatus writes the terminal state of a review.
	UpdateStatus(ctx context.Context, req ReviewUpdate) error

	// Delete removes a justification (admin only; terminal entries are
	// otherwise immutable).
	Delete(ctx context.Context, id string) error
}
