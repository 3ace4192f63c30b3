package adjustment

import (
	"context"
)

// Repository defines data access for punch adjustment requests.
type Repository interface {
	// Create inserts a pending adjustment request.
	Create(ctx context.Context, req PunchAdjustmentRequest) (PunchAdjustmentRequest, error)

	// GetByID retrieves an adjustment request by ID.
	GetByID(ctx context.Context, id string) (PunchAdjustmentRequest, error)

	// GetPendingByLeader retrieves the pending adjustment requests of
	// employees reporting to a leader.
	GetPendingByLeader(ctx context.Context, leaderID string) ([]PunchAdjustmentRequest, error)

	// UpdateStatus writes the terminal state of a review, including any
	// corrected punches supplied on approval.
	UpdateStatus(ctx context.Context, req ReviewUpdate) error
}
