package audit

import (
	"context"
	"time"
)

// Repository is the append-only audit trail. Append must never fail the
// operation it observes; callers log and continue on error.
type Repository interface {
	// Append writes one entry.
	Append(ctx context.Context, action, entityType string, entityID *string, details map[string]interface{}) error

	// GetByDateRange retrieves entries created in [start, end], newest first.
	GetByDateRange(ctx context.Context, start, end time.Time) ([]Entry, error)

	// GetByEntity retrieves the trail of one entity, newest first.
	GetByEntity(ctx context.Context, entityType, entityID string) ([]Entry, error)
}
