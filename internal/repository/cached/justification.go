package cached

import (
	"context"

	"github.com/pontocerto/ponto-backend-go/internal/domain/justification"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/cache"
)

type justificationRepository struct {
	justification.Repository
	cache *cache.Cache
}

// NewJustificationRepository wraps a justification repository with caching
// on the pending-by-leader queue.
func NewJustificationRepository(inner justification.Repository, c *cache.Cache) justification.Repository {
	return &justificationRepository{Repository: inner, cache: c}
}

const pendingPrefix = "justifications:pending:"

func (r *justificationRepository) GetPendingByLeader(ctx context.Context, leaderID string) ([]justification.Justification, error) {
	key := cache.KeyPendingJustifications(leaderID)

	var cached []justification.Justification
	if r.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	pending, err := r.Repository.GetPendingByLeader(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	r.cache.SetJSON(ctx, key, pending)
	return pending, nil
}

func (r *justificationRepository) Create(ctx context.Context, j justification.Justification) (justification.Justification, error) {
	created, err := r.Repository.Create(ctx, j)
	if err != nil {
		return justification.Justification{}, err
	}
	r.cache.InvalidatePrefix(ctx, pendingPrefix)
	return created, nil
}

func (r *justificationRepository) UpdateStatus(ctx context.Context, req justification.ReviewUpdate) error {
	if err := r.Repository.UpdateStatus(ctx, req); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(ctx, pendingPrefix)
	return nil
}

func (r *justificationRepository) Delete(ctx context.Context, id string) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(ctx, pendingPrefix)
	return nil
}
