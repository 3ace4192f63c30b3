// Package cached decorates the hot list reads of the PostgreSQL
// repositories with the Redis read-through cache. Single-row lookups used by
// the engine's correctness paths always hit the database; only the
// dashboard-facing listings are cached.
package cached

import (
	"context"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/cache"
)

type recordRepository struct {
	record.Repository
	cache *cache.Cache
}

// NewRecordRepository wraps a record repository with caching on the date and
// leader listings. Every write drops the whole records namespace; precise
// invalidation is not worth tracking which leaders a row belongs to.
func NewRecordRepository(inner record.Repository, c *cache.Cache) record.Repository {
	return &recordRepository{Repository: inner, cache: c}
}

const recordsPrefix = "records:"

func (r *recordRepository) GetByDate(ctx context.Context, date time.Time) ([]record.DailyRecord, error) {
	key := cache.KeyRecordsByDate(date)

	var cached []record.DailyRecord
	if r.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	records, err := r.Repository.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	r.cache.SetJSON(ctx, key, records)
	return records, nil
}

func (r *recordRepository) GetByLeaderAndDateRange(ctx context.Context, leaderID string, start, end time.Time) ([]record.DailyRecord, error) {
	key := cache.KeyRecordsByLeader(leaderID, start, end)

	var cached []record.DailyRecord
	if r.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	records, err := r.Repository.GetByLeaderAndDateRange(ctx, leaderID, start, end)
	if err != nil {
		return nil, err
	}
	r.cache.SetJSON(ctx, key, records)
	return records, nil
}

func (r *recordRepository) Upsert(ctx context.Context, rec record.DailyRecord) (record.DailyRecord, error) {
	saved, err := r.Repository.Upsert(ctx, rec)
	if err != nil {
		return record.DailyRecord{}, err
	}
	r.cache.InvalidatePrefix(ctx, recordsPrefix)
	return saved, nil
}

func (r *recordRepository) SetClassification(ctx context.Context, id string, classification record.Classification) error {
	if err := r.Repository.SetClassification(ctx, id, classification); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(ctx, recordsPrefix)
	return nil
}

func (r *recordRepository) MarkAlertSent(ctx context.Context, id string) error {
	if err := r.Repository.MarkAlertSent(ctx, id); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(ctx, recordsPrefix)
	return nil
}

func (r *recordRepository) MarkManagerAlertSent(ctx context.Context, id string) error {
	if err := r.Repository.MarkManagerAlertSent(ctx, id); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(ctx, recordsPrefix)
	return nil
}

func (r *recordRepository) ApplyAdjustment(ctx context.Context, id string, punches [4]*string, total, difference *int, classification *record.Classification) error {
	if err := r.Repository.ApplyAdjustment(ctx, id, punches, total, difference, classification); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(ctx, recordsPrefix)
	return nil
}
