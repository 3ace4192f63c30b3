// Package ingest pulls punch pairs from the time-clock provider and turns
// them into daily records.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/audit"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/notification"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punchsource"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
	"github.com/pontocerto/ponto-backend-go/internal/service/workcalc"
)

// maxFanOut bounds concurrent group processing within one run.
const maxFanOut = 8

type Service struct {
	source       punchsource.Source
	employeeRepo employee.Repository
	recordRepo   record.Repository
	auditRepo    audit.Repository
	sink         notification.Sink
	cal          *workcal.Calendar
	cfg          config.EngineConfig
}

// NewService creates the punch ingestor. sink may be nil when no
// notification channel is configured; deviation alerts are then logged and
// the idempotence guard is still set.
func NewService(
	source punchsource.Source,
	employeeRepo employee.Repository,
	recordRepo record.Repository,
	auditRepo audit.Repository,
	sink notification.Sink,
	cal *workcal.Calendar,
	cfg config.EngineConfig,
) *Service {
	return &Service{
		source:       source,
		employeeRepo: employeeRepo,
		recordRepo:   recordRepo,
		auditRepo:    auditRepo,
		sink:         sink,
		cal:          cal,
		cfg:          cfg,
	}
}

// group is one employee's punch pairs for one date.
type group struct {
	externalID string
	name       string
	date       time.Time
	pairs      []punchsource.PunchPair
}

// Run ingests all punches for one date. A failed fetch aborts the whole run
// and is audit-logged; a failure inside one employee's group never stops the
// others.
func (s *Service) Run(ctx context.Context, date time.Time) error {
	pairs, err := s.source.FetchPunches(ctx, date, date)
	if err != nil {
		if auditErr := s.auditRepo.Append(ctx, audit.ActionIngestRunFailed, "ingest_run", nil, map[string]interface{}{
			"date":  date.Format("2006-01-02"),
			"error": err.Error(),
		}); auditErr != nil {
			slog.Error("failed to audit ingest failure", "error", auditErr)
		}
		return fmt.Errorf("fetch punches for %s: %w", date.Format("2006-01-02"), err)
	}

	groups := groupPairs(pairs)
	if len(groups) == 0 {
		slog.Info("Ingest: no punches for date", "date", date.Format("2006-01-02"))
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for _, grp := range groups {
		grp := grp
		g.Go(func() error {
			if err := s.processGroup(gctx, grp); err != nil {
				slog.Error("Ingest: group failed",
					"external_id", grp.externalID,
					"employee_name", grp.name,
					"date", grp.date.Format("2006-01-02"),
					"error", err)
			}
			// Group failures are isolated; never abort the run.
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("Ingest: run completed", "date", date.Format("2006-01-02"), "groups", len(groups))
	return nil
}

// groupPairs buckets punch pairs by (external employee id, date).
func groupPairs(pairs []punchsource.PunchPair) []group {
	index := make(map[string]int)
	var groups []group

	for _, p := range pairs {
		key := p.ExternalEmployeeID + "|" + p.Date.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{
				externalID: p.ExternalEmployeeID,
				name:       p.EmployeeName,
				date:       p.Date,
			})
		}
		groups[i].pairs = append(groups[i].pairs, p)
	}

	return groups
}

func (s *Service) processGroup(ctx context.Context, grp group) error {
	emp, err := s.resolveEmployee(ctx, grp.externalID, grp.name)
	if err != nil {
		return fmt.Errorf("resolve employee: %w", err)
	}
	if emp == nil {
		slog.Warn("Ingest: no employee match, skipping group",
			"external_id", grp.externalID, "employee_name", grp.name)
		return nil
	}

	if emp.ExternalID == nil {
		// Write-through link; a failure here must not block the record.
		if err := s.employeeRepo.LinkExternalID(ctx, emp.ID, grp.externalID); err != nil {
			slog.Error("Ingest: failed to link external id", "employee_id", emp.ID, "error", err)
		} else if auditErr := s.auditRepo.Append(ctx, audit.ActionEmployeeLinked, "employee", &emp.ID, map[string]interface{}{
			"external_id": grp.externalID,
		}); auditErr != nil {
			slog.Error("failed to audit external id link", "error", auditErr)
		}
	}

	punches := s.punchesFromPairs(grp.pairs)

	dayCtx := workcalc.DayContext{
		Date:                 grp.date,
		Holiday:              s.cal.IsHoliday(grp.date),
		IsApprentice:         emp.IsApprentice,
		ExpectedDailyMinutes: emp.ExpectedMinutes(),
		SaturdayMinutes:      s.cfg.SaturdayMinutes,
		ToleranceMinutes:     s.cfg.ToleranceMinutes,
	}
	result := workcalc.Calculate(punches, dayCtx)

	rec := record.DailyRecord{
		EmployeeID: emp.ID,
		Date:       grp.date,
		Punch1:     punches[0],
		Punch2:     punches[1],
		Punch3:     punches[2],
		Punch4:     punches[3],
	}
	if result != nil {
		rec.TotalWorkedMinutes = &result.TotalMinutes
		rec.DifferenceMinutes = &result.DifferenceMinutes
		classification := result.Classification
		rec.Classification = &classification
	}

	saved, err := s.recordRepo.Upsert(ctx, rec)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	s.maybeAlert(ctx, *emp, saved, result)
	return nil
}

// resolveEmployee maps an external punch group to an internal employee:
// first by linked external id, then by case-insensitive exact name match.
// The name fallback misfires for employees sharing a display name, so it is
// kept behind this single function until a stricter strategy lands.
func (s *Service) resolveEmployee(ctx context.Context, externalID, name string) (*employee.Employee, error) {
	emp, err := s.employeeRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if emp != nil {
		return emp, nil
	}
	return s.employeeRepo.GetByName(ctx, name)
}

// punchesFromPairs sorts pairs by entry timestamp and assigns the first pair
// to punch_1/punch_2 and the second to punch_3/punch_4. Pairs beyond the
// second are dropped; there are only four slots.
func (s *Service) punchesFromPairs(pairs []punchsource.PunchPair) [4]*string {
	sorted := make([]punchsource.PunchPair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DateIn < sorted[j].DateIn
	})

	var punches [4]*string
	for i, pair := range sorted {
		if i >= 2 {
			break
		}
		in := s.toLocalClock(pair.DateIn)
		punches[i*2] = &in
		if pair.DateOut != nil {
			out := s.toLocalClock(*pair.DateOut)
			punches[i*2+1] = &out
		}
	}
	return punches
}

// toLocalClock renders an epoch-millisecond timestamp as local "HH:MM" in
// the calendar's fixed offset.
func (s *Service) toLocalClock(epochMillis int64) string {
	return time.UnixMilli(epochMillis).In(s.cal.Location()).Format("15:04")
}

// maybeAlert fires the at-most-once employee deviation alert. The guard is
// set even when no sink is configured so a later run never re-alerts.
func (s *Service) maybeAlert(ctx context.Context, emp employee.Employee, rec record.DailyRecord, result *workcalc.Result) {
	if result == nil || result.Classification == record.ClassificationNormal || rec.AlertSent {
		return
	}
	if abs(result.DifferenceMinutes) < s.cfg.AlertThresholdMinutes {
		return
	}

	if s.sink != nil {
		if err := s.sink.NotifyEmployeeDeviation(ctx, emp, rec); err != nil {
			slog.Error("Ingest: deviation alert failed", "employee_id", emp.ID, "error", err)
		}
	} else {
		slog.Info("Ingest: deviation alert suppressed, no sink configured",
			"employee_id", emp.ID,
			"date", rec.Date.Format("2006-01-02"),
			"difference_minutes", result.DifferenceMinutes)
	}

	if err := s.recordRepo.MarkAlertSent(ctx, rec.ID); err != nil {
		slog.Error("Ingest: failed to mark alert sent", "record_id", rec.ID, "error", err)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
