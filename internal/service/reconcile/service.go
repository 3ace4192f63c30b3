// Package reconcile finalizes each employee's day after it ends: days with
// no punches go to the manager, incomplete or implausible days go back to
// the employee, complete days keep their computed classification.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/audit"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/notification"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
	"github.com/pontocerto/ponto-backend-go/internal/service/workcalc"
)

type Service struct {
	employeeRepo employee.Repository
	leaderRepo   employee.LeaderRepository
	recordRepo   record.Repository
	auditRepo    audit.Repository
	sink         notification.Sink
	cal          *workcal.Calendar
	cfg          config.EngineConfig
}

func NewService(
	employeeRepo employee.Repository,
	leaderRepo employee.LeaderRepository,
	recordRepo record.Repository,
	auditRepo audit.Repository,
	sink notification.Sink,
	cal *workcal.Calendar,
	cfg config.EngineConfig,
) *Service {
	return &Service{
		employeeRepo: employeeRepo,
		leaderRepo:   leaderRepo,
		recordRepo:   recordRepo,
		auditRepo:    auditRepo,
		sink:         sink,
		cal:          cal,
		cfg:          cfg,
	}
}

// Run reconciles every punch-required employee for one date. A failure on
// one employee is audit-logged and never stops the loop.
func (s *Service) Run(ctx context.Context, date time.Time) error {
	employees, err := s.employeeRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load employees: %w", err)
	}

	reconciled := 0
	for _, emp := range employees {
		if emp.NoPunchRequired {
			continue
		}

		if err := s.reconcileEmployee(ctx, emp, date); err != nil {
			slog.Error("Reconcile: employee failed", "employee_id", emp.ID, "error", err)
			if auditErr := s.auditRepo.Append(ctx, audit.ActionReconcileFailed, "employee", &emp.ID, map[string]interface{}{
				"date":  date.Format("2006-01-02"),
				"error": err.Error(),
			}); auditErr != nil {
				slog.Error("failed to audit reconcile failure", "error", auditErr)
			}
			continue
		}
		reconciled++
	}

	slog.Info("Reconcile: run completed", "date", date.Format("2006-01-02"), "employees", reconciled)
	return nil
}

func (s *Service) reconcileEmployee(ctx context.Context, emp employee.Employee, date time.Time) error {
	rec, err := s.recordRepo.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}

	if !s.cal.IsWorkingDay(date, emp.WorksSaturday) {
		// A stray record on a rest day gets folga; no record means nothing
		// to do.
		if rec != nil && rec.Classification == nil {
			return s.finalize(ctx, rec.ID, emp.ID, date, record.ClassificationFolga)
		}
		return nil
	}

	dayCtx := workcalc.DayContext{
		Date:                 date,
		Holiday:              s.cal.IsHoliday(date),
		IsApprentice:         emp.IsApprentice,
		ExpectedDailyMinutes: emp.ExpectedMinutes(),
		SaturdayMinutes:      s.cfg.SaturdayMinutes,
		ToleranceMinutes:     s.cfg.ToleranceMinutes,
	}
	expectedPunches := dayCtx.ExpectedPunches()

	// Zero punches on a working day: the manager decides folga or falta.
	if rec == nil || rec.PunchCount() == 0 {
		return s.handleNoRecord(ctx, emp, rec, date)
	}

	count := rec.PunchCount()
	if count < expectedPunches {
		missing := rec.MissingSlots(expectedPunches)
		if err := s.finalize(ctx, rec.ID, emp.ID, date, record.ClassificationAjuste); err != nil {
			return err
		}
		s.notifyEmployee(ctx, *rec, func() error {
			return s.sink.NotifyEmployeeMissingPunch(ctx, emp, *rec, missing)
		})
		return nil
	}

	// Complete punch set; check plausibility before letting the computed
	// classification stand.
	if !emp.IsApprentice && s.punchAfter(rec.Punch1, s.cfg.LateStartCutoff) {
		if err := s.finalize(ctx, rec.ID, emp.ID, date, record.ClassificationAjuste); err != nil {
			return err
		}
		s.notifyEmployee(ctx, *rec, func() error {
			return s.sink.NotifyEmployeeLateStart(ctx, emp, *rec)
		})
		return nil
	}

	if expectedPunches == 4 {
		slots := record.SlotNames(expectedPunches)
		punches := rec.Punches()
		for i := 0; i < 3; i++ { // non-final punches only
			if s.punchAfter(punches[i], s.cfg.EveningCutoff) {
				if err := s.finalize(ctx, rec.ID, emp.ID, date, record.ClassificationAjuste); err != nil {
					return err
				}
				s.notifyEmployee(ctx, *rec, func() error {
					return s.sink.NotifyEmployeeLatePunch(ctx, emp, *rec, slots[i])
				})
				return nil
			}
		}
	}

	// The computed classification from ingestion stands.
	return nil
}

// handleNoRecord marks a punch-less working day sem_registro and asks the
// employee's leader to decide folga or falta. The manager alert fires at
// most once per record.
func (s *Service) handleNoRecord(ctx context.Context, emp employee.Employee, rec *record.DailyRecord, date time.Time) error {
	if rec == nil {
		classification := record.ClassificationSemRegistro
		created, err := s.recordRepo.Upsert(ctx, record.DailyRecord{
			EmployeeID:     emp.ID,
			Date:           date,
			Classification: &classification,
		})
		if err != nil {
			return fmt.Errorf("create sem_registro record: %w", err)
		}
		rec = &created
	} else if rec.Classification != nil && (*rec.Classification == record.ClassificationFolga || *rec.Classification == record.ClassificationFalta) {
		// The leader already resolved this day; the decision is terminal
		// and a re-run must not reopen it.
		return nil
	} else if rec.Classification == nil || *rec.Classification != record.ClassificationSemRegistro {
		if err := s.finalize(ctx, rec.ID, emp.ID, date, record.ClassificationSemRegistro); err != nil {
			return err
		}
	}

	if rec.ManagerAlertSent {
		return nil
	}
	if err := s.sink.NotifyManagerNoRecord(ctx, emp.LeaderID, emp, date); err != nil {
		slog.Error("Reconcile: manager no-record alert failed", "employee_id", emp.ID, "error", err)
	}
	if err := s.recordRepo.MarkManagerAlertSent(ctx, rec.ID); err != nil {
		slog.Error("Reconcile: failed to mark manager alert sent", "record_id", rec.ID, "error", err)
	}
	return nil
}

// finalize writes the classification and audits the decision.
func (s *Service) finalize(ctx context.Context, recordID, employeeID string, date time.Time, classification record.Classification) error {
	if err := s.recordRepo.SetClassification(ctx, recordID, classification); err != nil {
		return fmt.Errorf("set classification %s: %w", classification, err)
	}
	if err := s.auditRepo.Append(ctx, audit.ActionReconcileFinalized, "daily_record", &recordID, map[string]interface{}{
		"employee_id":    employeeID,
		"date":           date.Format("2006-01-02"),
		"classification": string(classification),
	}); err != nil {
		slog.Error("failed to audit reconcile decision", "record_id", recordID, "error", err)
	}
	return nil
}

// notifyEmployee fires one employee-facing alert guarded by the record's
// alert_sent flag, so an employee is alerted at most once per record.
func (s *Service) notifyEmployee(ctx context.Context, rec record.DailyRecord, send func() error) {
	if rec.AlertSent {
		return
	}
	if err := send(); err != nil {
		slog.Error("Reconcile: employee alert failed", "record_id", rec.ID, "error", err)
	}
	if err := s.recordRepo.MarkAlertSent(ctx, rec.ID); err != nil {
		slog.Error("Reconcile: failed to mark alert sent", "record_id", rec.ID, "error", err)
	}
}

// RunWeekly sends each leader a digest of the week's deviations. Leaders
// whose teams had nothing beyond tolerance get no message.
func (s *Service) RunWeekly(ctx context.Context, start, end time.Time) error {
	leaders, err := s.leaderRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load leaders: %w", err)
	}

	sent := 0
	for _, leader := range leaders {
		records, err := s.recordRepo.GetByLeaderAndDateRange(ctx, leader.ID, start, end)
		if err != nil {
			slog.Error("Reconcile: weekly summary lookup failed", "leader_id", leader.ID, "error", err)
			continue
		}

		deviations := make([]record.DailyRecord, 0, len(records))
		for _, rec := range records {
			if rec.Classification == nil || *rec.Classification == record.ClassificationNormal {
				continue
			}
			if rec.DifferenceMinutes == nil || abs(*rec.DifferenceMinutes) < s.cfg.AlertThresholdMinutes {
				continue
			}
			deviations = append(deviations, rec)
		}
		if len(deviations) == 0 {
			continue
		}

		if err := s.sink.NotifyManagerWeeklySummary(ctx, leader.ID, start, end, deviations); err != nil {
			slog.Error("Reconcile: weekly summary send failed", "leader_id", leader.ID, "error", err)
			continue
		}
		if err := s.auditRepo.Append(ctx, audit.ActionWeeklySummarySent, "leader", &leader.ID, map[string]interface{}{
			"week_start": start.Format("2006-01-02"),
			"week_end":   end.Format("2006-01-02"),
			"deviations": len(deviations),
		}); err != nil {
			slog.Error("failed to audit weekly summary", "leader_id", leader.ID, "error", err)
		}
		sent++
	}

	slog.Info("Reconcile: weekly summaries sent", "leaders", sent)
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// punchAfter reports whether punch is strictly later than the "HH:MM"
// cutoff. Unparseable values never trip a cutoff.
func (s *Service) punchAfter(punch *string, cutoff string) bool {
	if punch == nil {
		return false
	}
	p, err := workcalc.ParseClock(*punch)
	if err != nil {
		return false
	}
	c, err := workcalc.ParseClock(cutoff)
	if err != nil {
		return false
	}
	return p > c
}
