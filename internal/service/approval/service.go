// Package approval runs the two review workflows a leader works through:
// justifications for late/overtime days, and punch adjustment requests that
// actually rewrite a record's punches on approval.
package approval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/adjustment"
	"github.com/pontocerto/ponto-backend-go/internal/domain/audit"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/justification"
	"github.com/pontocerto/ponto-backend-go/internal/domain/notification"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/workcal"
	"github.com/pontocerto/ponto-backend-go/internal/service/workcalc"
)

// TxRunner executes fn atomically when the backing store supports
// transactions. A nil runner executes fn directly.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	tx                TxRunner
	justificationRepo justification.Repository
	adjustmentRepo    adjustment.Repository
	recordRepo        record.Repository
	employeeRepo      employee.Repository
	auditRepo         audit.Repository
	sink              notification.Sink
	cal               *workcal.Calendar
	cfg               config.EngineConfig
}

func NewService(
	tx TxRunner,
	justificationRepo justification.Repository,
	adjustmentRepo adjustment.Repository,
	recordRepo record.Repository,
	employeeRepo employee.Repository,
	auditRepo audit.Repository,
	sink notification.Sink,
	cal *workcal.Calendar,
	cfg config.EngineConfig,
) *Service {
	return &Service{
		tx:                tx,
		justificationRepo: justificationRepo,
		adjustmentRepo:    adjustmentRepo,
		recordRepo:        recordRepo,
		employeeRepo:      employeeRepo,
		auditRepo:         auditRepo,
		sink:              sink,
		cal:               cal,
		cfg:               cfg,
	}
}

// inTx runs fn inside the configured transaction runner.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx(ctx, fn)
}

// ========================================
// JUSTIFICATIONS
// ========================================

// CreateJustification files a pending justification against an existing
// record.
func (s *Service) CreateJustification(ctx context.Context, req justification.CreateJustificationRequest) (justification.JustificationResponse, error) {
	if err := req.Validate(); err != nil {
		return justification.JustificationResponse{}, err
	}

	if _, err := s.recordRepo.GetByID(ctx, req.RecordID); err != nil {
		return justification.JustificationResponse{}, err
	}

	created, err := s.justificationRepo.Create(ctx, justification.Justification{
		RecordID:   req.RecordID,
		EmployeeID: req.EmployeeID,
		Type:       justification.Type(req.Type),
		Reason:     req.Reason,
		Note:       req.Note,
		Status:     justification.StatusPending,
	})
	if err != nil {
		return justification.JustificationResponse{}, fmt.Errorf("create justification: %w", err)
	}

	s.audit(ctx, audit.ActionJustificationCreated, "justification", created.ID, map[string]interface{}{
		"record_id":   created.RecordID,
		"employee_id": created.EmployeeID,
		"type":        string(created.Type),
	})

	return justification.ToResponse(created), nil
}

// GetPendingJustifications lists a leader's review queue.
func (s *Service) GetPendingJustifications(ctx context.Context, leaderID string) ([]justification.JustificationResponse, error) {
	pending, err := s.justificationRepo.GetPendingByLeader(ctx, leaderID)
	if err != nil {
		return nil, fmt.Errorf("get pending justifications: %w", err)
	}

	responses := make([]justification.JustificationResponse, 0, len(pending))
	for _, j := range pending {
		responses = append(responses, justification.ToResponse(j))
	}
	return responses, nil
}

// ApproveJustification moves a pending justification to approved. The
// reviewer comment is mandatory on both transitions.
func (s *Service) ApproveJustification(ctx context.Context, req justification.ReviewRequest) error {
	return s.reviewJustification(ctx, req, justification.StatusApproved)
}

// RejectJustification moves a pending justification to rejected.
func (s *Service) RejectJustification(ctx context.Context, req justification.ReviewRequest) error {
	return s.reviewJustification(ctx, req, justification.StatusRejected)
}

func (s *Service) reviewJustification(ctx context.Context, req justification.ReviewRequest, status justification.Status) error {
	if strings.TrimSpace(req.Comment) == "" {
		return justification.ErrCommentRequired
	}

	j, err := s.justificationRepo.GetByID(ctx, req.JustificationID)
	if err != nil {
		return err
	}
	if j.Status != justification.StatusPending {
		return justification.ErrAlreadyProcessed
	}

	if err := s.justificationRepo.UpdateStatus(ctx, justification.ReviewUpdate{
		ID:         j.ID,
		Status:     status,
		ReviewerID: req.ReviewerID,
		Comment:    req.Comment,
		ReviewedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("update justification status: %w", err)
	}

	s.audit(ctx, audit.ActionJustificationReviewed, "justification", j.ID, map[string]interface{}{
		"record_id":   j.RecordID,
		"employee_id": j.EmployeeID,
		"status":      string(status),
		"reviewer_id": req.ReviewerID,
	})

	s.notifyJustificationOutcome(ctx, j, status, req.Comment)
	return nil
}

func (s *Service) notifyJustificationOutcome(ctx context.Context, j justification.Justification, status justification.Status, comment string) {
	emp, err := s.employeeRepo.GetByID(ctx, j.EmployeeID)
	if err != nil {
		slog.Error("Approval: employee lookup for outcome notice failed", "employee_id", j.EmployeeID, "error", err)
		return
	}
	rec, err := s.recordRepo.GetByID(ctx, j.RecordID)
	if err != nil {
		slog.Error("Approval: record lookup for outcome notice failed", "record_id", j.RecordID, "error", err)
		return
	}
	if err := s.sink.NotifyJustificationOutcome(ctx, emp, rec, string(j.Type), string(status), comment); err != nil {
		slog.Error("Approval: justification outcome notice failed", "justification_id", j.ID, "error", err)
	}
}

// ========================================
// PUNCH ADJUSTMENTS
// ========================================

// CreateAdjustment files a pending punch adjustment request against an
// existing record.
func (s *Service) CreateAdjustment(ctx context.Context, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	if _, err := s.recordRepo.GetByID(ctx, req.RecordID); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	created, err := s.adjustmentRepo.Create(ctx, adjustment.PunchAdjustmentRequest{
		RecordID:     req.RecordID,
		EmployeeID:   req.EmployeeID,
		Type:         adjustment.Type(req.Type),
		MissingSlots: req.MissingSlots,
		Reason:       req.Reason,
		Status:       adjustment.StatusPending,
	})
	if err != nil {
		return adjustment.AdjustmentResponse{}, fmt.Errorf("create adjustment: %w", err)
	}

	s.audit(ctx, audit.ActionAdjustmentCreated, "punch_adjustment", created.ID, map[string]interface{}{
		"record_id":   created.RecordID,
		"employee_id": created.EmployeeID,
		"type":        string(created.Type),
	})

	return adjustment.ToResponse(created), nil
}

// GetPendingAdjustments lists a leader's adjustment review queue.
func (s *Service) GetPendingAdjustments(ctx context.Context, leaderID string) ([]adjustment.AdjustmentResponse, error) {
	pending, err := s.adjustmentRepo.GetPendingByLeader(ctx, leaderID)
	if err != nil {
		return nil, fmt.Errorf("get pending adjustments: %w", err)
	}

	responses := make([]adjustment.AdjustmentResponse, 0, len(pending))
	for _, p := range pending {
		responses = append(responses, adjustment.ToResponse(p))
	}
	return responses, nil
}

// ApproveAdjustment merges the reviewer's corrected punches into the record,
// recalculates the day, and closes the request. Slots the reviewer did not
// supply keep the record's stored value.
func (s *Service) ApproveAdjustment(ctx context.Context, req adjustment.ApproveRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	corrected := req.Punches()
	if corrected[0] == nil && corrected[1] == nil && corrected[2] == nil && corrected[3] == nil {
		return adjustment.ErrNoCorrectedPunches
	}

	adj, err := s.adjustmentRepo.GetByID(ctx, req.AdjustmentID)
	if err != nil {
		return err
	}
	if adj.Status != adjustment.StatusPending {
		return adjustment.ErrAlreadyProcessed
	}

	rec, err := s.recordRepo.GetByID(ctx, adj.RecordID)
	if err != nil {
		return err
	}
	emp, err := s.employeeRepo.GetByID(ctx, adj.EmployeeID)
	if err != nil {
		return err
	}

	merged := rec.Punches()
	for i, p := range corrected {
		if p != nil {
			merged[i] = p
		}
	}

	total, difference, classification := s.recalculate(merged, emp, rec.Date)

	var comment *string
	if strings.TrimSpace(req.Comment) != "" {
		comment = &req.Comment
	}

	// The record rewrite and the status transition must land together; a
	// corrected record with a still-pending request would invite a second
	// conflicting approval.
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.recordRepo.ApplyAdjustment(ctx, rec.ID, merged, total, difference, classification); err != nil {
			return fmt.Errorf("apply adjustment to record: %w", err)
		}
		if err := s.adjustmentRepo.UpdateStatus(ctx, adjustment.ReviewUpdate{
			ID:               adj.ID,
			Status:           adjustment.StatusApproved,
			ReviewerID:       req.ReviewerID,
			Comment:          comment,
			CorrectedPunches: corrected,
			ReviewedAt:       time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("update adjustment status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit(ctx, audit.ActionAdjustmentReviewed, "punch_adjustment", adj.ID, map[string]interface{}{
		"record_id":   adj.RecordID,
		"employee_id": adj.EmployeeID,
		"status":      string(adjustment.StatusApproved),
		"reviewer_id": req.ReviewerID,
	})

	s.notifyAdjustmentOutcome(ctx, adj, emp, adjustment.StatusApproved, req.Comment)
	return nil
}

// RejectAdjustment closes the request without touching the record. A
// comment explaining the rejection is mandatory.
func (s *Service) RejectAdjustment(ctx context.Context, req adjustment.RejectRequest) error {
	if strings.TrimSpace(req.Comment) == "" {
		return adjustment.ErrCommentRequired
	}

	adj, err := s.adjustmentRepo.GetByID(ctx, req.AdjustmentID)
	if err != nil {
		return err
	}
	if adj.Status != adjustment.StatusPending {
		return adjustment.ErrAlreadyProcessed
	}

	if err := s.adjustmentRepo.UpdateStatus(ctx, adjustment.ReviewUpdate{
		ID:         adj.ID,
		Status:     adjustment.StatusRejected,
		ReviewerID: req.ReviewerID,
		Comment:    &req.Comment,
		ReviewedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("update adjustment status: %w", err)
	}

	s.audit(ctx, audit.ActionAdjustmentReviewed, "punch_adjustment", adj.ID, map[string]interface{}{
		"record_id":   adj.RecordID,
		"employee_id": adj.EmployeeID,
		"status":      string(adjustment.StatusRejected),
		"reviewer_id": req.ReviewerID,
	})

	emp, err := s.employeeRepo.GetByID(ctx, adj.EmployeeID)
	if err != nil {
		slog.Error("Approval: employee lookup for outcome notice failed", "employee_id", adj.EmployeeID, "error", err)
		return nil
	}
	s.notifyAdjustmentOutcome(ctx, adj, emp, adjustment.StatusRejected, req.Comment)
	return nil
}

func (s *Service) notifyAdjustmentOutcome(ctx context.Context, adj adjustment.PunchAdjustmentRequest, emp employee.Employee, status adjustment.Status, comment string) {
	rec, err := s.recordRepo.GetByID(ctx, adj.RecordID)
	if err != nil {
		slog.Error("Approval: record lookup for outcome notice failed", "record_id", adj.RecordID, "error", err)
		return
	}
	if err := s.sink.NotifyAdjustmentOutcome(ctx, emp, rec, string(status), comment); err != nil {
		slog.Error("Approval: adjustment outcome notice failed", "adjustment_id", adj.ID, "error", err)
	}
}

// recalculate recomputes totals for merged punches. A still-incomplete set
// yields nil totals and no classification change beyond what the nil result
// implies (the record keeps ajuste until fully corrected).
func (s *Service) recalculate(punches [4]*string, emp employee.Employee, date time.Time) (*int, *int, *record.Classification) {
	dayCtx := workcalc.DayContext{
		Date:                 date,
		Holiday:              s.cal.IsHoliday(date),
		IsApprentice:         emp.IsApprentice,
		ExpectedDailyMinutes: emp.ExpectedMinutes(),
		SaturdayMinutes:      s.cfg.SaturdayMinutes,
		ToleranceMinutes:     s.cfg.ToleranceMinutes,
	}
	result := workcalc.Calculate(punches, dayCtx)
	if result == nil {
		return nil, nil, nil
	}
	return &result.TotalMinutes, &result.DifferenceMinutes, &result.Classification
}

// ========================================
// MANAGER DECISIONS
// ========================================

// DecideNoRecord resolves a sem_registro day as folga or falta on the
// leader's say-so.
func (s *Service) DecideNoRecord(ctx context.Context, req record.ManagerDecisionRequest, reviewerID string) error {
	if err := req.Validate(); err != nil {
		return err
	}

	rec, err := s.recordRepo.GetByID(ctx, req.RecordID)
	if err != nil {
		return err
	}
	if rec.Classification == nil || *rec.Classification != record.ClassificationSemRegistro {
		return record.ErrNotAwaitingDecision
	}

	decision := record.Classification(req.Decision)
	if err := s.recordRepo.SetClassification(ctx, rec.ID, decision); err != nil {
		return fmt.Errorf("set manager decision: %w", err)
	}

	s.audit(ctx, audit.ActionManagerDecision, "daily_record", rec.ID, map[string]interface{}{
		"employee_id": rec.EmployeeID,
		"date":        rec.Date.Format("2006-01-02"),
		"decision":    req.Decision,
		"reviewer_id": reviewerID,
	})
	return nil
}

func (s *Service) audit(ctx context.Context, action, entityType, entityID string, details map[string]interface{}) {
	if err := s.auditRepo.Append(ctx, action, entityType, &entityID, details); err != nil {
		slog.Error("failed to write audit entry", "action", action, "entity_id", entityID, "error", err)
	}
}
