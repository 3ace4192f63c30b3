package record

import (
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// ========================================
// DAILY RECORD DTOs
// ========================================

type ListByDateRequest struct {
	Date string `json:"date"`
}

func (r *ListByDateRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListByLeaderRequest struct {
	LeaderID  string `json:"leader_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *ListByLeaderRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaderID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leader_id",
			Message: "leader_id is required",
		})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ManagerDecisionRequest resolves a sem_registro day as either folga or
// falta. Only those two outcomes may be asserted by a manager.
type ManagerDecisionRequest struct {
	RecordID string `json:"record_id"`
	Decision string `json:"decision"`
}

func (r *ManagerDecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id is required",
		})
	}

	decision := Classification(r.Decision)
	if decision != ClassificationFolga && decision != ClassificationFalta {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be either folga or falta",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailyRecordResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       *string         `json:"employee_name,omitempty"`
	Date               string          `json:"date"`
	Punch1             *string         `json:"punch_1"`
	Punch2             *string         `json:"punch_2"`
	Punch3             *string         `json:"punch_3"`
	Punch4             *string         `json:"punch_4"`
	TotalWorkedMinutes *int            `json:"total_worked_minutes"`
	DifferenceMinutes  *int            `json:"difference_minutes"`
	Classification     *Classification `json:"classification"`
	AlertSent          bool            `json:"alert_sent"`
	ManagerAlertSent   bool            `json:"manager_alert_sent"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToResponse converts a DailyRecord entity to its API representation.
func ToResponse(rec DailyRecord) DailyRecordResponse {
	return DailyRecordResponse{
		ID:                 rec.ID,
		EmployeeID:         rec.EmployeeID,
		EmployeeName:       rec.EmployeeName,
		Date:               rec.Date.Format("2006-01-02"),
		Punch1:             rec.Punch1,
		Punch2:             rec.Punch2,
		Punch3:             rec.Punch3,
		Punch4:             rec.Punch4,
		TotalWorkedMinutes: rec.TotalWorkedMinutes,
		DifferenceMinutes:  rec.DifferenceMinutes,
		Classification:     rec.Classification,
		AlertSent:          rec.AlertSent,
		ManagerAlertSent:   rec.ManagerAlertSent,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}
