package adjustment

import (
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH ADJUSTMENT DTOs
// ========================================

type CreateAdjustmentRequest struct {
	RecordID     string   `json:"record_id"`
	EmployeeID   string   `json:"employee_id"`
	Type         string   `json:"type"`
	MissingSlots []string `json:"missing_slots"`
	Reason       string   `json:"reason"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id is required",
		})
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if !Type(r.Type).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be either missing_punch or late_start",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApproveRequest carries the reviewer's corrected punches. Any subset of the
// four slots may be supplied; omitted slots keep their stored value.
type ApproveRequest struct {
	AdjustmentID string  `json:"-"`
	ReviewerID   string  `json:"-"`
	Comment      string  `json:"comment"`
	Punch1       *string `json:"punch_1"`
	Punch2       *string `json:"punch_2"`
	Punch3       *string `json:"punch_3"`
	Punch4       *string `json:"punch_4"`
}

func (r *ApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	punches := map[string]*string{
		"punch_1": r.Punch1,
		"punch_2": r.Punch2,
		"punch_3": r.Punch3,
		"punch_4": r.Punch4,
	}
	for field, p := range punches {
		if p != nil && !validator.IsValidClockTime(*p) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "must be a valid HH:MM time",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Punches returns the corrected punches in slot order.
func (r *ApproveRequest) Punches() [4]*string {
	return [4]*string{r.Punch1, r.Punch2, r.Punch3, r.Punch4}
}

type RejectRequest struct {
	AdjustmentID string `json:"-"`
	ReviewerID   string `json:"-"`
	Comment      string `json:"comment"`
}

// ReviewUpdate is the repository-level write of a terminal review.
type ReviewUpdate struct {
	ID               string
	Status           Status
	ReviewerID       string
	Comment          *string
	CorrectedPunches [4]*string
	ReviewedAt       time.Time
}

type AdjustmentResponse struct {
	ID              string     `json:"id"`
	RecordID        string     `json:"record_id"`
	EmployeeID      string     `json:"employee_id"`
	Type            Type       `json:"type"`
	MissingSlots    []string   `json:"missing_slots"`
	Reason          string     `json:"reason"`
	Status          Status     `json:"status"`
	CorrectedPunch1 *string    `json:"corrected_punch_1,omitempty"`
	CorrectedPunch2 *string    `json:"corrected_punch_2,omitempty"`
	CorrectedPunch3 *string    `json:"corrected_punch_3,omitempty"`
	CorrectedPunch4 *string    `json:"corrected_punch_4,omitempty"`
	ReviewerID      *string    `json:"reviewer_id,omitempty"`
	ReviewerComment *string    `json:"reviewer_comment,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts a PunchAdjustmentRequest entity to its API
// representation.
func ToResponse(p PunchAdjustmentRequest) AdjustmentResponse {
	return AdjustmentResponse{
		ID:              p.ID,
		RecordID:        p.RecordID,
		EmployeeID:      p.EmployeeID,
		Type:            p.Type,
		MissingSlots:    p.MissingSlots,
		Reason:          p.Reason,
		Status:          p.Status,
		CorrectedPunch1: p.CorrectedPunch1,
		CorrectedPunch2: p.CorrectedPunch2,
		CorrectedPunch3: p.CorrectedPunch3,
		CorrectedPunch4: p.CorrectedPunch4,
		ReviewerID:      p.ReviewerID,
		ReviewerComment: p.ReviewerComment,
		ReviewedAt:      p.ReviewedAt,
		CreatedAt:       p.CreatedAt,
	}
}
