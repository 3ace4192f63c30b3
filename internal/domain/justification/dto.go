package justification

import (
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// ========================================
// JUSTIFICATION DTOs
// ========================================

type CreateJustificationRequest struct {
	RecordID   string  `json:"record_id"`
	EmployeeID string  `json:"employee_id"`
	Type       string  `json:"type"`
	Reason     string  `json:"reason"`
	Note       *string `json:"note"`
}

func (r *CreateJustificationRequest) Validate() error {
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
			Message: "type must be either late or overtime",
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

type ReviewRequest struct {
	JustificationID string `json:"-"`
	ReviewerID      string `json:"-"`
	Comment         string `json:"comment"`
}

// ReviewUpdate is the repository-level write of a terminal review.
type ReviewUpdate struct {
	ID         string
	Status     Status
	ReviewerID string
	Comment    string
	ReviewedAt time.Time
}

type JustificationResponse struct {
	ID              string     `json:"id"`
	RecordID        string     `json:"record_id"`
	EmployeeID      string     `json:"employee_id"`
	Type            Type       `json:"type"`
	Reason          string     `json:"reason"`
	Note            *string    `json:"note,omitempty"`
	Status          Status     `json:"status"`
	ReviewerID      *string    `json:"reviewer_id,omitempty"`
	ReviewerComment *string    `json:"reviewer_comment,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts a Justification entity to its API representation.
func ToResponse(j Justification) JustificationResponse {
	return JustificationResponse{
		ID:              j.ID,
		RecordID:        j.RecordID,
		EmployeeID:      j.EmployeeID,
		Type:            j.Type,
		Reason:          j.Reason,
		Note:            j.Note,
		Status:          j.Status,
		ReviewerID:      j.ReviewerID,
		ReviewerComment: j.ReviewerComment,
		ReviewedAt:      j.ReviewedAt,
		CreatedAt:       j.CreatedAt,
	}
}
