package employee

import (
	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// UpdateEmployeeRequest mutates the scheduling flags an admin may change.
// Nil fields are left untouched.
type UpdateEmployeeRequest struct {
	ID                   string  `json:"-"`
	LeaderID             *string `json:"leader_id"`
	SecondaryLeaderID    *string `json:"secondary_leader_id"`
	IsApprentice         *bool   `json:"is_apprentice"`
	ExpectedDailyMinutes *int    `json:"expected_daily_minutes"`
	NoPunchRequired      *bool   `json:"no_punch_required"`
	WorksSaturday        *bool   `json:"works_saturday"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "employee id is required",
		})
	}

	if r.ExpectedDailyMinutes != nil && (*r.ExpectedDailyMinutes <= 0 || *r.ExpectedDailyMinutes > 24*60) {
		errs = append(errs, validator.ValidationError{
			Field:   "expected_daily_minutes",
			Message: "expected_daily_minutes must be between 1 and 1440",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExpectedMinutes returns the employee's configured daily workload, falling
// back to the apprentice or full-time default when unset.
func (e Employee) ExpectedMinutes() int {
	if e.ExpectedDailyMinutes > 0 {
		return e.ExpectedDailyMinutes
	}
	if e.IsApprentice {
		return DefaultApprenticeMinutes
	}
	return DefaultDailyMinutes
}
