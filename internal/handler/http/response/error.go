package response

import (
	"errors"
	"net/http"

	"github.com/pontocerto/ponto-backend-go/internal/domain/adjustment"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/justification"
	"github.com/pontocerto/ponto-backend-go/internal/domain/record"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrLeaderNotFound):
		NotFound(w, "Leader not found")

	// Record domain errors
	case errors.Is(err, record.ErrRecordNotFound):
		NotFound(w, "Daily record not found")
	case errors.Is(err, record.ErrInvalidClassification):
		BadRequest(w, "Invalid classification value", nil)
	case errors.Is(err, record.ErrNotAwaitingDecision):
		Conflict(w, "Record is not awaiting a manager decision")

	// Justification domain errors
	case errors.Is(err, justification.ErrJustificationNotFound):
		NotFound(w, "Justification not found")
	case errors.Is(err, justification.ErrAlreadyProcessed):
		Conflict(w, "Justification already processed")
	case errors.Is(err, justification.ErrCommentRequired):
		BadRequest(w, "A reviewer comment is required", nil)

	// Adjustment domain errors
	case errors.Is(err, adjustment.ErrAdjustmentNotFound):
		NotFound(w, "Punch adjustment request not found")
	case errors.Is(err, adjustment.ErrAlreadyProcessed):
		Conflict(w, "Punch adjustment request already processed")
	case errors.Is(err, adjustment.ErrCommentRequired):
		BadRequest(w, "A reviewer comment is required to reject", nil)
	case errors.Is(err, adjustment.ErrNoCorrectedPunches):
		BadRequest(w, "At least one corrected punch is required to approve", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
