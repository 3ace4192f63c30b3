package justification

import "errors"

// Justification domain errors
var (
	ErrJustificationNotFound = errors.New("justification not found")
	ErrAlreadyProcessed      = errors.New("justification has already been approved or rejected")
	ErrCommentRequired       = errors.New("a reviewer comment is required")
)
