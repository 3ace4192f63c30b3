package record

import "errors"

// Daily record domain errors
var (
	ErrRecordNotFound        = errors.New("daily record not found")
	ErrInvalidClassification = errors.New("invalid classification value")
	ErrNotAwaitingDecision   = errors.New("record is not awaiting a manager decision")
)
