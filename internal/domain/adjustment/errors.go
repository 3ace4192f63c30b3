package adjustment

import "errors"

// Punch adjustment domain errors
var (
	ErrAdjustmentNotFound = errors.New("punch adjustment request not found")
	ErrAlreadyProcessed   = errors.New("punch adjustment request has already been approved or rejected")
	ErrCommentRequired    = errors.New("a reviewer comment is required to reject")
	ErrNoCorrectedPunches = errors.New("at least one corrected punch is required to approve")
)
