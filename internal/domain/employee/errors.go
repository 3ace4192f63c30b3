package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrLeaderNotFound   = errors.New("leader not found")
)
