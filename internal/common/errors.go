package common

import "errors"

// Match these with errors.Is; callers wrap them with context.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors, raised before any network call.
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Workflow errors.
	ErrRoomNotSaved     = errors.New("room not saved")
	ErrWalkthroughOpen  = errors.New("walkthrough incomplete")
	ErrReportNotCreated = errors.New("report not created")
	ErrReadOnly         = errors.New("report is read-only")
	ErrSendInProgress   = errors.New("report send already in progress")
)
