package domain

import "errors"

// Domain errors
var (
	ErrInvalidContest         = errors.New("invalid contest")
	ErrInvalidSubmission      = errors.New("invalid submission")
	ErrInvalidQueryTime       = errors.New("invalid query time")
	ErrInvalidStateTransition = errors.New("invalid clock state transition")
	ErrReplayNotFound         = errors.New("replay not found")
)
