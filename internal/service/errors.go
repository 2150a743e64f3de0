package service

import "errors"

// State-machine and validation errors surfaced to callers. Downstream
// integration failures never appear here; gateways absorb them via mock
// fallback.
var (
	ErrInvalidExamType           = errors.New("invalid exam type")
	ErrBaselineAlreadyExists     = errors.New("baseline exam already exists for user")
	ErrCourseRequired            = errors.New("course id is required for postcourse exams")
	ErrAttemptNotFound           = errors.New("attempt not found")
	ErrExamMismatch              = errors.New("attempt does not belong to the given exam")
	ErrExamTimeExpired           = errors.New("exam time expired")
	ErrAttemptCanceled           = errors.New("attempt canceled")
	ErrBaselineAttemptNotAllowed = errors.New("baseline exams allow a single attempt")
	ErrMaxAttemptsReached        = errors.New("max attempts reached")
	ErrCooldownActive            = errors.New("retry cooldown still active")
	ErrAttemptAlreadySubmitted   = errors.New("attempt already submitted")
	ErrPackageNotFound           = errors.New("question package not found")
)
