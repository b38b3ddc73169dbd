// Package apperr holds the typed errors the quiz engine and its callers
// branch on. Controllers map them to HTTP statuses; nothing here is logged
// as a system fault except ErrWriteConflict.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrNoQuestions           = errors.New("questionnaire has no questions")
	ErrAttemptLimitExceeded  = errors.New("attempt limit exceeded")
	ErrCourseNotCompleted    = errors.New("course requirements not completed")
	ErrAlreadyEnrolled       = errors.New("already enrolled in course")
	ErrWriteConflict         = errors.New("storage write conflict")
)

// AttemptLimitError reports a refused submission together with the learner's
// current attempt count, so the caller can show how many were used.
type AttemptLimitError struct {
	Count int
}

func (e *AttemptLimitError) Error() string {
	return fmt.Sprintf("attempt limit exceeded: %d attempts already recorded", e.Count)
}

func (e *AttemptLimitError) Unwrap() error {
	return ErrAttemptLimitExceeded
}
