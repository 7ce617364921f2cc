package model

import (
	"errors"
	"fmt"
)

// ErrNoQuestionsAvailable is returned when a category has no registered
// questions at all.
var ErrNoQuestionsAvailable = errors.New("no questions available")

// ErrUnknownQuestion is returned when an operation references a question id
// that is not in the pool.
var ErrUnknownQuestion = errors.New("unknown question")

// InvalidStateError describes a stale or corrupt reference inside the model,
// such as a review entry for a question missing from the pool. It is logged
// and skipped, never returned from selection.
type InvalidStateError struct {
	QuestionID int
	Reason     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid model state for question %d: %s", e.QuestionID, e.Reason)
}
