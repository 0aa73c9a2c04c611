package brackets

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for result submission. These are caller mistakes and
// are rejected synchronously, never silently coerced.
var (
	ErrMatchNotFound         = errors.New("match not found in bracket")
	ErrMatchNotReady         = errors.New("match participants are not decided yet")
	ErrMatchAlreadyCompleted = errors.New("match already has a recorded result")
	ErrWinnerNotInMatch      = errors.New("winner is not a participant of this match")

	// ErrSlotOccupied indicates a double advancement into the same
	// downstream slot. This is an engine defect, not a usage mistake,
	// and must abort before anything is persisted.
	ErrSlotOccupied = errors.New("destination slot is already occupied")

	ErrNotEnoughEntries = errors.New("at least two entries are required")
)

// ValidationError reports bad seeding or entry input. It is always
// recoverable by the caller correcting the input; the engine never
// repairs it.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// InvariantError means a constructed bracket violated one of its own
// structural invariants. It signals a logic defect and the bracket
// must not be persisted.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "bracket invariant violated: " + e.Detail
}

func invariantErrorf(format string, args ...interface{}) *InvariantError {
	return &InvariantError{Detail: fmt.Sprintf(format, args...)}
}
