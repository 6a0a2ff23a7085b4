package brain

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes Brain errors.
type ErrorCode string

const (
	// ErrCodeDuplicateCell indicates a registration under a name that is
	// already taken.
	ErrCodeDuplicateCell ErrorCode = "DUPLICATE_CELL"

	// ErrCodeCellNotFound indicates a lookup miss (after the lenient-mode
	// retry, if any).
	ErrCodeCellNotFound ErrorCode = "CELL_NOT_FOUND"

	// ErrCodeMissingStartSignal indicates Run was called with an empty
	// queue and no start signal.
	ErrCodeMissingStartSignal ErrorCode = "MISSING_START_SIGNAL"

	// ErrCodeBadStartPriority indicates a start signal that does not carry
	// priority 0.
	ErrCodeBadStartPriority ErrorCode = "BAD_START_PRIORITY"

	// ErrCodeQueueClosed indicates an emit against a queue whose run has
	// already terminated.
	ErrCodeQueueClosed ErrorCode = "QUEUE_CLOSED"

	// ErrCodeAlreadyRan indicates a second Run call on a single-use Brain.
	ErrCodeAlreadyRan ErrorCode = "ALREADY_RAN"
)

// Error is a structured Brain error with a code for programmatic
// matching and an optional cell name for diagnostics.
type Error struct {
	Code    ErrorCode
	Message string
	Cell    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cell != "" {
		return fmt.Sprintf("%s: %s (cell=%s)", e.Code, e.Message, e.Cell)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDuplicate reports whether err is a duplicate-name registration error.
// Uses errors.As to handle wrapped errors.
func IsDuplicate(err error) bool {
	return hasCode(err, ErrCodeDuplicateCell)
}

// IsNotFound reports whether err is a cell-not-found lookup error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeCellNotFound)
}

// IsMissingStartSignal reports whether err is a missing-start-signal
// configuration error.
func IsMissingStartSignal(err error) bool {
	return hasCode(err, ErrCodeMissingStartSignal)
}

func hasCode(err error, code ErrorCode) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func newDuplicateError(name string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateCell,
		Message: "cell name already registered",
		Cell:    name,
	}
}

func newNotFoundError(name string) *Error {
	return &Error{
		Code:    ErrCodeCellNotFound,
		Message: "no cell registered under name",
		Cell:    name,
	}
}

func newMissingStartSignalError() *Error {
	return &Error{
		Code:    ErrCodeMissingStartSignal,
		Message: "queue is empty and no start signal was supplied",
	}
}

func newBadStartPriorityError(priority int) *Error {
	return &Error{
		Code:    ErrCodeBadStartPriority,
		Message: fmt.Sprintf("start signal must have priority 0, got %d", priority),
	}
}

func newQueueClosedError() *Error {
	return &Error{
		Code:    ErrCodeQueueClosed,
		Message: "queue is closed",
	}
}

func newAlreadyRanError() *Error {
	return &Error{
		Code:    ErrCodeAlreadyRan,
		Message: "a brain is single-use and this one has already run",
	}
}
