package logic

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrorNotFound      ErrorCode = "NOT_FOUND"
	ErrorQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"
	ErrorDecomposition ErrorCode = "DECOMPOSITION_FAILED"
	ErrorAnswer        ErrorCode = "ANSWER_FAILED"
	ErrorStorage       ErrorCode = "STORAGE_ERROR"
)

// Error is the coded error surfaced by the logic layer. Each code maps to a
// distinct user-legible outcome at the controller.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("logic: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("logic: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// CodeOf extracts the logic error code, or empty if err is not a logic error
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
