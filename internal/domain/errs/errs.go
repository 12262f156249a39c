package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Code is the closed set of failure kinds callers are allowed to branch on.
type Code string

const (
	CodeValidation           Code = "validation"
	CodeNotFound             Code = "not_found"
	CodeNoActiveSubscription Code = "no_active_subscription"
	CodeFilterNotAllowed     Code = "filter_not_allowed"
	CodeWatermarkNotAllowed  Code = "watermark_not_allowed"
	CodeQuotaExceeded        Code = "quota_exceeded"
	CodeConflict             Code = "conflict"
	CodeInternal             Code = "internal"
)

// Error is the canonical error wrapper. Code is fixed at construction time;
// it is never reassigned after the fact.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, op, message string) error {
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message)}
}

// Wrap annotates an existing error with a code and operation.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: err.Error(), Cause: err}
}

// Is checks whether err (or a wrapped err) carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CodeOf extracts the code when available, CodeInternal otherwise.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return CodeInternal
	}
	return e.Code
}
