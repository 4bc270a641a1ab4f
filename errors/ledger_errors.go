// errors/ledger_errors.go
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for every failure class the components can return. The
// HTTP layer maps each class to exactly one status code; see StatusCode.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrState        = errors.New("illegal state transition")
	ErrPrecondition = errors.New("precondition failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrPersistence  = errors.New("persistence failed")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Statef wraps ErrState with a formatted detail message.
func Statef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrState}, args...)...)
}

// Preconditionf wraps ErrPrecondition with a formatted detail message.
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPrecondition}, args...)...)
}

// Persistencef wraps ErrPersistence around an underlying I/O error.
func Persistencef(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// StatusCode maps an error to its HTTP status code. Unknown errors map to 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrForbidden):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrState):
		return 409
	case errors.Is(err, ErrPrecondition):
		return 409
	case errors.Is(err, ErrRateLimited):
		return 429
	default:
		return 500
	}
}
