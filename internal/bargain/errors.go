package bargain

import "errors"

// Recoverable, user-facing failures of session operations. Handlers and the
// realtime gateway map each one to a distinct client-visible code; anything
// else is an infrastructure failure and surfaces as a generic server error.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("session is not active")
	ErrTurnLimitExceeded = errors.New("turn limit exceeded")
	ErrInvalidOffer      = errors.New("offer outside the allowed range")
	ErrValidation        = errors.New("invalid request")
)

// ErrorCode maps a service error to the stable code string shared by the
// REST responses and the realtime operation_error events.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrTurnLimitExceeded):
		return "turn_limit_exceeded"
	case errors.Is(err, ErrInvalidOffer):
		return "invalid_offer"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	default:
		return "internal_error"
	}
}
