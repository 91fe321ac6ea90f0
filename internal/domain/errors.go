package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes; anything else is treated as an internal error.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("invalid credentials")
	ErrAlreadyRegistered = errors.New("User is already registered for this event")
	// ErrSendBlocked is returned when the notification environment guard
	// refuses to dispatch messages (non-production instance pointed at a
	// loopback public URL).
	ErrSendBlocked = errors.New("notification sending is disabled for this environment")
)

// ValidationError reports a rejected input field with a user-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
