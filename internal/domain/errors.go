package domain

import (
	"errors"
	"fmt"
)

// Error classes surfaced at the HTTP boundary. Lower layers wrap one of these
// with fmt.Errorf("...: %w", ...) and handlers map them with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrSession        = errors.New("session error")
	ErrNotFound       = errors.New("not found")
	ErrStorage        = errors.New("storage error")
)

// ErrInvalidID marks an identifier that can never address a stored record
var ErrInvalidID = fmt.Errorf("%w: invalid id", ErrValidation)
