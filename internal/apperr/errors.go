package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrProfileInactive is returned when a soft-disabled courier asks for work.
var ErrProfileInactive = errors.New("profile inactive")

var (
	// ErrProfileNotFound - no availability profile for the courier.
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
	// ErrLocationUnavailable - neither live nor home coordinate is usable.
	ErrLocationUnavailable = fmt.Errorf("location unavailable: %w", ErrNotFound)
	// ErrAlreadyAssigned - another courier won the acceptance race.
	ErrAlreadyAssigned = fmt.Errorf("already assigned: %w", ErrConflict)
	// ErrInvalidTransition - the status change is not allowed from the current state.
	ErrInvalidTransition = fmt.Errorf("invalid transition: %w", ErrConflict)
	// ErrNotAssigned - the order is held by another courier or by nobody.
	ErrNotAssigned = fmt.Errorf("order not assigned to courier: %w", ErrConflict)
)
