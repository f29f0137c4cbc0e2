package repository

import (
	"errors"
	"fmt"
)

// Common repository errors. Services pass these through unchanged, so
// callers can match them with errors.Is regardless of which layer raised
// them.
var (
	// ErrNotFound is returned when a mutating call targets an identifier
	// that does not exist. Read calls report a miss as a nil result, not
	// as an error.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEmail is returned when creating or updating an educator
	// would violate the global email uniqueness constraint.
	ErrDuplicateEmail = errors.New("email already in use")

	// Entity-specific wraps of ErrNotFound.
	ErrPatientNotFound  = fmt.Errorf("%w: patient", ErrNotFound)
	ErrProjectNotFound  = fmt.Errorf("%w: therapy project", ErrNotFound)
	ErrEducatorNotFound = fmt.Errorf("%w: professional educator", ErrNotFound)
)

// IsNotFound reports whether err is any "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a uniqueness violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}
