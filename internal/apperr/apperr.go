// Package apperr defines the error taxonomy shared by the service layer.
// Handlers map these sentinels onto HTTP status codes; everything else is
// treated as an internal error.
package apperr

import "errors"

var (
	// ErrValidation marks a missing or malformed caller-supplied field.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a target that does not exist or does not belong to
	// the caller under an ownership-scoped operation. The two cases are
	// deliberately indistinguishable so callers cannot probe for existence.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an insufficient role or ownership for the request.
	ErrForbidden = errors.New("forbidden")

	// ErrPersistence marks a storage failure; the enclosing transaction has
	// been rolled back in full before this is returned.
	ErrPersistence = errors.New("persistence failure")
)
