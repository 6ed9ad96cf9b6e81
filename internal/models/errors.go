package models

import "errors"

// Error taxonomy shared by stores, services, and handlers. Handlers translate
// these with errors.Is: ErrNotFound → 404, ErrInvalidArgument → 400,
// ErrInconsistent → 500.
var (
	// ErrNotFound reports an unknown user or problem id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument reports an unrecognized enum value or filter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInconsistent reports a progress record referencing a problem that is
	// missing from the catalog. Treated as a hard failure, never skipped.
	ErrInconsistent = errors.New("internal inconsistency")
)

type ErrorResponse struct {
	Error string `json:"error"`
}
