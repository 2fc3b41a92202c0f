package scans

import "errors"

// Error kinds surfaced to callers. Handlers map these to HTTP statuses
// with errors.Is; none are retried internally.
var (
	// ErrNotFound: unknown scanId or reportId.
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed: a stage gate is unmet, the scan exists but
	// is not ready for the requested stage. Deliberately distinct from
	// ErrNotFound so clients can tell the two apart.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrBadInput: a required request field is missing or malformed.
	ErrBadInput = errors.New("bad input")

	// ErrStorageUnavailable: the blob store failed or is unreachable.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInferenceUnavailable: the model backend failed or is unreachable.
	ErrInferenceUnavailable = errors.New("inference unavailable")
)
