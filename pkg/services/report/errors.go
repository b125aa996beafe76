package report

import "errors"

// Failure taxonomy of the report client boundary. Implementations wrap
// these sentinels so callers can match with errors.Is; the engine never
// retries or swallows them.
var (
	// ErrAuth is returned when the credential is missing, malformed, or
	// lacks read access to the property.
	ErrAuth = errors.New("analytics credential rejected")

	// ErrQuota is returned on an upstream rate limit or quota exhaustion.
	// Retryable with backoff at the caller's discretion.
	ErrQuota = errors.New("analytics quota exceeded")

	// ErrInvalidProperty is returned when the configured property does not
	// exist or is not accessible.
	ErrInvalidProperty = errors.New("analytics property not found")

	// ErrNetwork is returned on a transport failure. Retryable.
	ErrNetwork = errors.New("analytics transport failure")
)
