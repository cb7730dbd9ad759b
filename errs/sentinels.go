// Package errs contains sentinel errors used across engine layers for stable
// error mapping. Service-provided detail rides in the wrapped message; callers
// branch with errors.Is and may show err.Error() to the user as is.
package errs

import "errors"

var (
	// ErrInvalidPlanPayload indicates the mapper received no usable top-level
	// plan object. Field-level defects never produce this; they degrade to
	// placeholders instead.
	ErrInvalidPlanPayload = errors.New("invalid plan payload")

	// ErrGenerationFailed indicates the generation service could not produce a
	// plan preview (network, timeout or service error). Recoverable by retry.
	ErrGenerationFailed = errors.New("plan generation failed")

	// ErrAdjustmentFailed indicates an adjust round trip failed. Recoverable;
	// the previously stored raw payload remains valid.
	ErrAdjustmentFailed = errors.New("plan adjustment failed")

	// ErrConfirmationFailed indicates the persistence backend rejected or
	// failed to persist the raw plan. Recoverable by retry.
	ErrConfirmationFailed = errors.New("plan confirmation failed")

	// ErrNoRawPlan indicates a confirm or adjust call without a stored raw
	// payload, i.e. a protocol-ordering violation (already confirmed, or no
	// preview issued yet).
	ErrNoRawPlan = errors.New("no raw plan available")

	// ErrEmptySubmission indicates a session with no surviving completed sets.
	// User-correctable, not a system fault.
	ErrEmptySubmission = errors.New("empty submission")

	// ErrReconciliation indicates a single session could not be reconciled.
	// Isolated per item: the session is logged and dropped from batch results.
	ErrReconciliation = errors.New("session reconciliation failed")

	// ErrNoCurrentUser indicates neither a stored user record nor a decodable
	// auth token was found in the secure store.
	ErrNoCurrentUser = errors.New("no current user")
)
