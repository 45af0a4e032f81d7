package tickets

import "errors"

var (
	// ErrEmptyInput marks a blank note. The operation never starts; this is
	// a no-op to the operator, not a displayed error.
	ErrEmptyInput = errors.New("note text is empty")
	// ErrExtractionInFlight rejects overlapping extraction attempts. The
	// core enforces at-most-one-in-flight itself rather than trusting a
	// disabled submit control.
	ErrExtractionInFlight = errors.New("extraction already in flight")
)

// FailureKind tags the internal cause of a failed extraction. It is matched
// for logging and metrics only, never shown to the operator.
type FailureKind string

const (
	FailureTransport         FailureKind = "transport"
	FailureParse             FailureKind = "parse"
	FailureInvalidCredential FailureKind = "invalid_credential"
)

// FailureMessage is the only failure text the operator ever sees. Transport
// errors, service errors and unparsable payloads all collapse into it.
const FailureMessage = "Das Ticket konnte nicht erstellt werden. Bitte versuchen Sie es erneut."
