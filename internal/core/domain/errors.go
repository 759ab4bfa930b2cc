package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCredentialMissing indicates a required credential could not be found.
	// It aborts a run before any work item is attempted.
	ErrCredentialMissing = errors.New("credential missing")

	// ErrUpstreamUnavailable indicates a transport, auth or HTTP failure from
	// either store. Caught per item; the batch continues.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedResponse indicates a success-shaped response that lacks an
	// expected field. Never retried.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNoDefaultPage indicates a freshly created document listed no pages.
	ErrNoDefaultPage = fmt.Errorf("%w: no default page", ErrMalformedResponse)

	// ErrNoSourceMatch indicates the refill path found no source document
	// created on the target document's date.
	ErrNoSourceMatch = errors.New("no source match")

	// ErrLedgerCorrupt indicates the persisted ledger could not be read or decoded.
	ErrLedgerCorrupt = errors.New("ledger corrupt")
)

// FailureKind classifies a per-item failure for reporting.
type FailureKind string

// Failure kinds, ordered roughly by how often they occur in practice.
const (
	FailureUpstreamUnavailable FailureKind = "upstream_unavailable"
	FailureMalformedResponse   FailureKind = "malformed_response"
	FailureNoSourceMatch       FailureKind = "no_source_match"
	FailureCredentialMissing   FailureKind = "credential_missing"
	FailureUnclassified        FailureKind = "unclassified"
)

// ClassifyFailure maps an error onto the failure taxonomy.
// Returns an empty kind for a nil error.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCredentialMissing):
		return FailureCredentialMissing
	case errors.Is(err, ErrMalformedResponse):
		return FailureMalformedResponse
	case errors.Is(err, ErrNoSourceMatch):
		return FailureNoSourceMatch
	case errors.Is(err, ErrUpstreamUnavailable):
		return FailureUpstreamUnavailable
	default:
		return FailureUnclassified
	}
}
