package objstore

import "errors"

// Domain errors for the objstore package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, objstore.ErrNotFound) {
//	    // absent entry — a valid outcome for never-written states
//	}
var (
	// ErrNotFound is returned when an object or state identifier does not
	// exist in the store. Callers treat this as "no value", not a failure.
	ErrNotFound = errors.New("objstore: not found")

	// ErrInvalidID is returned when an identifier is empty or malformed.
	ErrInvalidID = errors.New("objstore: invalid identifier")

	// ErrStoreUnavailable is returned when the underlying store cannot be
	// reached or a store call fails for infrastructure reasons.
	ErrStoreUnavailable = errors.New("objstore: store unavailable")
)
