package rpc

import (
	"errors"
	"fmt"
)

// ClientError marks a failure the caller can fix: a missing or malformed
// parameter, or an unrecognised method. It maps to a client-error envelope.
// Everything else is treated as a server-side failure.
type ClientError struct {
	Reason string
}

func (e *ClientError) Error() string {
	return e.Reason
}

// badRequest builds a ClientError from a format string.
func badRequest(format string, args ...any) error {
	return &ClientError{Reason: fmt.Sprintf(format, args...)}
}

// missingParam builds the canonical missing-parameter ClientError.
func missingParam(name string) error {
	return badRequest("Missing required parameter: %s", name)
}

// isClientError reports whether err, anywhere in its chain, is a
// ClientError.
func isClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}
