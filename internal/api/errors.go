package api

import (
	"errors"
	"fmt"
)

// Common errors returned by backend API operations.
//
// These can be checked with errors.Is():
//
//	if errors.Is(err, api.ErrAuth) {
//	    // prompt for a fresh token
//	}
var (
	// ErrAuth is returned when the backend rejects the credential
	// (missing, expired, or insufficient). The client never refreshes
	// tokens itself; supplying a valid token is the caller's job.
	ErrAuth = errors.New("authentication rejected")

	// ErrNotFound is returned when the requested content item
	// does not exist on the backend.
	ErrNotFound = errors.New("content item not found")

	// ErrDenied is returned when the backend refuses a stage transition
	// or approval action for the current user.
	ErrDenied = errors.New("transition denied by backend")
)

// NetworkError wraps a transport-level failure (DNS, TCP, TLS, timeout).
// It is transient from the synchronizer's perspective: previously fetched
// state stays valid and the caller may simply try again.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is returned for unexpected HTTP statuses that are neither
// auth failures nor transition denials.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// IsNetwork returns true if the error is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsAuth returns true if the error is a credential rejection.
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}
