package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the profile workflow. Remote failures are wrapped in a
// RemoteError so callers can still match them with errors.Is.
var (
	ErrUnauthorized = errors.New("access token missing or rejected")
	ErrNotFound     = errors.New("requested resource not found")
	ErrNetwork      = errors.New("network request failed")
	ErrFetch        = errors.New("could not load profile")
	ErrUpload       = errors.New("image upload failed")
	ErrOTPRequest   = errors.New("otp request failed")
	ErrNotReady     = errors.New("profile is not ready for editing")

	// ErrNoSession also matches ErrUnauthorized: an action that needs a token
	// and finds no session at all is an authorization failure too.
	ErrNoSession = fmt.Errorf("no stored session: %w", ErrUnauthorized)
)

// RemoteError describes a failed call to the profile backend.
type RemoteError struct {
	Op      string // e.g. "fetch profile"
	Status  int    // HTTP status, 0 for transport failures
	Message string // server-provided message, if any
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ServerMessage returns the message the backend attached to err, or "" when
// err carries none.
func ServerMessage(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}
