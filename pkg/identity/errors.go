package identity

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrIdentityExists is returned when the provider reports that an
	// identity already exists for the email
	ErrIdentityExists = errors.New("identity already exists")

	// ErrInvalidCredentials is returned when sign-in fails because the
	// email/password pair does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrIdentityNotFound is returned when no identity exists for the ID
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrInvalidInput is returned when a required field is missing or malformed
	ErrInvalidInput = errors.New("invalid input")
)

// TransportError wraps a network or HTTP-level failure talking to the
// identity provider. Callers distinguish it from semantic failures because a
// transport failure before any write is safe to retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("identity provider transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
