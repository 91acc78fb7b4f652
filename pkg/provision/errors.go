package provision

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a terminal provisioning failure.
type ErrorKind string

const (
	// KindAlreadyExists means the identity provider reported a duplicate
	// email. ProvisionAccount itself never returns it: its sign-in fallback
	// converts a duplicate into a reuse, INVALID_CREDENTIALS, or TRANSPORT.
	// It is reserved for callers that surface the duplicate directly instead
	// of falling back.
	KindAlreadyExists ErrorKind = "ALREADY_EXISTS"
	// KindInvalidCredentials means an identity exists for the email but the
	// supplied password does not match it
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	// KindInvalidInput means a required field was missing or malformed,
	// detected before any external call was made
	KindInvalidInput ErrorKind = "INVALID_INPUT"
	// KindTransport means a network or store failure talking to an external
	// collaborator
	KindTransport ErrorKind = "TRANSPORT"
	// KindInconsistentState means the profile write failed and the
	// compensating identity delete also failed, leaving an orphaned identity
	// that requires manual reconciliation
	KindInconsistentState ErrorKind = "INCONSISTENT_STATE"
)

// Error is a classified provisioning failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the classification from a provisioning error. The second
// return is false when err carries no classification.
func KindOf(err error) (ErrorKind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
