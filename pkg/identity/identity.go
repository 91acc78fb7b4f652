package identity

import (
	"context"
	"time"
)

// Identity represents an authentication identity owned by the external
// identity provider. This system only ever references it by ID; the password
// is write-only and never read back.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// Metadata is the free-form metadata attached to an identity at creation time.
type Metadata struct {
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// CreateIdentityParams contains parameters for creating a new identity
type CreateIdentityParams struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Metadata Metadata `json:"metadata"`
}

// Provider defines the boundary to the external identity provider.
//
// Implementations must translate provider-specific failures into the errors
// declared in this package so callers can classify them: ErrIdentityExists,
// ErrInvalidCredentials, ErrIdentityNotFound, ErrInvalidInput, and
// *TransportError for network or HTTP-level failures.
type Provider interface {
	// CreateIdentity creates a new identity for the email/password pair.
	// The identity is created confirmed, with the metadata attached.
	CreateIdentity(ctx context.Context, params CreateIdentityParams) (Identity, error)

	// SignIn verifies the email/password pair against the provider and
	// returns the matching identity.
	SignIn(ctx context.Context, email, password string) (Identity, error)

	// DeleteIdentity removes an identity by ID.
	DeleteIdentity(ctx context.Context, id string) error
}
