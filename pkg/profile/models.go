package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents the application-owned record describing a person's role
// and display information. Its ID is the identity provider's ID for the same
// person, so the two stores stay in a one-to-one relationship.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertProfileParams contains parameters for the insert-or-update write
// keyed by identity ID
type UpsertProfileParams struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
	Role     string    `json:"role"`
}

// UpdateProfileParams contains parameters for an admin or self-service edit
type UpdateProfileParams struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name,omitempty"`
	Role     string    `json:"role,omitempty"`
}
