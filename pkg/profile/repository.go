package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when no profile exists for the lookup key
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines the interface for profile store operations
type ProfileRepository interface {
	// GetProfile retrieves a profile by its identity ID
	GetProfile(ctx context.Context, id uuid.UUID) (Profile, error)
	// FindProfileByEmail retrieves a profile by email. The comparison is
	// case-insensitive regardless of backing store.
	FindProfileByEmail(ctx context.Context, email string) (Profile, error)
	// UpsertProfile inserts a profile, or updates it on ID conflict
	UpsertProfile(ctx context.Context, params UpsertProfileParams) (Profile, error)
	// UpdateProfile edits the display name and role of an existing profile
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (Profile, error)
	// DeleteProfile removes a profile by identity ID
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	// ListProfiles returns all profiles
	ListProfiles(ctx context.Context) ([]Profile, error)
}
