package profile

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryProfileRepository implements ProfileRepository using in-memory storage
type InMemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Profile
}

// NewInMemoryProfileRepository creates a new in-memory profile repository
func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		profiles: make(map[uuid.UUID]Profile),
	}
}

// GetProfile retrieves a profile by identity ID
func (r *InMemoryProfileRepository) GetProfile(ctx context.Context, id uuid.UUID) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

// FindProfileByEmail retrieves a profile by email, case-insensitively
func (r *InMemoryProfileRepository) FindProfileByEmail(ctx context.Context, email string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return Profile{}, ErrProfileNotFound
}

// UpsertProfile inserts a profile or updates it on ID conflict
func (r *InMemoryProfileRepository) UpsertProfile(ctx context.Context, params UpsertProfileParams) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	p, ok := r.profiles[params.ID]
	if !ok {
		p = Profile{ID: params.ID, CreatedAt: now}
	}
	p.Email = params.Email
	p.FullName = params.FullName
	p.Role = params.Role
	p.UpdatedAt = now

	r.profiles[params.ID] = p
	return p, nil
}

// UpdateProfile edits an existing profile. Empty fields keep their current value.
func (r *InMemoryProfileRepository) UpdateProfile(ctx context.Context, params UpdateProfileParams) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[params.ID]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	if params.FullName != "" {
		p.FullName = params.FullName
	}
	if params.Role != "" {
		p.Role = params.Role
	}
	p.UpdatedAt = time.Now()

	r.profiles[params.ID] = p
	return p, nil
}

// DeleteProfile removes a profile by identity ID
func (r *InMemoryProfileRepository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[id]; !ok {
		return ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

// ListProfiles returns all profiles
func (r *InMemoryProfileRepository) ListProfiles(ctx context.Context) ([]Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Count returns the number of stored profiles. Used by tests to assert the
// side-effect budget of provisioning operations.
func (r *InMemoryProfileRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
