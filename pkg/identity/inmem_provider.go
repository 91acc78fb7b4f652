package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// InMemoryProvider implements Provider using in-memory storage. It is used in
// tests and in local development when no hosted provider is available.
//
// Email-case normalization is configurable because hosted providers differ:
// some treat USER@x.com and user@x.com as the same account, some do not.
type InMemoryProvider struct {
	mu             sync.RWMutex
	identities     map[string]*memIdentity // keyed by identity ID
	normalizeEmail bool
}

type memIdentity struct {
	identity Identity
	hash     []byte
}

// InMemoryOption is a function that configures an InMemoryProvider
type InMemoryOption func(*InMemoryProvider)

// WithEmailNormalization controls whether emails are lowercased before
// comparison. Enabled by default.
func WithEmailNormalization(enabled bool) InMemoryOption {
	return func(p *InMemoryProvider) {
		p.normalizeEmail = enabled
	}
}

// NewInMemoryProvider creates a new in-memory identity provider
func NewInMemoryProvider(opts ...InMemoryOption) *InMemoryProvider {
	p := &InMemoryProvider{
		identities:     make(map[string]*memIdentity),
		normalizeEmail: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *InMemoryProvider) key(email string) string {
	if p.normalizeEmail {
		return strings.ToLower(email)
	}
	return email
}

// CreateIdentity creates a new identity
func (p *InMemoryProvider) CreateIdentity(ctx context.Context, params CreateIdentityParams) (Identity, error) {
	if params.Email == "" || params.Password == "" {
		return Identity{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, existing := range p.identities {
		if p.key(existing.identity.Email) == p.key(params.Email) {
			return Identity{}, fmt.Errorf("%w: %s", ErrIdentityExists, params.Email)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id := Identity{
		ID:        uuid.New().String(),
		Email:     params.Email,
		Confirmed: true,
		Metadata:  params.Metadata,
		CreatedAt: time.Now(),
	}

	p.identities[id.ID] = &memIdentity{identity: id, hash: hash}
	return id, nil
}

// SignIn verifies the email/password pair
func (p *InMemoryProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	if email == "" || password == "" {
		return Identity{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, existing := range p.identities {
		if p.key(existing.identity.Email) != p.key(email) {
			continue
		}
		if err := bcrypt.CompareHashAndPassword(existing.hash, []byte(password)); err != nil {
			return Identity{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, email)
		}
		return existing.identity, nil
	}

	return Identity{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, email)
}

// DeleteIdentity removes an identity by ID
func (p *InMemoryProvider) DeleteIdentity(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.identities[id]; !ok {
		return fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	}

	delete(p.identities, id)
	return nil
}

// Count returns the number of stored identities. Used by tests to assert the
// side-effect budget of provisioning operations.
func (p *InMemoryProvider) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.identities)
}
