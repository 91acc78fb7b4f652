package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/identity"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/profile"
)

// failingProfileRepo simulates a profile store outage on upsert.
type failingProfileRepo struct {
	*profile.InMemoryProfileRepository
	failUpsert bool
}

func (r *failingProfileRepo) UpsertProfile(ctx context.Context, params profile.UpsertProfileParams) (profile.Profile, error) {
	if r.failUpsert {
		return profile.Profile{}, errors.New("profile store unavailable")
	}
	return r.InMemoryProfileRepository.UpsertProfile(ctx, params)
}

// failingDeleteProvider simulates a provider whose delete endpoint is down.
type failingDeleteProvider struct {
	*identity.InMemoryProvider
	failDelete bool
}

func (p *failingDeleteProvider) DeleteIdentity(ctx context.Context, id string) error {
	if p.failDelete {
		return &identity.TransportError{Op: "delete identity", Err: errors.New("connection refused")}
	}
	return p.InMemoryProvider.DeleteIdentity(ctx, id)
}

func newTestService() (*Service, *identity.InMemoryProvider, *profile.InMemoryProfileRepository) {
	provider := identity.NewInMemoryProvider()
	repo := profile.NewInMemoryProfileRepository()
	svc := NewService(
		WithIdentityProvider(provider),
		WithProfileRepository(repo),
	)
	return svc, provider, repo
}

func TestProvisionAccountCreatesIdentityAndProfile(t *testing.T) {
	ctx := context.Background()
	svc, provider, repo := newTestService()

	result, err := svc.ProvisionAccount(ctx, ProvisionParams{
		Email:    "a@x.com",
		Password: "P@ssw0rd1",
		FullName: "A",
		Role:     "user",
	})
	require.NoError(t, err)
	assert.False(t, result.AlreadyProvisioned)
	assert.Equal(t, 1, provider.Count())
	assert.Equal(t, 1, repo.Count())
	assert.Equal(t, "user", result.Profile.Role)
	assert.Equal(t, result.IdentityID, result.Profile.ID.String())
}

func TestProvisionAccountIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, provider, repo := newTestService()

	params := ProvisionParams{Email: "a@x.com", Password: "P@ssw0rd1", FullName: "A", Role: "user"}

	first, err := svc.ProvisionAccount(ctx, params)
	require.NoError(t, err)

	second, err := svc.ProvisionAccount(ctx, params)
	require.NoError(t, err)
	assert.True(t, second.AlreadyProvisioned)
	assert.Equal(t, first.IdentityID, second.IdentityID)
	assert.Equal(t, 1, provider.Count())
	assert.Equal(t, 1, repo.Count())
}

func TestProvisionAccountWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, provider, repo := newTestService()

	_, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "a@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.NoError(t, err)

	_, err = svc.ProvisionAccount(ctx, ProvisionParams{Email: "a@x.com", Password: "different", Role: "user"})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidCredentials, kind)

	// zero writes
	assert.Equal(t, 1, provider.Count())
	assert.Equal(t, 1, repo.Count())
}

func TestProvisionAccountCompensatesFailedProfileWrite(t *testing.T) {
	ctx := context.Background()
	provider := identity.NewInMemoryProvider()
	repo := &failingProfileRepo{InMemoryProfileRepository: profile.NewInMemoryProfileRepository(), failUpsert: true}
	svc := NewService(WithIdentityProvider(provider), WithProfileRepository(repo))

	_, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "a@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, kind)

	// the created identity was rolled back, neither store holds a record
	assert.Equal(t, 0, provider.Count())
	assert.Equal(t, 0, repo.Count())
}

func TestProvisionAccountReportsInconsistentState(t *testing.T) {
	ctx := context.Background()
	provider := &failingDeleteProvider{InMemoryProvider: identity.NewInMemoryProvider(), failDelete: true}
	repo := &failingProfileRepo{InMemoryProfileRepository: profile.NewInMemoryProfileRepository(), failUpsert: true}
	svc := NewService(WithIdentityProvider(provider), WithProfileRepository(repo))

	_, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "a@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInconsistentState, kind)

	// the orphaned identity is still there, which is exactly what the
	// classification reports
	assert.Equal(t, 1, provider.InMemoryProvider.Count())
}

func TestProvisionAccountValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, provider, _ := newTestService()

	cases := []ProvisionParams{
		{Email: "", Password: "pw123456"},
		{Email: "a@x.com", Password: ""},
	}
	for _, params := range cases {
		_, err := svc.ProvisionAccount(ctx, params)
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindInvalidInput, kind)
	}
	assert.Equal(t, 0, provider.Count())
}

func TestProvisionAccountRolePassthrough(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newTestService()

	result, err := svc.ProvisionAccount(ctx, ProvisionParams{
		Email: "coach@x.com", Password: "P@ssw0rd1", Role: "admin_fitness",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin_fitness", result.Profile.Role)

	// permissive by default: unrecognized role strings are stored as-is
	result, err = svc.ProvisionAccount(ctx, ProvisionParams{
		Email: "odd@x.com", Password: "P@ssw0rd1", Role: "made_up_role",
	})
	require.NoError(t, err)

	stored, err := repo.GetProfile(ctx, result.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "made_up_role", stored.Role)
}

func TestProvisionAccountStrictRoleValidation(t *testing.T) {
	ctx := context.Background()
	provider := identity.NewInMemoryProvider()
	repo := profile.NewInMemoryProfileRepository()
	svc := NewService(
		WithIdentityProvider(provider),
		WithProfileRepository(repo),
		WithStrictRoleValidation(true),
	)

	_, err := svc.ProvisionAccount(ctx, ProvisionParams{
		Email: "odd@x.com", Password: "P@ssw0rd1", Role: "made_up_role",
	})
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidInput, kind)
	assert.Equal(t, 0, provider.Count())

	_, err = svc.ProvisionAccount(ctx, ProvisionParams{
		Email: "coach@x.com", Password: "P@ssw0rd1", Role: RoleAdminNutrition,
	})
	assert.NoError(t, err)
}

func TestProvisionAccountRepairsMissingProfile(t *testing.T) {
	// identity exists in the provider but the profile write was lost; a new
	// provisioning call with the right credentials writes the missing profile
	ctx := context.Background()
	svc, provider, repo := newTestService()

	created, err := provider.CreateIdentity(ctx, identity.CreateIdentityParams{
		Email: "a@x.com", Password: "P@ssw0rd1",
	})
	require.NoError(t, err)
	require.Equal(t, 0, repo.Count())

	result, err := svc.ProvisionAccount(ctx, ProvisionParams{
		Email: "a@x.com", Password: "P@ssw0rd1", FullName: "A", Role: "user",
	})
	require.NoError(t, err)
	assert.True(t, result.AlreadyProvisioned)
	assert.Equal(t, created.ID, result.IdentityID)
	assert.Equal(t, 1, repo.Count())
	assert.Equal(t, 1, provider.Count())
}

func TestDefaultRoleIsUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	result, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "a@x.com", Password: "P@ssw0rd1"})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, result.Profile.Role)
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	result, err := svc.ProvisionAccount(ctx, ProvisionParams{
		Email: "a@x.com", Password: "P@ssw0rd1", FullName: "A", Role: "user",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAccount(ctx, result.Profile.ID, "A Renamed", RoleAdminFitness)
	require.NoError(t, err)
	assert.Equal(t, "A Renamed", updated.FullName)
	assert.Equal(t, RoleAdminFitness, updated.Role)

	_, err = svc.UpdateAccount(ctx, uuid.New(), "X", "")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestProvisionAccountEmailCaseNormalizingProvider(t *testing.T) {
	ctx := context.Background()
	svc, provider, repo := newTestService()

	first, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "user@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.NoError(t, err)

	// A provider that treats USER@x.com and user@x.com as the same account
	// makes the upper-cased retry a no-op reuse.
	second, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "USER@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.NoError(t, err)
	assert.True(t, second.AlreadyProvisioned)
	assert.Equal(t, first.IdentityID, second.IdentityID)
	assert.Equal(t, 1, provider.Count())
	assert.Equal(t, 1, repo.Count())
}

func TestProvisionAccountEmailCaseSensitiveProvider(t *testing.T) {
	ctx := context.Background()
	provider := identity.NewInMemoryProvider(identity.WithEmailNormalization(false))
	repo := profile.NewInMemoryProfileRepository()
	svc := NewService(WithIdentityProvider(provider), WithProfileRepository(repo))

	first, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "user@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.NoError(t, err)

	// A case-sensitive provider sees USER@x.com as a distinct account: the
	// sign-in check fails, creation succeeds, and the provider's case
	// semantics are surfaced as a second identity rather than masked.
	second, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "USER@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.NoError(t, err)
	assert.False(t, second.AlreadyProvisioned)
	assert.NotEqual(t, first.IdentityID, second.IdentityID)
	assert.Equal(t, 2, provider.Count())
	assert.Equal(t, 2, repo.Count())
}

func TestDeleteAccountRemovesBoth(t *testing.T) {
	ctx := context.Background()
	svc, provider, repo := newTestService()

	result, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "a@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, result.Profile.ID))
	assert.Equal(t, 0, provider.Count())
	assert.Equal(t, 0, repo.Count())
}

func TestDeleteAccountInconsistentState(t *testing.T) {
	ctx := context.Background()
	baseProvider := identity.NewInMemoryProvider()
	provider := &failingDeleteProvider{InMemoryProvider: baseProvider}
	repo := profile.NewInMemoryProfileRepository()
	svc := NewService(WithIdentityProvider(provider), WithProfileRepository(repo))

	result, err := svc.ProvisionAccount(ctx, ProvisionParams{Email: "a@x.com", Password: "P@ssw0rd1", Role: "user"})
	require.NoError(t, err)

	provider.failDelete = true
	err = svc.DeleteAccount(ctx, result.Profile.ID)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInconsistentState, kind)
	assert.Equal(t, 0, repo.Count())
	assert.Equal(t, 1, baseProvider.Count())
}
