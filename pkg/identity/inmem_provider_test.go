package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryProviderCreateAndSignIn(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider()

	created, err := provider.CreateIdentity(ctx, CreateIdentityParams{
		Email:    "a@x.com",
		Password: "P@ssw0rd1",
		Metadata: Metadata{FullName: "A", Role: "user"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Confirmed)
	assert.Equal(t, "user", created.Metadata.Role)

	signedIn, err := provider.SignIn(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, signedIn.ID)
}

func TestInMemoryProviderDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider()

	_, err := provider.CreateIdentity(ctx, CreateIdentityParams{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = provider.CreateIdentity(ctx, CreateIdentityParams{Email: "a@x.com", Password: "other-pw"})
	assert.ErrorIs(t, err, ErrIdentityExists)
	assert.Equal(t, 1, provider.Count())
}

func TestInMemoryProviderEmailCaseNormalization(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizing provider detects duplicate regardless of case", func(t *testing.T) {
		provider := NewInMemoryProvider(WithEmailNormalization(true))
		_, err := provider.CreateIdentity(ctx, CreateIdentityParams{Email: "user@x.com", Password: "pw123456"})
		require.NoError(t, err)

		_, err = provider.CreateIdentity(ctx, CreateIdentityParams{Email: "USER@x.com", Password: "pw123456"})
		assert.ErrorIs(t, err, ErrIdentityExists)

		_, err = provider.SignIn(ctx, "USER@x.com", "pw123456")
		assert.NoError(t, err)
	})

	t.Run("case-sensitive provider treats them as distinct", func(t *testing.T) {
		provider := NewInMemoryProvider(WithEmailNormalization(false))
		_, err := provider.CreateIdentity(ctx, CreateIdentityParams{Email: "user@x.com", Password: "pw123456"})
		require.NoError(t, err)

		_, err = provider.CreateIdentity(ctx, CreateIdentityParams{Email: "USER@x.com", Password: "pw123456"})
		assert.NoError(t, err)
		assert.Equal(t, 2, provider.Count())
	})
}

func TestInMemoryProviderSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider()

	_, err := provider.CreateIdentity(ctx, CreateIdentityParams{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = provider.SignIn(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = provider.SignIn(ctx, "nobody@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestInMemoryProviderDelete(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider()

	created, err := provider.CreateIdentity(ctx, CreateIdentityParams{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	require.NoError(t, provider.DeleteIdentity(ctx, created.ID))
	assert.Equal(t, 0, provider.Count())

	err = provider.DeleteIdentity(ctx, created.ID)
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestInMemoryProviderInvalidInput(t *testing.T) {
	ctx := context.Background()
	provider := NewInMemoryProvider()

	_, err := provider.CreateIdentity(ctx, CreateIdentityParams{Email: "", Password: "pw123456"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = provider.SignIn(ctx, "a@x.com", "")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
