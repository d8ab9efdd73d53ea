package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenService([]byte("test-signing-key"), 24, "test-issuer", jwt.ClaimStrings{"test:audience"}, quietLogger())

	t.Run("successful login", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		identity := learner()
		provider.On("VerifyIdentity", ctx, identity.email, "Passw0rd").Return(identity, nil)

		authenticator := auth.NewAuthenticator(provider, tokens).WithLogger(quietLogger())
		token, got, err := authenticator.Login(ctx, identity.email, "Passw0rd")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, identity.ID(), got.ID())

		claims, err := authenticator.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, identity.ID(), claims.UserID())
		assert.Equal(t, "user", claims.Role())
		provider.AssertExpectations(t)
	})

	credentialErrors := []error{
		auth.ErrIdentityNotFound,
		auth.ErrMismatchedHashAndPassword,
		auth.ErrMalformedHash,
	}
	for _, cause := range credentialErrors {
		t.Run("invalid credentials: "+cause.Error(), func(t *testing.T) {
			provider := new(MockIdentityProvider)
			provider.On("VerifyIdentity", ctx, "someone@example.com", "bad").Return(nil, cause)

			authenticator := auth.NewAuthenticator(provider, tokens).WithLogger(quietLogger())
			token, identity, err := authenticator.Login(ctx, "someone@example.com", "bad")

			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
			assert.Empty(t, token)
			assert.Nil(t, identity)
		})
	}

	t.Run("store failure passes through", func(t *testing.T) {
		boom := errors.New("connection refused")
		provider := new(MockIdentityProvider)
		provider.On("VerifyIdentity", ctx, "someone@example.com", "Passw0rd").Return(nil, boom)

		authenticator := auth.NewAuthenticator(provider, tokens).WithLogger(quietLogger())
		_, _, err := authenticator.Login(ctx, "someone@example.com", "Passw0rd")

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestIdentityFromSession(t *testing.T) {
	ctx := context.Background()
	identity := learner()

	provider := new(MockIdentityProvider)
	provider.On("FindIdentityByIdentifier", ctx, identity.id).Return(identity, nil)

	tokens := auth.NewTokenService([]byte("k"), 1, "", nil, quietLogger())
	authenticator := auth.NewAuthenticator(provider, tokens)

	got, err := authenticator.IdentityFromSession(ctx, &auth.JWTClaims{UID: identity.id})
	require.NoError(t, err)
	assert.Equal(t, identity.email, got.Email())

	_, err = authenticator.IdentityFromSession(ctx, nil)
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}

func TestClaimsContext(t *testing.T) {
	claims := &auth.JWTClaims{UID: "abc", UserRole: "admin"}
	ctx := auth.WithClaimsContext(context.Background(), claims)

	got, ok := auth.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", got.UserID())

	_, ok = auth.GetClaims(context.Background())
	assert.False(t, ok)
}
