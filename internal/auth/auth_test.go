package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"family-tasks-go/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", "family-tasks", time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := newIssuer(t)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	issuer := newIssuer(t)

	other, err := NewTokenIssuer("other-secret", "family-tasks", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("user-1")
	require.NoError(t, err)

	wrongIssuer, err := NewTokenIssuer("test-secret", "someone-else", time.Hour)
	require.NoError(t, err)
	foreign, err := wrongIssuer.Issue("user-1")
	require.NoError(t, err)

	expired, err := issuer.IssueWithTTL("user-1", -time.Minute)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"wrong secret": forged,
		"wrong issuer": foreign,
		"expired":      expired,
		"alg none":     none,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestNewTokenIssuerValidates(t *testing.T) {
	_, err := NewTokenIssuer("", "x", time.Hour)
	assert.Error(t, err)
	_, err = NewTokenIssuer("secret", "x", 0)
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	digest, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", digest)
	assert.True(t, hasher.Verify("secret", digest))
	assert.False(t, hasher.Verify("wrong", digest))
	assert.False(t, hasher.Verify("secret", "not-a-digest"))
}

type fakeUsers map[string]*user.User

func (f fakeUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	return f[id], nil
}

type failingUsers struct{}

func (failingUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, errors.New("db down")
}

func TestResolver(t *testing.T) {
	issuer := newIssuer(t)
	resolver := NewResolver(issuer, fakeUsers{"user-1": {ID: "user-1"}})
	ctx := context.Background()

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)
	u, err := resolver.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)

	ghostToken, err := issuer.Issue("ghost")
	require.NoError(t, err)
	_, err = resolver.Resolve(ctx, ghostToken)
	assert.ErrorIs(t, err, ErrUnknownPrincipal)

	_, err = resolver.Resolve(ctx, "broken")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = resolver.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestResolverPropagatesStorageErrors(t *testing.T) {
	issuer := newIssuer(t)
	resolver := NewResolver(issuer, failingUsers{})

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), token)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownPrincipal))
	assert.False(t, errors.Is(err, ErrInvalidCredential))
}
