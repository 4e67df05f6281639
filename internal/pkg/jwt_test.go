package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("access-secret", "refresh-secret", 30*time.Minute, 24*time.Hour)
}

func TestGenerateAndParseAccess(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.GeneratePair(42, "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "access", claims.Subject)
}

func TestParseAccessWrongSecret(t *testing.T) {
	pair, err := newTestIssuer().GeneratePair(1, "USER")
	require.NoError(t, err)

	other := NewTokenIssuer("different", "refresh-secret", time.Minute, time.Hour)
	_, err = other.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestParseAccessExpired(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", -time.Minute, time.Hour)
	pair, err := issuer.GeneratePair(1, "USER")
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshRotatesPair(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.GeneratePair(7, "USER")
	require.NoError(t, err)

	next, err := issuer.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := issuer.ParseAccess(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "USER", claims.Role)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.GeneratePair(7, "USER")
	require.NoError(t, err)

	// An access token must not pass as a refresh token even if the secrets
	// were shared.
	shared := NewTokenIssuer("s", "s", time.Minute, time.Hour)
	sharedPair, err := shared.GeneratePair(7, "USER")
	require.NoError(t, err)
	_, err = shared.Refresh(sharedPair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	// And with distinct secrets the signature check already rejects it.
	_, err = issuer.Refresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestRefreshExpired(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, -time.Minute)
	pair, err := issuer.GeneratePair(1, "USER")
	require.NoError(t, err)

	_, err = issuer.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}
