package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia123", hash)

	assert.True(t, VerifyPassword("rahasia123", hash))
	assert.False(t, VerifyPassword("salah", hash))
	assert.False(t, VerifyPassword("rahasia123", "bukan-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("test-secret"), TTL: time.Hour}

	token, err := issuer.Issue("VEND-AB12CD", "Warung Bu Sri")
	require.NoError(t, err)

	vendorID, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "VEND-AB12CD", vendorID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("secret-a"), TTL: time.Hour}
	other := &TokenIssuer{Secret: []byte("secret-b"), TTL: time.Hour}

	token, err := issuer.Issue("VEND-AB12CD", "Warung")
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("test-secret"), TTL: -time.Minute}

	token, err := issuer.Issue("VEND-AB12CD", "Warung")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("test-secret"), TTL: time.Hour}
	_, err := issuer.Parse("bukan.token.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
