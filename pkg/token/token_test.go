package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndVerify(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour, "library-api")

	tok, err := maker.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := maker.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "library-api", claims.Issuer)
}

func TestMaker_Verify_Expired(t *testing.T) {
	maker := NewMaker("test-secret", -time.Minute, "library-api")
	// NewMaker replaces non-positive ttl with the default, so build an
	// already-expired maker by hand
	maker.ttl = -time.Minute

	tok, err := maker.Generate(42)
	require.NoError(t, err)

	_, err = maker.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestMaker_Verify_WrongSecret(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour, "library-api")
	other := NewMaker("other-secret", time.Hour, "library-api")

	tok, err := maker.Generate(42)
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMaker_Verify_Garbage(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour, "library-api")

	_, err := maker.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMaker_DefaultTTL(t *testing.T) {
	maker := NewMaker("test-secret", 0, "library-api")
	assert.Equal(t, 24*time.Hour, maker.ttl)
}
