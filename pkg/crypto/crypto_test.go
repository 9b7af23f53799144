package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	require.True(t, VerifyPassword(hash, "secret1"))
	require.False(t, VerifyPassword(hash, "secret2"))
	require.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	// Same input, different salt, different digest.
	require.NotEqual(t, first, second)
	require.True(t, VerifyPassword(first, "secret1"))
	require.True(t, VerifyPassword(second, "secret1"))
}

func TestVerifyPasswordRejectsGarbageDigest(t *testing.T) {
	require.False(t, VerifyPassword("not-a-bcrypt-hash", "secret1"))
}
