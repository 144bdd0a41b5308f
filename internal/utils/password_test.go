package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	// Salted: a second hash of the same plaintext differs.
	hash2, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)

	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.True(t, VerifyPassword(hash2, "hunter2"))
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.False(t, VerifyPassword(hash, "hunter3"))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	// A corrupt stored hash is a verification failure, not a panic.
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "hunter2"))
	assert.False(t, VerifyPassword("", "hunter2"))
}
