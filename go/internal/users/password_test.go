package users

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordFormat(t *testing.T) {
	hash := HashPassword("hunter2")

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should carry the argon2id prefix")
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	assert.NotEqual(t, HashPassword("hunter2"), HashPassword("hunter2"))
}

func TestVerifyPassword(t *testing.T) {
	hash := HashPassword("hunter2")

	assert.True(t, VerifyPassword("hunter2", hash))
	assert.False(t, VerifyPassword("hunter3", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	require.False(t, VerifyPassword("hunter2", ""))
	require.False(t, VerifyPassword("hunter2", "not-a-hash"))
	require.False(t, VerifyPassword("hunter2", "$argon2id$v=19$m=not,numbers$salt$key"))
}
