package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpass123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "testpass123", hash)

	assert.True(t, CheckPasswordHash("testpass123", hash))
	assert.False(t, CheckPasswordHash("testpass124", hash))
	assert.False(t, CheckPasswordHash("", hash))
}
