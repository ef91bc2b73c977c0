package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, Verify("s3cret-pass", hash))
	assert.False(t, Verify("wrong-pass", hash))
}

func TestHashTokenHandlesLongTokens(t *testing.T) {
	// Signed JWTs run a few hundred bytes, well past bcrypt's 72-byte limit
	long := strings.Repeat("a", 300)

	digest := HashToken(long)
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, HashToken(long))
	assert.NotEqual(t, digest, HashToken(long+"b"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same-input")
	require.NoError(t, err)
	second, err := Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify("same-input", first))
	assert.True(t, Verify("same-input", second))
}
