package security

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompareValue(t *testing.T) {
	digest, err := HashValue("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", digest)

	assert.True(t, CompareValue("s3cretpass", digest))
	assert.False(t, CompareValue("wrongpass", digest))
	assert.False(t, CompareValue("s3cretpass", "not-a-digest"))
}

func TestHashValue_SaltsEveryDigest(t *testing.T) {
	a, err := HashValue("same-input")
	require.NoError(t, err)
	b, err := HashValue("same-input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
