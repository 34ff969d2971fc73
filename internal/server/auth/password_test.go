package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	for _, p := range []string{"secret1", "päss wörd", "123456", ""} {
		digest, err := h.Hash(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, digest)
		assert.True(t, h.Verify(p, digest), "plaintext %q must verify", p)
	}
}

func TestPasswordHasher_Mismatch(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.False(t, h.Verify("secret2", digest))
	assert.False(t, h.Verify("Secret1", digest))
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("secret1", ""))
	assert.False(t, h.Verify("secret1", "not-a-bcrypt-hash"))
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_DefaultCost(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(0)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestPasswordHasher_CompareDummy(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost + 1)

	cost, err := bcrypt.Cost(h.dummy)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost, "dummy digest costs as much as a real one")

	assert.NotPanics(t, func() { h.CompareDummy("secret1") })
}
