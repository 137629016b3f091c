package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("Sup3r$ecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3r$ecret", hash)

	assert.NoError(t, h.Verify(hash, "Sup3r$ecret"))
	assert.ErrorIs(t, h.Verify(hash, "wrong-password"), ErrPasswordMismatch)
}

func TestHasherRejectsShortPassword(t *testing.T) {
	_, err := NewHasher(bcrypt.MinCost).Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestHasherCostFallback(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).cost)
}

func TestVerifyDummyAlwaysFails(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.ErrorIs(t, h.VerifyDummy("anything"), ErrPasswordMismatch)
	assert.ErrorIs(t, h.VerifyDummy("no-such-account"), ErrPasswordMismatch)
}
