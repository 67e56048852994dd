package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse battery"))
	assert.Error(t, hasher.Compare(hash, "wrong password"))
}

func TestHashRejectsShortPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash("short")
	assert.Error(t, err)
}

func TestInvalidCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(10_000)

	hash, err := hasher.Hash("long enough password")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "long enough password"))
}
