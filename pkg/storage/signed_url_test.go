package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Minute)

	token, expiresAt, err := signer.Generate("letter-1", "letters/2024/letter-1.pdf")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	resourceID, relPath, _, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "letter-1", resourceID)
	assert.Equal(t, "letters/2024/letter-1.pdf", relPath)
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Minute)
	token, _, err := signer.Generate("letter-1", "letters/letter-1.pdf")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token+"x", false)
	assert.Error(t, err)

	other := NewSignedURLSigner("other-secret", time.Minute)
	_, _, _, err = other.Parse(token, false)
	assert.Error(t, err)
}

func TestSignedURLExpiry(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Minute)
	// Issue the token in the past so it is already expired.
	signer.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	token, expiresAt, err := signer.Generate("exp-1", "exports/summary.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.Before(time.Now()))

	signer.now = time.Now
	_, _, _, err = signer.Parse(token, false)
	assert.Error(t, err)

	// Cleanup routines may read expired tokens.
	_, relPath, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "exports/summary.csv", relPath)
}

func TestSignedURLDefaultTTL(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", -time.Minute)
	token, expiresAt, err := signer.Generate("d-1", "exports/d.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	_, _, _, err = signer.Parse(token, false)
	assert.NoError(t, err)
}
