package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-which-is-long-enough-123456"

func TestSigner_IssueAndValidate(t *testing.T) {
	signer := NewSigner(testSecret, "bookpoint", "bookpoint-api", 30*time.Minute)

	tokenStr, err := signer.Issue(42, "user@example.com", "client")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := signer.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "client", claims.Role)
	assert.Equal(t, "bookpoint", claims.Issuer)
}

func TestSigner_Expired(t *testing.T) {
	signer := NewSigner(testSecret, "bookpoint", "bookpoint-api", -1*time.Minute)

	tokenStr, err := signer.Issue(1, "user@example.com", "client")
	require.NoError(t, err)

	_, err = signer.Validate(tokenStr)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSigner_WrongSecret(t *testing.T) {
	issuing := NewSigner(testSecret, "bookpoint", "bookpoint-api", time.Hour)
	validating := NewSigner("another-secret-which-is-long-enough-456", "bookpoint", "bookpoint-api", time.Hour)

	tokenStr, err := issuing.Issue(1, "user@example.com", "client")
	require.NoError(t, err)

	_, err = validating.Validate(tokenStr)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSigner_WrongIssuer(t *testing.T) {
	issuing := NewSigner(testSecret, "someone-else", "bookpoint-api", time.Hour)
	validating := NewSigner(testSecret, "bookpoint", "bookpoint-api", time.Hour)

	tokenStr, err := issuing.Issue(1, "user@example.com", "client")
	require.NoError(t, err)

	_, err = validating.Validate(tokenStr)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSigner_WrongAudience(t *testing.T) {
	issuing := NewSigner(testSecret, "bookpoint", "other-api", time.Hour)
	validating := NewSigner(testSecret, "bookpoint", "bookpoint-api", time.Hour)

	tokenStr, err := issuing.Issue(1, "user@example.com", "client")
	require.NoError(t, err)

	_, err = validating.Validate(tokenStr)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSigner_Garbage(t *testing.T) {
	signer := NewSigner(testSecret, "bookpoint", "bookpoint-api", time.Hour)

	_, err := signer.Validate("not-a-jwt-at-all")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
