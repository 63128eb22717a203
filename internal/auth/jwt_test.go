package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateToken(42, "student@college.edu", "student")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "student@college.edu", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.NotEmpty(t, claims.ID, "jti should be set")
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	m := NewManager("secret-a", time.Hour)
	token, err := m.GenerateToken(1, "a@college.edu", "student")
	require.NoError(t, err)

	other := NewManager("secret-b", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	token, err := m.GenerateToken(1, "a@college.edu", "student")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	_, err := m.ParseToken("not.a.token")
	assert.Error(t, err)
}
