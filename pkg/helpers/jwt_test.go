package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestParseAccessTokenUnverified(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{"sub": "42", "email": "a@doki.kr", "exp": exp.Unix()})

	claims, err := ParseAccessTokenUnverified(tok)

	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "a@doki.kr", claims.Email)
	got, ok := TokenExpiry(tok)
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestParseAccessTokenUnverified_PrefersUID(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "ignored", "uid": "u-7"})

	claims, err := ParseAccessTokenUnverified(tok)

	require.NoError(t, err)
	assert.Equal(t, "u-7", claims.UserID)
	_, ok := TokenExpiry(tok)
	assert.False(t, ok)
}

func TestParseAccessTokenUnverified_Rejects(t *testing.T) {
	_, err := ParseAccessTokenUnverified("not-a-jwt")
	assert.Error(t, err)

	_, err = ParseAccessTokenUnverified(signed(t, jwt.MapClaims{"email": "x@y.z"}))
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestProfileImagePath(t *testing.T) {
	assert.Equal(t, "profile-images/u1/abc.png", ProfileImagePath("u1", "abc", "Me.PNG"))
	assert.Equal(t, "profile-images/u1/abc", ProfileImagePath("u1", "abc", "noext"))
}
