package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the access token fields the web tier reads. The backend
// signs the token; this side never verifies it, it only needs the subject
// and the expiry.
type TokenClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

var ErrNoSubject = errors.New("token has no subject")

// ParseAccessTokenUnverified decodes claims without checking the signature.
func ParseAccessTokenUnverified(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrNoSubject
	}
	return claims, nil
}

// TokenExpiry returns the exp claim, or false when absent or unparseable.
func TokenExpiry(tokenStr string) (time.Time, bool) {
	claims, err := ParseAccessTokenUnverified(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
