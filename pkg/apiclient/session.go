package apiclient

import (
	"context"
	"net/http"
)

// Session is the credential holder an authorized call reads from and
// writes back to. Implementations must make Clear idempotent.
type Session interface {
	// ID identifies the session for reissue coalescing; empty disables it.
	ID() string
	AccessToken() string
	// Cookies are sent with every call, carrying the refresh cookie.
	Cookies() []*http.Cookie
	SetAccessToken(ctx context.Context, token string) error
	SetCookies(ctx context.Context, cookies []*http.Cookie) error
	Clear(ctx context.Context) error
}

// Navigator forces the user agent back to the login screen.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }
