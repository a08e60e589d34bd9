package middleware

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/doki-web/pkg/apiclient"
)

const loginURLKey = "login_url"

type navTargetKey struct{}

type loginTarget struct {
	once  sync.Once
	c     *gin.Context
	url   string
	fired bool
}

// LoginRedirect installs a per-request navigation target so an expired
// session discovered deep inside a backend call can point the browser at
// the login screen.
func LoginRedirect(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := &loginTarget{c: c, url: loginURL}
		c.Set(loginURLKey, loginURL)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), navTargetKey{}, t))
		c.Next()
	}
}

// LoginURL returns the login URL installed by LoginRedirect.
func LoginURL(c *gin.Context) string {
	return c.GetString(loginURLKey)
}

// ContextNavigator sends the user agent to login through the target found
// in ctx. Without a target, as in background jobs, it does nothing.
type ContextNavigator struct{}

func (ContextNavigator) ToLogin(ctx context.Context) {
	t, ok := ctx.Value(navTargetKey{}).(*loginTarget)
	if !ok {
		return
	}
	t.once.Do(func() {
		t.fired = true
		t.c.Header("X-Session-Expired", "1")
		t.c.Header("Location", t.url)
	})
}

// SessionExpired reports whether the navigator fired during this request.
func SessionExpired(c *gin.Context) bool {
	t, ok := c.Request.Context().Value(navTargetKey{}).(*loginTarget)
	return ok && t.fired
}

var _ apiclient.Navigator = ContextNavigator{}
