package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/doki-web/internal/container"
	handlers "github.com/oksasatya/doki-web/internal/interface/http"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
)

// AuthModule owns the OAuth round trip and session introspection.
// Root: GET /auth/login, GET /auth/callback
// API: GET /api/auth/session, POST /api/auth/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) RegisterRoot(r gin.IRouter) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	r.GET("/auth/login", loginLimiter, m.Handler.Login)
	r.GET("/auth/callback", loginLimiter, m.Handler.Callback)
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// polled by the browser
	sessionLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil)
	rg.GET("/auth/session", sessionLimiter, m.Handler.Session)
	rg.POST("/auth/logout", m.Handler.Logout)
}
