package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/doki-web/internal/container"
	handlers "github.com/oksasatya/doki-web/internal/interface/http"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
)

// ProfileModule: GET/PATCH /api/profile, PUT /api/profile/image (all signed in)
type ProfileModule struct {
	Handler *handlers.ProfileHandler
}

func NewProfileModule(h *handlers.ProfileHandler) *ProfileModule {
	return &ProfileModule{Handler: h}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth())
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PATCH("/profile", m.Handler.UpdateProfile)
		auth.PUT("/profile/image",
			middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUser(), nil),
			m.Handler.UploadImage)
	}
}
