package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/doki-web/internal/container"
	handlers "github.com/oksasatya/doki-web/internal/interface/http"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
)

// CatalogModule wires packages and reviews.
// Public: GET /api/packages, /api/packages/search, /api/packages/:id, /api/packages/:id/reviews
// Signed in: POST /api/reviews, DELETE /api/reviews/:id, GET /api/reviews/me
type CatalogModule struct {
	Handler *handlers.CatalogHandler
}

func NewCatalogModule(h *handlers.CatalogHandler) *CatalogModule {
	return &CatalogModule{Handler: h}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	browse := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)
	search := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/packages", browse, m.Handler.ListPackages)
	rg.GET("/packages/search", search, m.Handler.Search)
	rg.GET("/packages/:id", browse, m.Handler.GetPackage)
	rg.GET("/packages/:id/reviews", browse, m.Handler.PackageReviews)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth())
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.GET("/reviews/me", m.Handler.MyReviews)
		auth.POST("/reviews", m.Handler.CreateReview)
		auth.DELETE("/reviews/:id", m.Handler.DeleteReview)
	}
}
