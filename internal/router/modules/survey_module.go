package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/doki-web/internal/container"
	handlers "github.com/oksasatya/doki-web/internal/interface/http"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
)

// SurveyModule: the intake wizard. Drafts belong to the device, so only
// submission needs a signed-in user.
type SurveyModule struct {
	Handler *handlers.SurveyHandler
}

func NewSurveyModule(h *handlers.SurveyHandler) *SurveyModule {
	return &SurveyModule{Handler: h}
}

func (m *SurveyModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/survey")
	g.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil))
	{
		g.GET("/draft", m.Handler.Draft)
		g.PUT("/draft/steps/:step", m.Handler.WriteStep)
		g.DELETE("/draft", m.Handler.Reset)
		g.POST("/submit", middleware.RequireAuth(), m.Handler.Submit)
	}
}
