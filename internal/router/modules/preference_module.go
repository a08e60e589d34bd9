package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/doki-web/internal/interface/http"
)

type PreferenceModule struct {
	Handler *handlers.PreferenceHandler
}

func NewPreferenceModule(h *handlers.PreferenceHandler) *PreferenceModule {
	return &PreferenceModule{Handler: h}
}

func (m *PreferenceModule) Register(rg *gin.RouterGroup) {
	rg.GET("/preferences/language", m.Handler.GetLanguage)
	rg.PUT("/preferences/language", m.Handler.SetLanguage)
}
