package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/doki-web/internal/interface/http"
)

type ConfigModule struct {
	Handler *handlers.ConfigHandler
}

func NewConfigModule(h *handlers.ConfigHandler) *ConfigModule {
	return &ConfigModule{Handler: h}
}

func (m *ConfigModule) Register(rg *gin.RouterGroup) {
	rg.GET("/config", m.Handler.Get)
}
