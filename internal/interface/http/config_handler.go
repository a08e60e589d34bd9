package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/doki-web/pkg/response"
)

// PublicConfig is the browser-safe subset of configuration.
type PublicConfig struct {
	MapsAPIKey string   `json:"mapsApiKey"`
	LoginURL   string   `json:"loginUrl"`
	Languages  []string `json:"languages"`
}

type ConfigHandler struct {
	Public PublicConfig
}

func NewConfigHandler(public PublicConfig) *ConfigHandler {
	return &ConfigHandler{Public: public}
}

func (h *ConfigHandler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Public, "config", nil)
}
