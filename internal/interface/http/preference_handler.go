package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
	"github.com/oksasatya/doki-web/pkg/response"
	"github.com/oksasatya/doki-web/pkg/validation"
)

type PreferenceHandler struct {
	Svc    *application.PreferenceService
	Logger *logrus.Logger
}

func NewPreferenceHandler(svc *application.PreferenceService, logger *logrus.Logger) *PreferenceHandler {
	return &PreferenceHandler{Svc: svc, Logger: logger}
}

type languageBody struct {
	Language string `json:"language" binding:"required,lang"`
}

func (h *PreferenceHandler) GetLanguage(c *gin.Context) {
	lang, err := h.Svc.Language(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, languageBody{Language: lang}, "language", nil)
}

func (h *PreferenceHandler) SetLanguage(c *gin.Context) {
	var req languageBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.SetLanguage(c.Request.Context(), middleware.DeviceID(c), req.Language); err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, req, "language updated", nil)
}
