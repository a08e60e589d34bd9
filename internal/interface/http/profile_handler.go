package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
	"github.com/oksasatya/doki-web/pkg/response"
	"github.com/oksasatya/doki-web/pkg/validation"
)

const maxImageBytes = 5 << 20

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateName(c.Request.Context(), middleware.SessionFrom(c), req.Name)
	switch {
	case errors.Is(err, application.ErrEmptyName):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", gin.H{"name": err.Error()})
		return
	case err != nil:
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

// UploadImage accepts a multipart "image" field.
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<10)
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image is required", nil)
		return
	}
	if fh.Size > maxImageBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "image too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable image", nil)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadImage(c.Request.Context(), middleware.SessionFrom(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, application.ErrUnsupportedImage):
		response.Error[any](c, http.StatusUnsupportedMediaType, err.Error(), nil)
		return
	case errors.Is(err, application.ErrUploadDisabled):
		response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil)
		return
	case err != nil:
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile image updated", nil)
}
