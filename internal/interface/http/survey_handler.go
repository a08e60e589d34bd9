package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
	"github.com/oksasatya/doki-web/pkg/response"
	"github.com/oksasatya/doki-web/pkg/validation"
)

type SurveyHandler struct {
	Svc    *application.WizardService
	Logger *logrus.Logger
}

func NewSurveyHandler(svc *application.WizardService, logger *logrus.Logger) *SurveyHandler {
	return &SurveyHandler{Svc: svc, Logger: logger}
}

func (h *SurveyHandler) Draft(c *gin.Context) {
	d, err := h.Svc.Draft(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, d, "draft", nil)
}

// WriteStep handles PUT /survey/draft/steps/:step with that step's fields.
func (h *SurveyHandler) WriteStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, application.ErrUnknownStep.Error(), nil)
		return
	}
	var req application.StepAnswers
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.WriteStep(c.Request.Context(), middleware.DeviceID(c), step, req)
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, application.ErrUnknownStep):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
		return
	case errors.Is(err, application.ErrStepOutOfOrder):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
		return
	case errors.Is(err, application.ErrInvalidDateRange):
		response.Error[any](c, http.StatusBadRequest, err.Error(), map[string]string{"dateRange.end": "must not be before start"})
		return
	case errors.As(err, &verrs):
		response.Error[any](c, http.StatusBadRequest, "invalid step answers", validation.ToDetails(err))
		return
	case err != nil:
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, d, "step saved", nil)
}

func (h *SurveyHandler) Reset(c *gin.Context) {
	if err := h.Svc.Reset(c.Request.Context(), middleware.DeviceID(c)); err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "draft discarded", nil)
}

func (h *SurveyHandler) Submit(c *gin.Context) {
	receipt, err := h.Svc.Submit(c.Request.Context(), middleware.SessionFrom(c), middleware.DeviceID(c))
	switch {
	case errors.Is(err, application.ErrDraftIncomplete):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
		return
	case err != nil:
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, receipt, "survey submitted", nil)
}
