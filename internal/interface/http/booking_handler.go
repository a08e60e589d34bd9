package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
	"github.com/oksasatya/doki-web/pkg/response"
	"github.com/oksasatya/doki-web/pkg/validation"
)

type BookingHandler struct {
	Svc    *application.BookingService
	Logger *logrus.Logger
}

func NewBookingHandler(svc *application.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

type createBookingRequest struct {
	PackageID int64  `json:"packageId" binding:"required,gt=0"`
	Date      string `json:"date" binding:"required,ymd"`
	Time      string `json:"time" binding:"required,hhmm"`
	People    int    `json:"people" binding:"required,min=1,max=20"`
}

type scheduleQuery struct {
	Date string `form:"date" binding:"omitempty,ymd"`
}

type updateScheduleRequest struct {
	Date      *string `json:"date" binding:"omitempty,ymd"`
	StartTime *string `json:"startTime" binding:"omitempty,hhmm"`
	EndTime   *string `json:"endTime" binding:"omitempty,hhmm"`
	Memo      *string `json:"memo" binding:"omitempty,max=500"`
}

func (h *BookingHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "bookings", nil)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), middleware.SessionFrom(c), backend.NewBooking(req))
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, b, "booking requested", nil)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Cancel(c.Request.Context(), middleware.SessionFrom(c), id); err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"cancelled": id}, "booking cancelled", nil)
}

func (h *BookingHandler) Schedules(c *gin.Context) {
	var q scheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	out, err := h.Svc.Schedules(c.Request.Context(), middleware.SessionFrom(c), q.Date)
	if err != nil {
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "schedules", nil)
}

func (h *BookingHandler) UpdateSchedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	s, err := h.Svc.UpdateSchedule(c.Request.Context(), middleware.SessionFrom(c), id, backend.SchedulePatch(req))
	switch {
	case errors.Is(err, application.ErrEmptyPatch), errors.Is(err, application.ErrInvalidTimeRange):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		return
	case err != nil:
		backendError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "schedule updated", nil)
}
