package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/doki-web/internal/container"
	handlers "github.com/oksasatya/doki-web/internal/interface/http"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
)

// BookingModule: bookings and the member itinerary, all signed in.
type BookingModule struct {
	Handler *handlers.BookingHandler
}

func NewBookingModule(h *handlers.BookingHandler) *BookingModule {
	return &BookingModule{Handler: h}
}

func (m *BookingModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth())
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.GET("/bookings", m.Handler.List)
		auth.POST("/bookings", m.Handler.Create)
		auth.DELETE("/bookings/:id", m.Handler.Cancel)
		auth.GET("/schedules", m.Handler.Schedules)
		auth.PATCH("/schedules/:id", m.Handler.UpdateSchedule)
	}
}
