package application

import (
	"context"
	"errors"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/pkg/apiclient"
)

var (
	ErrInvalidTimeRange = errors.New("schedule ends before it starts")
	ErrEmptyPatch       = errors.New("nothing to update")
)

type BookingService struct {
	API *backend.API
}

func NewBookingService(api *backend.API) *BookingService {
	return &BookingService{API: api}
}

func (s *BookingService) List(ctx context.Context, sess apiclient.Session) ([]entity.Booking, error) {
	return s.API.ListBookings(ctx, sess)
}

func (s *BookingService) Create(ctx context.Context, sess apiclient.Session, b backend.NewBooking) (*entity.Booking, error) {
	return s.API.CreateBooking(ctx, sess, b)
}

func (s *BookingService) Cancel(ctx context.Context, sess apiclient.Session, id int64) error {
	return s.API.CancelBooking(ctx, sess, id)
}

func (s *BookingService) Schedules(ctx context.Context, sess apiclient.Session, date string) ([]entity.Schedule, error) {
	return s.API.ListSchedules(ctx, sess, date)
}

// UpdateSchedule rejects empty patches and inverted HH:MM ranges before
// the backend sees them.
func (s *BookingService) UpdateSchedule(ctx context.Context, sess apiclient.Session, id int64, p backend.SchedulePatch) (*entity.Schedule, error) {
	if p.Date == nil && p.StartTime == nil && p.EndTime == nil && p.Memo == nil {
		return nil, ErrEmptyPatch
	}
	if p.StartTime != nil && p.EndTime != nil && *p.EndTime <= *p.StartTime {
		return nil, ErrInvalidTimeRange
	}
	return s.API.UpdateSchedule(ctx, sess, id, p)
}
