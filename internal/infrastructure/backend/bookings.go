package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/pkg/apiclient"
)

type NewBooking struct {
	PackageID int64  `json:"packageId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	People    int    `json:"people"`
}

// SchedulePatch carries only the fields being edited.
type SchedulePatch struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Memo      *string `json:"memo,omitempty"`
}

func (a *API) ListBookings(ctx context.Context, sess apiclient.Session) ([]entity.Booking, error) {
	var out []entity.Booking
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodGet, Path: "/bookings", Auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) CreateBooking(ctx context.Context, sess apiclient.Session, b NewBooking) (*entity.Booking, error) {
	var out entity.Booking
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodPost, Path: "/bookings", Body: b, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) CancelBooking(ctx context.Context, sess apiclient.Session, id int64) error {
	return a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodDelete, Path: "/bookings/" + strconv.FormatInt(id, 10), Auth: true}, nil)
}

// ListSchedules returns the itinerary, optionally limited to one date.
func (a *API) ListSchedules(ctx context.Context, sess apiclient.Session, date string) ([]entity.Schedule, error) {
	var q url.Values
	if date != "" {
		q = url.Values{"date": {date}}
	}
	var out []entity.Schedule
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodGet, Path: "/schedules", Query: q, Auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) UpdateSchedule(ctx context.Context, sess apiclient.Session, id int64, p SchedulePatch) (*entity.Schedule, error) {
	var out entity.Schedule
	if err := a.c.Do(ctx, sess, apiclient.Request{Method: http.MethodPatch, Path: "/schedules/" + strconv.FormatInt(id, 10), Body: p, Auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
