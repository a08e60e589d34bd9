package entity

import "time"

type BookingStatus string

const (
	BookingRequested BookingStatus = "REQUESTED"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID        int64         `json:"id"`
	PackageID int64         `json:"packageId"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	People    int           `json:"people"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Schedule is one slot on the member's itinerary.
type Schedule struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"bookingId,omitempty"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Place     string `json:"place,omitempty"`
	Memo      string `json:"memo,omitempty"`
}
