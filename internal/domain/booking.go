package domain

import (
	"strings"
	"time"
)

// EventDateLayout is the storage and wire format of Booking.EventDate.
const EventDateLayout = "2006-01-02"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

// ActiveBookingStatuses hold a hall's date. At most one booking per hall and
// date may be in one of them.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

var bookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}

// ParseBookingStatus accepts any casing of a known status.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	for _, st := range bookingStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type Booking struct {
	ID          int64         `json:"id" gorm:"primaryKey"`
	CustomerID  int64         `json:"customer_id" gorm:"not null;index"`
	HallID      int64         `json:"hall_id" gorm:"not null;index"`
	PackageID   *int64        `json:"package_id,omitempty"`
	EventDate   string        `json:"event_date" gorm:"size:10;not null"`
	Status      BookingStatus `json:"status" gorm:"size:20;not null;default:Pending"`
	TotalAmount float64       `json:"total_amount" gorm:"not null"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

// ParseEventDate validates a calendar date and returns it in EventDateLayout.
func ParseEventDate(s string) (string, error) {
	d, err := time.Parse(EventDateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return d.Format(EventDateLayout), nil
}
