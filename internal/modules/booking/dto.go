package booking

import "functionhall/internal/domain"

type CreateBookingRequest struct {
	HallID    int64  `json:"hall_id" binding:"required"`
	EventDate string `json:"event_date" binding:"required"`
	PackageID *int64 `json:"package_id"`
	// CustomerID is honoured only for super admins booking on a customer's behalf.
	CustomerID int64 `json:"customer_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateBookingInput struct {
	CustomerID int64
	HallID     int64
	EventDate  string
	PackageID  *int64
}

type Availability struct {
	HallID               int64  `json:"hall_id"`
	Date                 string `json:"date"`
	Available            bool   `json:"available"`
	ConflictingBookingID *int64 `json:"conflicting_booking_id,omitempty"`
	Message              string `json:"message"`
}

// Actor is the authenticated principal changing a booking.
type Actor struct {
	ID   int64
	Role domain.Role
}

// System is the actor used by maintenance jobs.
var System = Actor{Role: domain.RoleSuperAdmin}

type Calendar struct {
	HallID      int64    `json:"hall_id"`
	Month       string   `json:"month"`
	BookedDates []string `json:"booked_dates"`
}
