package repository

import (
	"context"

	"functionhall/internal/database"
	"functionhall/internal/domain"
	"functionhall/internal/pkg/apperr"

	"gorm.io/gorm"
)

type BookingFilter struct {
	CustomerID int64
	VendorID   int64
	HallID     int64
	Status     domain.BookingStatus
	Page
}

// BookingDetails is a booking joined with the names shown in listings.
type BookingDetails struct {
	domain.Booking
	HallName      string `json:"hall_name"`
	HallLocation  string `json:"hall_location"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PackageName   string `json:"package_name,omitempty"`
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

// Create inserts b. A clash on the active booking index is reported as a Conflict.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Wrap(apperr.ErrConflict, "date already booked", err)
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, "booking not found")
	}
	return &b, nil
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := forUpdate(r.db.WithContext(ctx)).First(&b, id).Error; err != nil {
		return nil, notFound(err, "booking not found")
	}
	return &b, nil
}

// FindActive returns the Pending or Confirmed booking holding hallID on date, or nil.
func (r *BookingRepository) FindActive(ctx context.Context, hallID int64, date string) (*domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("hall_id = ? AND event_date = ? AND status IN ?", hallID, date, domain.ActiveBookingStatuses).
		Limit(1).
		Find(&out).Error
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r *BookingRepository) CountActiveForHall(ctx context.Context, hallID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("hall_id = ? AND status IN ?", hallID, domain.ActiveBookingStatuses).
		Count(&n).Error
	return n, err
}

// UpdateStatus moves the booking from one status to another. Zero rows means
// the booking had already left from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		if database.IsUniqueViolation(res.Error) {
			return apperr.Wrap(apperr.ErrConflict, "date already booked", res.Error)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("booking status changed concurrently")
	}
	return nil
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]BookingDetails, int64, error) {
	q := r.db.WithContext(ctx).
		Table("bookings").
		Joins("LEFT JOIN halls ON halls.id = bookings.hall_id").
		Joins("LEFT JOIN customers ON customers.id = bookings.customer_id").
		Joins("LEFT JOIN packages ON packages.id = bookings.package_id")

	if f.CustomerID > 0 {
		q = q.Where("bookings.customer_id = ?", f.CustomerID)
	}
	if f.VendorID > 0 {
		q = q.Where("halls.vendor_id = ?", f.VendorID)
	}
	if f.HallID > 0 {
		q = q.Where("bookings.hall_id = ?", f.HallID)
	}
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []BookingDetails
	err := f.Page.apply(q).
		Select(`bookings.*,
			halls.name AS hall_name,
			halls.location AS hall_location,
			customers.name AS customer_name,
			customers.phone AS customer_phone,
			packages.package_name AS package_name`).
		Order("bookings.event_date DESC, bookings.id DESC").
		Scan(&out).Error
	return out, total, err
}

// BookedDates lists the dates in [from, to] held by active bookings of hallID.
func (r *BookingRepository) BookedDates(ctx context.Context, hallID int64, from, to string) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("hall_id = ? AND event_date BETWEEN ? AND ? AND status IN ?", hallID, from, to, domain.ActiveBookingStatuses).
		Order("event_date").
		Pluck("event_date", &dates).Error
	return dates, err
}

// ListConfirmedBefore returns Confirmed bookings whose event date is earlier than date.
func (r *BookingRepository) ListConfirmedBefore(ctx context.Context, date string, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND event_date < ?", domain.BookingConfirmed, date).
		Order("id").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
