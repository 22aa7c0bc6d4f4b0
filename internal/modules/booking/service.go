package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"functionhall/internal/domain"
	"functionhall/internal/logger"
	"functionhall/internal/metrics"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/repository"

	"gorm.io/gorm"
)

const (
	EventCreated       = "booking.created"
	EventStatusChanged = "booking.status_changed"

	sweepBatch = 100
)

type Service struct {
	db        *gorm.DB
	customers *repository.CustomerRepository
	vendors   *repository.VendorRepository
	halls     *repository.HallRepository
	bookings  *repository.BookingRepository

	notifs Notifier
	feed   EventPublisher
	now    func() time.Time
}

// NewService wires the engine. notifs and feed are optional.
func NewService(db *gorm.DB, notifs Notifier, feed EventPublisher) *Service {
	return &Service{
		db:        db,
		customers: repository.NewCustomerRepository(db),
		vendors:   repository.NewVendorRepository(db),
		halls:     repository.NewHallRepository(db),
		bookings:  repository.NewBookingRepository(db),
		notifs:    notifs,
		feed:      feed,
		now:       time.Now,
	}
}

// CheckAvailability reports whether no Pending or Confirmed booking holds the hall on date.
func (s *Service) CheckAvailability(ctx context.Context, hallID int64, date string) (*Availability, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.halls.GetByID(ctx, hallID); err != nil {
		return nil, err
	}

	existing, err := s.bookings.FindActive(ctx, hallID, day)
	if err != nil {
		return nil, err
	}

	out := &Availability{HallID: hallID, Date: day, Available: existing == nil}
	if existing != nil {
		out.ConflictingBookingID = &existing.ID
		out.Message = "Hall is already booked on " + day
	} else {
		out.Message = "Hall is available on " + day
	}
	return out, nil
}

// CreateBooking books the hall for one day. The availability check and the
// insert share a transaction holding the hall row lock, and the active booking
// index rejects whatever still slips through.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	day, err := parseDate(in.EventDate)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, in.CustomerID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Authorization("customer account not found")
	}
	if err != nil {
		return nil, err
	}
	if !customer.CanBook() {
		return nil, apperr.Authorization("customer account is not approved")
	}

	var (
		b    *domain.Booking
		hall *domain.Hall
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		halls := s.halls.WithTx(tx)
		bookings := s.bookings.WithTx(tx)

		var err error
		hall, err = halls.GetByIDForUpdate(ctx, in.HallID)
		if err != nil {
			return err
		}

		existing, err := bookings.FindActive(ctx, hall.ID, day)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("date already booked")
		}

		total := hall.PricePerDay
		if in.PackageID != nil {
			pkg, err := halls.GetPackage(ctx, *in.PackageID)
			if err != nil {
				return err
			}
			if pkg.HallID != hall.ID {
				return apperr.Validation("package does not belong to this hall")
			}
			total += pkg.Price
		}

		b = &domain.Booking{
			CustomerID:  customer.ID,
			HallID:      hall.ID,
			PackageID:   in.PackageID,
			EventDate:   day,
			Status:      domain.BookingPending,
			TotalAmount: total,
		}
		return bookings.Create(ctx, b)
	})
	if err != nil {
		metrics.BookingsCreated.WithLabelValues(createOutcome(err)).Inc()
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues("created").Inc()
	logger.WithContext(ctx).Info("booking created",
		"booking_id", b.ID, "hall_id", b.HallID, "customer_id", b.CustomerID, "event_date", b.EventDate)

	s.notifyOwner(ctx, hall, customer, b)
	s.publish(EventCreated, b)
	return b, nil
}

func createOutcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrNotFound):
		return "rejected"
	default:
		return "error"
	}
}

// UpdateStatus applies one lifecycle transition on behalf of actor.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, bookingID int64, status string) (*domain.Booking, error) {
	next, ok := domain.ParseBookingStatus(status)
	if !ok {
		return nil, apperr.Validation("status must be one of: Pending, Confirmed, Completed, Cancelled")
	}

	var (
		b    *domain.Booking
		prev domain.BookingStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := s.bookings.WithTx(tx)

		var err error
		b, err = bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, s.halls.WithTx(tx), actor, b, next); err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(next) {
			return apperr.InvalidState(fmt.Sprintf("cannot change booking from %s to %s", b.Status, next))
		}
		if err := bookings.UpdateStatus(ctx, b.ID, b.Status, next); err != nil {
			return err
		}

		prev = b.Status
		b.Status = next
		b.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("booking status changed",
		"booking_id", b.ID, "from", prev, "to", next, "actor_id", actor.ID, "actor_role", actor.Role)

	switch {
	case prev == domain.BookingPending && next == domain.BookingConfirmed:
		s.notifyCustomer(ctx, b, notification.TypeBookingConfirmed, confirmationBody)
	case next == domain.BookingCancelled:
		s.notifyCustomer(ctx, b, notification.TypeBookingCancelled, cancellationBody)
	}
	s.publish(EventStatusChanged, b)
	return b, nil
}

func (s *Service) authorize(ctx context.Context, halls *repository.HallRepository, actor Actor, b *domain.Booking, next domain.BookingStatus) error {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleVendor:
		hall, err := halls.GetByID(ctx, b.HallID)
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Authorization("you do not own this hall")
		}
		if err != nil {
			return err
		}
		if !hall.OwnedBy(actor.ID) {
			return apperr.Authorization("you do not own this hall")
		}
		return nil
	case domain.RoleCustomer:
		if b.CustomerID != actor.ID {
			return apperr.Authorization("not your booking")
		}
		if next != domain.BookingCancelled {
			return apperr.Authorization("customers can only cancel bookings")
		}
		return nil
	default:
		return apperr.Authorization("unknown role")
	}
}

// Get returns a booking visible to actor.
func (s *Service) Get(ctx context.Context, actor Actor, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return b, nil
	case domain.RoleCustomer:
		if b.CustomerID == actor.ID {
			return b, nil
		}
	case domain.RoleVendor:
		if hall, err := s.halls.GetByID(ctx, b.HallID); err == nil && hall.OwnedBy(actor.ID) {
			return b, nil
		}
	}
	return nil, apperr.Authorization("not your booking")
}

func (s *Service) List(ctx context.Context, f repository.BookingFilter) ([]repository.BookingDetails, int64, error) {
	return s.bookings.List(ctx, f)
}

// Calendar lists the held dates of hallID in month (YYYY-MM, empty for the current month).
func (s *Service) Calendar(ctx context.Context, hallID int64, month string) (*Calendar, error) {
	start := s.now().UTC()
	if month != "" {
		m, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, apperr.Validation("month must be YYYY-MM")
		}
		start = m
	}
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	if _, err := s.halls.GetByID(ctx, hallID); err != nil {
		return nil, err
	}
	dates, err := s.bookings.BookedDates(ctx, hallID, start.Format(domain.EventDateLayout), end.Format(domain.EventDateLayout))
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = []string{}
	}
	return &Calendar{HallID: hallID, Month: start.Format("2006-01"), BookedDates: dates}, nil
}

// CompletePast moves Confirmed bookings dated before today to Completed and
// returns how many it moved.
func (s *Service) CompletePast(ctx context.Context, today time.Time) (int, error) {
	cutoff := today.Format(domain.EventDateLayout)
	done := 0
	for {
		batch, err := s.bookings.ListConfirmedBefore(ctx, cutoff, sweepBatch)
		if err != nil {
			return done, err
		}
		moved := 0
		for _, b := range batch {
			_, err := s.UpdateStatus(ctx, System, b.ID, string(domain.BookingCompleted))
			switch {
			case err == nil:
				moved++
			case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrInvalidState):
				logger.WithContext(ctx).Warn("booking changed during sweep", "booking_id", b.ID, "error", err)
			default:
				return done + moved, err
			}
		}
		done += moved
		if len(batch) < sweepBatch || moved == 0 {
			return done, nil
		}
	}
}

func parseDate(s string) (string, error) {
	day, err := domain.ParseEventDate(s)
	if err != nil {
		return "", apperr.Validation("date must be YYYY-MM-DD")
	}
	return day, nil
}

func (s *Service) notifyOwner(ctx context.Context, hall *domain.Hall, customer *domain.Customer, b *domain.Booking) {
	if s.notifs == nil {
		return
	}
	to := hall.ContactNumber
	if hall.VendorID != nil {
		if v, err := s.vendors.GetByID(ctx, *hall.VendorID); err == nil && v.Phone != "" {
			to = v.Phone
		}
	}
	body := fmt.Sprintf("New booking request #%d for %s on %s from %s (%s). Amount: Rs.%.0f",
		b.ID, hall.Name, b.EventDate, customer.Name, customer.Phone, b.TotalAmount)
	if err := s.notifs.Notify(ctx, notification.Message{Type: notification.TypeBookingCreated, To: to, Body: body}); err != nil {
		logger.WithContext(ctx).Warn("owner notification not queued", "booking_id", b.ID, "error", err)
	}
}

type bodyFunc func(c *domain.Customer, h *domain.Hall, b *domain.Booking) string

func confirmationBody(c *domain.Customer, h *domain.Hall, b *domain.Booking) string {
	return fmt.Sprintf("Booking Confirmed! Dear %s, your booking at %s has been CONFIRMED.\n"+
		"Event Date: %s\nAmount: Rs.%.0f\nLocation: %s\nHall Contact: %s\nOwner: %s\n"+
		"Please pay the advance to secure your date.",
		c.Name, h.Name, b.EventDate, b.TotalAmount, h.Location, h.ContactNumber, h.OwnerName)
}

func cancellationBody(c *domain.Customer, h *domain.Hall, b *domain.Booking) string {
	return fmt.Sprintf("Dear %s, your booking #%d at %s on %s has been cancelled.", c.Name, b.ID, h.Name, b.EventDate)
}

func (s *Service) notifyCustomer(ctx context.Context, b *domain.Booking, msgType string, body bodyFunc) {
	if s.notifs == nil {
		return
	}
	customer, err := s.customers.GetByID(ctx, b.CustomerID)
	if err != nil || customer.Phone == "" {
		return
	}
	hall, err := s.halls.GetByID(ctx, b.HallID)
	if err != nil {
		return
	}
	msg := notification.Message{Type: msgType, To: customer.Phone, Body: body(customer, hall, b)}
	if err := s.notifs.Notify(ctx, msg); err != nil {
		logger.WithContext(ctx).Warn("customer notification not queued", "booking_id", b.ID, "error", err)
	}
}

func (s *Service) publish(eventType string, b *domain.Booking) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(eventType, b)
}
