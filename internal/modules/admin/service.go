package admin

import (
	"context"

	"functionhall/internal/domain"
	"functionhall/internal/logger"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/repository"

	"gorm.io/gorm"
)

// Service moderates vendor and customer accounts.
type Service struct {
	vendors   *repository.VendorRepository
	customers *repository.CustomerRepository
	halls     *repository.HallRepository
	bookings  *repository.BookingRepository
	requests  *repository.ChangeRequestRepository
	notifs    Notifier
}

// NewService wires moderation. notifs is optional.
func NewService(db *gorm.DB, notifs Notifier) *Service {
	return &Service{
		vendors:   repository.NewVendorRepository(db),
		customers: repository.NewCustomerRepository(db),
		halls:     repository.NewHallRepository(db),
		bookings:  repository.NewBookingRepository(db),
		requests:  repository.NewChangeRequestRepository(db),
		notifs:    notifs,
	}
}

// -------------------- Vendors --------------------

func (s *Service) ListVendors(ctx context.Context, approved *bool, page repository.Page) ([]domain.Vendor, int64, error) {
	return s.vendors.List(ctx, approved, page)
}

func (s *Service) ApproveVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	return s.setVendorApproval(ctx, id, true)
}

// RejectVendor revokes catalog access. The account itself stays.
func (s *Service) RejectVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	return s.setVendorApproval(ctx, id, false)
}

func (s *Service) setVendorApproval(ctx context.Context, id int64, approved bool) (*domain.Vendor, error) {
	v, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Role != domain.RoleVendor {
		return nil, apperr.Validation("only vendor accounts can be moderated")
	}

	v, err = s.vendors.SetApproved(ctx, id, approved)
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("vendor moderated", "vendor_id", id, "approved", approved)

	msgType, body := notification.TypeVendorRejected, "Your vendor account has been rejected by admin."
	if approved {
		msgType, body = notification.TypeVendorApproved, "Your vendor account has been approved. You can now list your halls."
	}
	s.notify(ctx, msgType, v.Phone, body)
	return v, nil
}

// -------------------- Customers --------------------

func (s *Service) ListCustomers(ctx context.Context, status domain.ApprovalStatus, page repository.Page) ([]domain.Customer, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("status must be one of: pending, approved, rejected")
	}
	return s.customers.List(ctx, status, page)
}

func (s *Service) ApproveCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.setCustomerApproval(ctx, id, domain.ApprovalApproved)
}

func (s *Service) RejectCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.setCustomerApproval(ctx, id, domain.ApprovalRejected)
}

func (s *Service) setCustomerApproval(ctx context.Context, id int64, status domain.ApprovalStatus) (*domain.Customer, error) {
	c, err := s.customers.SetApproval(ctx, id, status)
	if err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("customer moderated", "customer_id", id, "status", status)

	msgType, body := notification.TypeCustomerRejected, "Dear "+c.Name+", your account has been rejected by admin."
	if status == domain.ApprovalApproved {
		msgType, body = notification.TypeCustomerApproved, "Dear "+c.Name+", your account has been approved. You can now book function halls."
	}
	s.notify(ctx, msgType, c.Phone, body)
	return c, nil
}

// -------------------- Statistics --------------------

func (s *Service) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	var (
		out StatisticsResponse
		err error
	)
	if out.PendingVendors, err = s.vendors.CountPending(ctx); err != nil {
		return nil, err
	}
	if out.PendingCustomers, err = s.customers.CountByStatus(ctx, domain.ApprovalPending); err != nil {
		return nil, err
	}
	if out.ApprovedCustomers, err = s.customers.CountByStatus(ctx, domain.ApprovalApproved); err != nil {
		return nil, err
	}
	if out.ApprovedHalls, err = s.halls.Count(ctx, domain.ApprovalApproved); err != nil {
		return nil, err
	}
	if out.PendingHallRequests, err = s.requests.CountPending(ctx); err != nil {
		return nil, err
	}

	out.BookingsByStatus = make(map[string]int64, 4)
	for _, st := range []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed, domain.BookingCompleted, domain.BookingCancelled} {
		n, err := s.bookings.CountByStatus(ctx, st)
		if err != nil {
			return nil, err
		}
		out.BookingsByStatus[string(st)] = n
	}
	return &out, nil
}

func (s *Service) notify(ctx context.Context, msgType, to, body string) {
	if s.notifs == nil || to == "" {
		return
	}
	if err := s.notifs.Notify(ctx, notification.Message{Type: msgType, To: to, Body: body}); err != nil {
		logger.WithContext(ctx).Warn("moderation notification not queued", "type", msgType, "error", err)
	}
}
