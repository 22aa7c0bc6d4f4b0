package inquiry

import (
	"context"
	"fmt"
	"strings"

	"functionhall/internal/domain"
	"functionhall/internal/logger"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/pkg/validator"
	"functionhall/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	inquiries *repository.InquiryRepository
	halls     *repository.HallRepository
	vendors   *repository.VendorRepository
	notifs    Notifier
}

func NewService(db *gorm.DB, notifs Notifier) *Service {
	return &Service{
		inquiries: repository.NewInquiryRepository(db),
		halls:     repository.NewHallRepository(db),
		vendors:   repository.NewVendorRepository(db),
		notifs:    notifs,
	}
}

// Create stores an inquiry about a listed hall and tells its owner.
// customerID is nil for anonymous visitors.
func (s *Service) Create(ctx context.Context, customerID *int64, req CreateInquiryRequest) (*domain.Inquiry, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)
	req.Phone = notification.FormatPhone(req.Phone)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	hall, err := s.halls.GetByID(ctx, req.HallID)
	if err != nil {
		return nil, err
	}
	if !hall.IsApproved {
		return nil, apperr.NotFound("hall not found")
	}

	in := &domain.Inquiry{
		HallID:     hall.ID,
		CustomerID: customerID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
	}
	if err := s.inquiries.Create(ctx, in); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, hall, in)
	return in, nil
}

func (s *Service) ListForVendor(ctx context.Context, vendorID int64, page repository.Page) ([]domain.Inquiry, int64, error) {
	return s.inquiries.List(ctx, repository.InquiryFilter{VendorID: vendorID, Page: page})
}

// List is the admin view; hallID 0 means every hall.
func (s *Service) List(ctx context.Context, hallID int64, page repository.Page) ([]domain.Inquiry, int64, error) {
	return s.inquiries.List(ctx, repository.InquiryFilter{HallID: hallID, Page: page})
}

func (s *Service) notifyOwner(ctx context.Context, hall *domain.Hall, in *domain.Inquiry) {
	if s.notifs == nil {
		return
	}
	to := hall.ContactNumber
	if hall.VendorID != nil {
		if v, err := s.vendors.GetByID(ctx, *hall.VendorID); err == nil && v.Phone != "" {
			to = v.Phone
		}
	}

	contact := in.Email
	if in.Phone != "" {
		contact += ", " + in.Phone
	}
	body := fmt.Sprintf("New enquiry for %s from %s (%s): %s", hall.Name, in.Name, contact, in.Message)
	if err := s.notifs.Notify(ctx, notification.Message{Type: notification.TypeInquiryReceived, To: to, Body: body}); err != nil {
		logger.WithContext(ctx).Warn("inquiry notification not queued", "inquiry_id", in.ID, "error", err)
	}
}
