package changerequest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"functionhall/internal/domain"
	"functionhall/internal/logger"
	"functionhall/internal/metrics"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/apperr"
	"functionhall/internal/pkg/utils"
	"functionhall/internal/pkg/validator"
	"functionhall/internal/repository"

	"gorm.io/gorm"
)

const (
	EventSubmitted = "change_request.submitted"
	EventApproved  = "change_request.approved"
	EventRejected  = "change_request.rejected"
)

type Service struct {
	db       *gorm.DB
	vendors  *repository.VendorRepository
	halls    *repository.HallRepository
	requests *repository.ChangeRequestRepository
	bookings *repository.BookingRepository

	notifs Notifier
	index  HallIndexer
	feed   EventPublisher
	now    func() time.Time
}

// NewService wires the engine. notifs, index and feed are optional.
func NewService(db *gorm.DB, notifs Notifier, index HallIndexer, feed EventPublisher) *Service {
	return &Service{
		db:       db,
		vendors:  repository.NewVendorRepository(db),
		halls:    repository.NewHallRepository(db),
		requests: repository.NewChangeRequestRepository(db),
		bookings: repository.NewBookingRepository(db),
		notifs:   notifs,
		index:    index,
		feed:     feed,
		now:      time.Now,
	}
}

// Submit decodes payload for actionType and records a pending request.
// hallID is ignored for add.
func (s *Service) Submit(ctx context.Context, vendorID int64, actionType domain.ActionType, hallID int64, payload json.RawMessage) (*domain.ChangeRequest, error) {
	switch actionType {
	case domain.ActionAdd:
		var p domain.HallProposal
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		return s.SubmitAdd(ctx, vendorID, p)
	case domain.ActionEdit:
		var e domain.HallEdit
		if err := decodePayload(payload, &e); err != nil {
			return nil, err
		}
		return s.SubmitEdit(ctx, vendorID, hallID, e)
	case domain.ActionDelete:
		return s.SubmitDelete(ctx, vendorID, hallID)
	default:
		return nil, apperr.Validation("action_type must be one of: add, edit, delete")
	}
}

func decodePayload(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return apperr.Validation("payload is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Wrap(apperr.ErrValidation, "malformed payload", err)
	}
	return nil
}

func (s *Service) SubmitAdd(ctx context.Context, vendorID int64, p domain.HallProposal) (*domain.ChangeRequest, error) {
	if _, err := s.approvedVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	p.Photos = utils.NormalizePhotos(p.Photos)
	if err := validator.Struct(p); err != nil {
		return nil, err
	}
	return s.create(ctx, vendorID, domain.AddAction{Proposal: p})
}

func (s *Service) SubmitEdit(ctx context.Context, vendorID, hallID int64, e domain.HallEdit) (*domain.ChangeRequest, error) {
	if _, err := s.approvedVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	e.Photos = utils.NormalizePhotos(e.Photos)
	if err := validator.Struct(e); err != nil {
		return nil, err
	}
	hall, err := s.ownedHall(ctx, vendorID, hallID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, vendorID, domain.EditAction{HallID: hall.ID, Before: hall.HallFields, After: e})
}

func (s *Service) SubmitDelete(ctx context.Context, vendorID, hallID int64) (*domain.ChangeRequest, error) {
	if _, err := s.approvedVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	hall, err := s.ownedHall(ctx, vendorID, hallID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, vendorID, domain.DeleteAction{HallID: hall.ID, Before: hall.HallFields})
}

func (s *Service) approvedVendor(ctx context.Context, vendorID int64) (*domain.Vendor, error) {
	v, err := s.vendors.GetByID(ctx, vendorID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Authorization("vendor account not found")
	}
	if err != nil {
		return nil, err
	}
	if !v.CanMutateCatalog() {
		return nil, apperr.Authorization("vendor account is not approved")
	}
	return v, nil
}

func (s *Service) ownedHall(ctx context.Context, vendorID, hallID int64) (*domain.Hall, error) {
	if hallID <= 0 {
		return nil, apperr.Validation("hall id is required")
	}
	hall, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if !hall.OwnedBy(vendorID) {
		return nil, apperr.Authorization("you do not own this hall")
	}
	return hall, nil
}

func (s *Service) create(ctx context.Context, vendorID int64, action domain.Action) (*domain.ChangeRequest, error) {
	req, err := domain.NewChangeRequest(vendorID, action)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("change request submitted", "request_id", req.ID, "action", req.ActionType, "vendor_id", vendorID)
	s.publish(EventSubmitted, req)
	return req, nil
}

func (s *Service) reviewer(ctx context.Context, adminID int64) (*domain.Vendor, error) {
	admin, err := s.vendors.GetByID(ctx, adminID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Authorization("admin account not found")
	}
	if err != nil {
		return nil, err
	}
	if !admin.IsSuperAdmin() {
		return nil, apperr.Authorization("only a super admin can review change requests")
	}
	return admin, nil
}

// Approve applies the request to the catalog and marks it approved in one
// transaction. Any failure leaves the catalog untouched and the request pending.
func (s *Service) Approve(ctx context.Context, requestID, adminID int64) (*ApplyResult, error) {
	if _, err := s.reviewer(ctx, adminID); err != nil {
		return nil, err
	}

	var (
		result ApplyResult
		action domain.Action
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := s.requests.WithTx(tx)

		req, err := requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.IsPending() {
			return apperr.Conflict("change request already processed")
		}

		action, err = req.Action()
		if err != nil {
			return err
		}

		hall, err := s.apply(ctx, tx, req.VendorID, action)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		review := repository.Review{Status: domain.RequestApproved, ReviewerID: adminID, At: now}
		if action.Type() == domain.ActionAdd {
			review.HallID = &hall.ID
			req.HallID = &hall.ID
		}
		if err := requests.MarkReviewed(ctx, req.ID, review); err != nil {
			return err
		}

		req.Status = domain.RequestApproved
		req.ReviewedBy = &adminID
		req.ReviewedAt = &now
		result = ApplyResult{Request: req, Hall: hall}
		return nil
	})
	if err != nil {
		if action != nil {
			metrics.ChangeRequestsReviewed.WithLabelValues(string(action.Type()), "failed").Inc()
		}
		return nil, err
	}

	metrics.ChangeRequestsReviewed.WithLabelValues(string(action.Type()), "approved").Inc()
	logger.WithContext(ctx).Info("change request approved", "request_id", requestID, "action", action.Type(), "admin_id", adminID)

	s.syncIndex(ctx, action, result.Hall)
	s.notifyVendor(ctx, result.Request, notification.TypeChangeRequestApproved,
		fmt.Sprintf("Your %s request #%d has been approved.", result.Request.ActionType, result.Request.ID))
	s.publish(EventApproved, result.Request)
	return &result, nil
}

// apply mutates the catalog inside tx. It returns the resulting hall, or nil for a deletion.
func (s *Service) apply(ctx context.Context, tx *gorm.DB, vendorID int64, action domain.Action) (*domain.Hall, error) {
	halls := s.halls.WithTx(tx)

	switch a := action.(type) {
	case domain.AddAction:
		hall := a.Proposal.Hall(&vendorID)
		if err := halls.CreateGraph(ctx, hall); err != nil {
			return nil, fmt.Errorf("create hall: %w", err)
		}
		return hall, nil

	case domain.EditAction:
		if _, err := halls.GetByIDForUpdate(ctx, a.HallID); err != nil {
			return nil, err
		}
		if err := halls.UpdateFields(ctx, a.HallID, a.After.HallFields); err != nil {
			return nil, fmt.Errorf("update hall %d: %w", a.HallID, err)
		}
		if _, err := halls.AddPhotos(ctx, a.HallID, a.After.Photos); err != nil {
			return nil, fmt.Errorf("append photos to hall %d: %w", a.HallID, err)
		}
		return halls.GetDetail(ctx, a.HallID)

	case domain.DeleteAction:
		if _, err := halls.GetByIDForUpdate(ctx, a.HallID); err != nil {
			return nil, err
		}
		active, err := s.bookings.WithTx(tx).CountActiveForHall(ctx, a.HallID)
		if err != nil {
			return nil, err
		}
		if active > 0 {
			return nil, apperr.Conflict(fmt.Sprintf("hall has %d active bookings", active))
		}
		if err := halls.DeleteGraph(ctx, a.HallID); err != nil {
			return nil, fmt.Errorf("delete hall %d: %w", a.HallID, err)
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported action %T", action)
	}
}

// Reject closes a pending request without touching the catalog.
func (s *Service) Reject(ctx context.Context, requestID, adminID int64, reason string) (*domain.ChangeRequest, error) {
	if _, err := s.reviewer(ctx, adminID); err != nil {
		return nil, err
	}

	var req *domain.ChangeRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := s.requests.WithTx(tx)

		var err error
		req, err = requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.IsPending() {
			return apperr.Conflict("change request already processed")
		}

		now := s.now().UTC()
		if err := requests.MarkReviewed(ctx, req.ID, repository.Review{
			Status:     domain.RequestRejected,
			ReviewerID: adminID,
			Reason:     reason,
			At:         now,
		}); err != nil {
			return err
		}

		req.Status = domain.RequestRejected
		req.RejectionReason = reason
		req.ReviewedBy = &adminID
		req.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ChangeRequestsReviewed.WithLabelValues(string(req.ActionType), "rejected").Inc()
	logger.WithContext(ctx).Info("change request rejected", "request_id", requestID, "admin_id", adminID)

	body := fmt.Sprintf("Your %s request #%d was rejected.", req.ActionType, req.ID)
	if reason != "" {
		body += " Reason: " + reason
	}
	s.notifyVendor(ctx, req, notification.TypeChangeRequestRejected, body)
	s.publish(EventRejected, req)
	return req, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*RequestView, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &RequestView{ChangeRequest: req}
	if v, err := s.vendors.GetByID(ctx, req.VendorID); err == nil {
		view.Vendor = &VendorSummary{ID: v.ID, Name: v.Name, BusinessName: v.BusinessName, Phone: v.Phone}
	}
	return view, nil
}

func (s *Service) List(ctx context.Context, f repository.ChangeRequestFilter) ([]domain.ChangeRequest, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("status must be one of: pending, approved, rejected")
	}
	return s.requests.List(ctx, f)
}

func (s *Service) syncIndex(ctx context.Context, action domain.Action, hall *domain.Hall) {
	if s.index == nil {
		return
	}

	var err error
	switch a := action.(type) {
	case domain.DeleteAction:
		err = s.index.DeleteHall(ctx, a.HallID)
	default:
		if hall != nil {
			err = s.index.IndexHall(ctx, hall)
		}
	}
	if err != nil {
		logger.WithContext(ctx).Warn("search index sync failed", "action", action.Type(), "error", err)
	}
}

func (s *Service) notifyVendor(ctx context.Context, req *domain.ChangeRequest, msgType, body string) {
	if s.notifs == nil {
		return
	}
	v, err := s.vendors.GetByID(ctx, req.VendorID)
	if err != nil || v.Phone == "" {
		return
	}
	if err := s.notifs.Notify(ctx, notification.Message{Type: msgType, To: v.Phone, Body: body}); err != nil {
		logger.WithContext(ctx).Warn("vendor notification not queued", "request_id", req.ID, "error", err)
	}
}

func (s *Service) publish(eventType string, req *domain.ChangeRequest) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(eventType, req)
}
