package repository

import (
	"context"
	"time"

	"functionhall/internal/domain"
	"functionhall/internal/pkg/apperr"

	"gorm.io/gorm"
)

type ChangeRequestFilter struct {
	Status   domain.RequestStatus
	VendorID int64
	Page
}

// Review is the terminal transition written onto a pending request.
type Review struct {
	Status     domain.RequestStatus
	ReviewerID int64
	Reason     string
	HallID     *int64
	At         time.Time
}

type ChangeRequestRepository struct {
	db *gorm.DB
}

func NewChangeRequestRepository(db *gorm.DB) *ChangeRequestRepository {
	return &ChangeRequestRepository{db: db}
}

func (r *ChangeRequestRepository) WithTx(tx *gorm.DB) *ChangeRequestRepository {
	return &ChangeRequestRepository{db: tx}
}

func (r *ChangeRequestRepository) Create(ctx context.Context, req *domain.ChangeRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *ChangeRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ChangeRequest, error) {
	var req domain.ChangeRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, notFound(err, "change request not found")
	}
	return &req, nil
}

func (r *ChangeRequestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.ChangeRequest, error) {
	var req domain.ChangeRequest
	if err := forUpdate(r.db.WithContext(ctx)).First(&req, id).Error; err != nil {
		return nil, notFound(err, "change request not found")
	}
	return &req, nil
}

func (r *ChangeRequestRepository) List(ctx context.Context, f ChangeRequestFilter) ([]domain.ChangeRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ChangeRequest{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.VendorID > 0 {
		q = q.Where("vendor_id = ?", f.VendorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.ChangeRequest
	err := f.Page.apply(q.Order("requested_at DESC, id DESC")).Find(&out).Error
	return out, total, err
}

// MarkReviewed moves a pending request to its terminal status. A request that
// is no longer pending yields a Conflict.
func (r *ChangeRequestRepository) MarkReviewed(ctx context.Context, id int64, rv Review) error {
	updates := map[string]any{
		"status":      rv.Status,
		"reviewed_by": rv.ReviewerID,
		"reviewed_at": rv.At,
	}
	if rv.Reason != "" {
		updates["rejection_reason"] = rv.Reason
	}
	if rv.HallID != nil {
		updates["hall_id"] = *rv.HallID
	}

	res := r.db.WithContext(ctx).
		Model(&domain.ChangeRequest{}).
		Where("id = ? AND status = ?", id, domain.RequestPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("change request already processed")
	}
	return nil
}

func (r *ChangeRequestRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ChangeRequest{}).
		Where("status = ?", domain.RequestPending).
		Count(&n).Error
	return n, err
}
