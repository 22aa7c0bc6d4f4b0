package repository

import (
	"context"

	"functionhall/internal/domain"

	"gorm.io/gorm"
)

type InquiryFilter struct {
	HallID   int64
	VendorID int64
	Page
}

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, in *domain.Inquiry) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *InquiryRepository) List(ctx context.Context, f InquiryFilter) ([]domain.Inquiry, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Inquiry{})
	if f.HallID > 0 {
		q = q.Where("inquiries.hall_id = ?", f.HallID)
	}
	if f.VendorID > 0 {
		q = q.Joins("JOIN halls ON halls.id = inquiries.hall_id").Where("halls.vendor_id = ?", f.VendorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Inquiry
	err := f.Page.apply(q.Order("inquiries.created_at DESC")).Find(&out).Error
	return out, total, err
}
