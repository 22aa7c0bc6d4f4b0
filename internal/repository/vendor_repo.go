package repository

import (
	"context"
	"strings"

	"functionhall/internal/database"
	"functionhall/internal/domain"
	"functionhall/internal/pkg/apperr"

	"gorm.io/gorm"
)

type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) WithTx(tx *gorm.DB) *VendorRepository {
	return &VendorRepository{db: tx}
}

func (r *VendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	v.Email = strings.TrimSpace(strings.ToLower(v.Email))
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Wrap(apperr.ErrConflict, "email already registered", err)
		}
		return err
	}
	return nil
}

func (r *VendorRepository) GetByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	var v domain.Vendor
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, notFound(err, "vendor not found")
	}
	return &v, nil
}

func (r *VendorRepository) GetByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).
		First(&v).Error
	if err != nil {
		return nil, notFound(err, "vendor not found")
	}
	return &v, nil
}

// List returns vendors (never super admins), optionally filtered by approval.
func (r *VendorRepository) List(ctx context.Context, approved *bool, page Page) ([]domain.Vendor, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Vendor{}).Where("role = ?", domain.RoleVendor)
	if approved != nil {
		q = q.Where("is_approved = ?", *approved)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Vendor
	err := page.apply(q.Order("created_at DESC")).Find(&out).Error
	return out, total, err
}

func (r *VendorRepository) SetApproved(ctx context.Context, id int64, approved bool) (*domain.Vendor, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Vendor{}).
		Where("id = ? AND role = ?", id, domain.RoleVendor).
		Update("is_approved", approved)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("vendor not found")
	}
	return r.GetByID(ctx, id)
}

func (r *VendorRepository) UpdateProfile(ctx context.Context, id int64, name, phone, businessName string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Vendor{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "phone": phone, "business_name": businessName}).Error
}

func (r *VendorRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Vendor{}).
		Where("role = ? AND is_approved = ?", domain.RoleVendor, false).
		Count(&n).Error
	return n, err
}
