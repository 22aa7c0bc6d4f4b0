package repository

import (
	"context"
	"strings"

	"functionhall/internal/database"
	"functionhall/internal/domain"
	"functionhall/internal/pkg/apperr"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: tx}
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Wrap(apperr.ErrConflict, "email already registered", err)
		}
		return err
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "customer not found")
	}
	return &c, nil
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).
		First(&c).Error
	if err != nil {
		return nil, notFound(err, "customer not found")
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context, status domain.ApprovalStatus, page Page) ([]domain.Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Customer{})
	if status != "" {
		q = q.Where("approval_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Customer
	err := page.apply(q.Order("created_at DESC")).Find(&out).Error
	return out, total, err
}

// SetApproval writes approval_status and is_approved together.
func (r *CustomerRepository) SetApproval(ctx context.Context, id int64, status domain.ApprovalStatus) (*domain.Customer, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"approval_status": status,
			"is_approved":     status == domain.ApprovalApproved,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("customer not found")
	}
	return r.GetByID(ctx, id)
}

func (r *CustomerRepository) UpdateProfile(ctx context.Context, id int64, name, phone, address string) (*domain.Customer, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "phone": phone, "address": address})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("customer not found")
	}
	return r.GetByID(ctx, id)
}

// MarkPhoneVerified flags every customer registered with phone and returns how many matched.
func (r *CustomerRepository) MarkPhoneVerified(ctx context.Context, phone string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("phone = ?", phone).
		Update("phone_verified", true)
	return res.RowsAffected, res.Error
}

func (r *CustomerRepository) CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("approval_status = ?", status).
		Count(&n).Error
	return n, err
}
