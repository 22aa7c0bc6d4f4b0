package auth

import (
	"context"
	"time"

	"functionhall/internal/domain"
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
	TTL() time.Duration
}

type VendorRepositoryInterface interface {
	Create(ctx context.Context, v *domain.Vendor) error
	GetByID(ctx context.Context, id int64) (*domain.Vendor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Vendor, error)
}

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, id int64, name, phone, address string) (*domain.Customer, error)
}
