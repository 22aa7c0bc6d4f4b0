package auth

import (
	"context"
	"errors"
	"strings"

	"functionhall/internal/domain"
	"functionhall/internal/logger"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
)

// Service contains registration, login and profile logic for vendors and customers.
type Service struct {
	vendors   VendorRepositoryInterface
	customers CustomerRepositoryInterface
	jwt       jwtService
	cost      int
}

func NewService(vendors VendorRepositoryInterface, customers CustomerRepositoryInterface, jwt jwtService) *Service {
	return &Service{
		vendors:   vendors,
		customers: customers,
		jwt:       jwt,
		cost:      bcrypt.DefaultCost,
	}
}

// RegisterVendor creates an unapproved vendor. Catalog access waits for a super admin.
func (s *Service) RegisterVendor(ctx context.Context, req RegisterVendorRequest) (*domain.Vendor, error) {
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	v := &domain.Vendor{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		Phone:        notification.FormatPhone(req.Phone),
		BusinessName: strings.TrimSpace(req.BusinessName),
		PasswordHash: hash,
		Role:         domain.RoleVendor,
		IsApproved:   false,
	}
	if err := s.vendors.Create(ctx, v); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("vendor registered", "vendor_id", v.ID)
	return v, nil
}

// RegisterCustomer creates a customer pending admin approval.
func (s *Service) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*domain.Customer, error) {
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	c := &domain.Customer{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		Phone:        notification.FormatPhone(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		PasswordHash: hash,
	}
	c.SetApproval(domain.ApprovalPending)
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("customer registered", "customer_id", c.ID)
	return c, nil
}

// LoginVendor signs in vendors and super admins. Unapproved vendors get a
// token too; catalog routes refuse them.
func (s *Service) LoginVendor(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	v, err := s.vendors.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, s.missingAccount(err)
	}
	if err := s.checkPassword(v.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	res, err := s.issue(v.ID, v.Role)
	if err != nil {
		return nil, err
	}
	res.Vendor = v
	return res, nil
}

// LoginCustomer signs in approved customers only.
func (s *Service) LoginCustomer(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	c, err := s.customers.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, s.missingAccount(err)
	}
	if err := s.checkPassword(c.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	switch c.ApprovalStatus {
	case domain.ApprovalApproved:
	case domain.ApprovalRejected:
		return nil, apperr.Authorization("Your account has been rejected by admin.")
	default:
		return nil, apperr.Authorization("Your account is pending admin approval.")
	}

	res, err := s.issue(c.ID, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	res.Customer = c
	return res, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *Service) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	return s.vendors.GetByID(ctx, id)
}

// UpdateCustomerProfile overwrites the non-empty fields of req.
func (s *Service) UpdateCustomerProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*domain.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, phone, address := c.Name, c.Phone, c.Address
	if v := strings.TrimSpace(req.Name); v != "" {
		name = v
	}
	if v := notification.FormatPhone(req.Phone); v != "" {
		phone = v
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		address = v
	}
	return s.customers.UpdateProfile(ctx, id, name, phone, address)
}

func (s *Service) issue(id int64, role domain.Role) (*LoginResult, error) {
	token, err := s.jwt.GenerateToken(id, string(role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
		Role:        role,
	}, nil
}

func (s *Service) missingAccount(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return ErrInvalidCredentials
	}
	return err
}

func (s *Service) checkPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// HashPassword is used by the seed command.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
