package auth

import "functionhall/internal/domain"

type RegisterVendorRequest struct {
	Name         string `json:"name" binding:"required,min=2"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
	BusinessName string `json:"business_name" binding:"required"`
}

type RegisterCustomerRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name,omitempty" binding:"omitempty,min=2"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// LoginResult carries the token and exactly one of Vendor or Customer.
type LoginResult struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int64            `json:"expires_in"`
	Role        domain.Role      `json:"role"`
	Vendor      *domain.Vendor   `json:"vendor,omitempty"`
	Customer    *domain.Customer `json:"customer,omitempty"`
}
