package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"functionhall/internal/logger"
	"functionhall/internal/notification"
	"functionhall/internal/pkg/apperr"
)

var (
	ErrUnavailable = errors.New("phone verification is not configured")
	ErrDelivery    = errors.New("verification code could not be delivered")
)

type PhoneVerifier interface {
	MarkPhoneVerified(ctx context.Context, phone string) (int64, error)
}

type Service struct {
	store     Store
	sender    notification.Sender
	customers PhoneVerifier
	timeout   time.Duration
	ttl       time.Duration
}

// NewService returns a service that reports ErrUnavailable when store is nil.
func NewService(store Store, sender notification.Sender, customers PhoneVerifier, ttl, timeout time.Duration) *Service {
	return &Service{store: store, sender: sender, customers: customers, ttl: ttl, timeout: timeout}
}

// Request issues a code for phone and sends it synchronously. Unlike booking
// notifications the caller waits, so a provider failure surfaces as ErrDelivery.
func (s *Service) Request(ctx context.Context, phone string) error {
	if s.store == nil {
		return ErrUnavailable
	}
	to := notification.FormatPhone(phone)
	if to == "" {
		return apperr.Validation("phone is required")
	}

	code, err := s.store.Issue(ctx, to)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.sender.Send(sendCtx, to, s.body(code)); err != nil {
		logger.WithContext(ctx).Warn("otp delivery failed", "error", err)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

func (s *Service) body(code string) string {
	return fmt.Sprintf("Your Function Hall Booking OTP is: %s\n\nValid for %d minutes.\nDo not share this OTP with anyone.",
		code, int(s.ttl.Minutes()))
}

// Verify checks code and marks customers registered with phone as verified.
// It returns how many customers were marked.
func (s *Service) Verify(ctx context.Context, phone, code string) (int64, error) {
	if s.store == nil {
		return 0, ErrUnavailable
	}
	to := notification.FormatPhone(phone)
	if to == "" || code == "" {
		return 0, apperr.Validation("phone and code are required")
	}

	ok, err := s.store.Verify(ctx, to, code)
	if errors.Is(err, ErrNoCode) {
		return 0, apperr.Validation("code expired or not requested")
	}
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperr.Validation("invalid code")
	}

	n, err := s.customers.MarkPhoneVerified(ctx, to)
	if err != nil {
		return 0, err
	}
	logger.WithContext(ctx).Info("phone verified", "customers", n)
	return n, nil
}
