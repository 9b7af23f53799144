package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shiningprism/prism-auth/internal/auth"
	"github.com/shiningprism/prism-auth/internal/models"
	"github.com/shiningprism/prism-auth/internal/store"
	"github.com/shiningprism/prism-auth/pkg/crypto"
	"github.com/shiningprism/prism-auth/pkg/mail"
)

// Reset codes live much shorter than verification codes: possession of one
// grants a password change on an account the caller cannot log in to.
const defaultResetOTPExpiry = 15 * time.Minute

// ResetOption customises the PasswordResetService.
type ResetOption func(*PasswordResetService)

// WithResetExpiry overrides the reset code lifetime.
func WithResetExpiry(d time.Duration) ResetOption {
	return func(s *PasswordResetService) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithResetClock injects a custom time source.
func WithResetClock(clock func() time.Time) ResetOption {
	return func(s *PasswordResetService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// PasswordResetService drives the forgotten-password flow. It operates by
// email, pre-authentication, since the caller cannot log in.
type PasswordResetService struct {
	accounts *store.AccountStore
	mailer   mail.Mailer
	expiry   time.Duration
	now      func() time.Time
}

// NewPasswordResetService constructs a password reset service.
func NewPasswordResetService(accounts *store.AccountStore, mailer mail.Mailer, opts ...ResetOption) (*PasswordResetService, error) {
	if accounts == nil {
		return nil, errors.New("password reset service: account store is required")
	}

	service := &PasswordResetService{
		accounts: accounts,
		mailer:   mailer,
		expiry:   defaultResetOTPExpiry,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// SendOTP generates a reset code for the account registered under email,
// persists it with its expiry in one write, and mails it. Delivery failure
// propagates: without the mail the flow cannot continue.
func (s *PasswordResetService) SendOTP(ctx context.Context, email string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("password reset service: %w", err)
	}

	account.SetResetOTP(code, s.now().Add(s.expiry))
	if err := s.accounts.Save(ctx, account); err != nil {
		return fmt.Errorf("password reset service: persist code: %w", err)
	}

	if s.mailer != nil {
		msg := mail.Message{
			To:      account.Email,
			Subject: "Password Reset OTP",
			Body:    fmt.Sprintf("Your OTP for resetting your password is %s. Use this OTP to proceed with resetting your password.\n", code),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("password reset service: send email: %w", err)
		}
	}

	return nil
}

// VerifyOTP checks a reset code without consuming it, so a client can confirm
// the code before asking the user to choose a new password.
func (s *PasswordResetService) VerifyOTP(ctx context.Context, email, otp string) error {
	if otp == "" {
		return ErrMissingField
	}

	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.checkResetOTP(account, otp)
}

// ResetPassword re-validates the code from scratch, then replaces the
// password and clears the code in a single persisted write. It never trusts a
// prior VerifyOTP call; it must be safe to call standalone. A concurrent
// consumption of the same code surfaces as ErrOTPInvalid.
func (s *PasswordResetService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if otp == "" || newPassword == "" {
		return ErrMissingField
	}

	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.checkResetOTP(account, otp); err != nil {
		return err
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("password reset service: hash password: %w", err)
	}

	account.Password = hash
	account.ClearResetOTP()

	if err := s.accounts.Save(ctx, account); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("password reset service: persist password: %w", err)
	}

	return nil
}

func (s *PasswordResetService) findByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingField
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("password reset service: find account: %w", err)
	}
	return account, nil
}

func (s *PasswordResetService) checkResetOTP(account *models.Account, otp string) error {
	if account.ResetOTP == "" || account.ResetOTP != otp {
		return ErrOTPInvalid
	}
	if account.ResetOTPExpiresAt == nil || !s.now().Before(*account.ResetOTPExpiresAt) {
		return ErrOTPExpired
	}
	return nil
}
