package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiningprism/prism-auth/internal/auth"
	"github.com/shiningprism/prism-auth/internal/store"
	"github.com/shiningprism/prism-auth/pkg/mail"
)

const defaultVerifyOTPExpiry = 24 * time.Hour

// VerificationOption customises the VerificationService.
type VerificationOption func(*VerificationService)

// WithVerificationExpiry overrides the verification code lifetime.
func WithVerificationExpiry(d time.Duration) VerificationOption {
	return func(s *VerificationService) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithVerificationClock injects a custom time source.
func WithVerificationClock(clock func() time.Time) VerificationOption {
	return func(s *VerificationService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// VerificationService drives the email-verification state machine: an
// unverified account receives a code, and consuming that code flips the
// account to verified exactly once.
type VerificationService struct {
	accounts *store.AccountStore
	mailer   mail.Mailer
	expiry   time.Duration
	now      func() time.Time
}

// NewVerificationService constructs a verification service.
func NewVerificationService(accounts *store.AccountStore, mailer mail.Mailer, opts ...VerificationOption) (*VerificationService, error) {
	if accounts == nil {
		return nil, errors.New("verification service: account store is required")
	}

	service := &VerificationService{
		accounts: accounts,
		mailer:   mailer,
		expiry:   defaultVerifyOTPExpiry,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// SendOTP generates a fresh verification code for the account, persists it
// with its expiry in one write, and mails it to the account's address. Unlike
// the registration welcome mail, delivery failure here propagates to the
// caller: the mail is the deliverable. A stale earlier code is simply
// overwritten.
func (s *VerificationService) SendOTP(ctx context.Context, accountID string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("verification service: find account: %w", err)
	}

	if account.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("verification service: %w", err)
	}

	account.SetVerifyOTP(code, s.now().Add(s.expiry))
	if err := s.accounts.Save(ctx, account); err != nil {
		return fmt.Errorf("verification service: persist code: %w", err)
	}

	if s.mailer != nil {
		msg := mail.Message{
			To:      account.Email,
			Subject: "Account Verification OTP",
			Body:    fmt.Sprintf("Your OTP is %s. Verify your account using this OTP.\n", code),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("verification service: send email: %w", err)
		}
	}

	return nil
}

// VerifyEmail consumes a verification code: on success the verified flag and
// the cleared code are persisted in a single write. A wrong code leaves the
// stored code untouched; an expired code persists until a fresh SendOTP
// overwrites it. Of two concurrent calls with the same valid code, at most
// one succeeds; the loser observes ErrOTPInvalid because the code was already
// cleared.
func (s *VerificationService) VerifyEmail(ctx context.Context, accountID, otp string) error {
	if otp == "" {
		return ErrMissingField
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("verification service: find account: %w", err)
	}

	if account.VerifyOTP == "" || account.VerifyOTP != otp {
		return ErrOTPInvalid
	}

	if account.VerifyOTPExpiresAt == nil || !s.now().Before(*account.VerifyOTPExpiresAt) {
		return ErrOTPExpired
	}

	account.IsVerified = true
	account.ClearVerifyOTP()

	if err := s.accounts.Save(ctx, account); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("verification service: persist verification: %w", err)
	}

	return nil
}
