package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shiningprism/prism-auth/internal/auth"
	"github.com/shiningprism/prism-auth/internal/models"
	"github.com/shiningprism/prism-auth/internal/store"
	"github.com/shiningprism/prism-auth/pkg/crypto"
	"github.com/shiningprism/prism-auth/pkg/logger"
	"github.com/shiningprism/prism-auth/pkg/mail"
)

const welcomeMailTimeout = 15 * time.Second

// AuthOption customises the AuthService.
type AuthOption func(*AuthService)

// WithSynchronousWelcomeMail delivers the welcome mail inline instead of in a
// background goroutine. Delivery failures are still ignored.
func WithSynchronousWelcomeMail() AuthOption {
	return func(s *AuthService) {
		s.syncMail = true
	}
}

// AuthService orchestrates registration and login on top of the account
// store, the credential hasher, and the token service.
type AuthService struct {
	accounts *store.AccountStore
	tokens   *auth.TokenService
	mailer   mail.Mailer
	syncMail bool
	log      *zap.Logger
}

// NewAuthService constructs an AuthService with the provided collaborators.
// The mailer may be nil, in which case no welcome mail is sent.
func NewAuthService(accounts *store.AccountStore, tokens *auth.TokenService, mailer mail.Mailer, opts ...AuthOption) (*AuthService, error) {
	if accounts == nil {
		return nil, errors.New("auth service: account store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth service: token service is required")
	}

	service := &AuthService{
		accounts: accounts,
		tokens:   tokens,
		mailer:   mailer,
		log:      logger.WithModule("auth"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Register creates an unverified account and issues a session token for it.
// The welcome mail is fire-and-forget: account creation is committed
// independently of delivery, and a mail failure is only logged.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.Account, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, "", ErrMissingField
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("auth service: hash password: %w", err)
	}

	account := &models.Account{
		Name:     name,
		Email:    email,
		Password: hash,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("auth service: create account: %w", err)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("auth service: issue token: %w", err)
	}

	s.dispatchWelcomeMail(account.Email)

	return account, token, nil
}

// Login verifies the password for the account registered under email and
// issues a fresh session token. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrMissingField
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth service: find account: %w", err)
	}

	if !crypto.VerifyPassword(account.Password, password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", fmt.Errorf("auth service: issue token: %w", err)
	}

	return token, nil
}

// Account returns the identity record behind an authenticated session.
func (s *AuthService) Account(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("auth service: find account: %w", err)
	}
	return account, nil
}

func (s *AuthService) dispatchWelcomeMail(email string) {
	if s.mailer == nil {
		return
	}

	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), welcomeMailTimeout)
		defer cancel()

		msg := mail.Message{
			To:      email,
			Subject: "Welcome to Shining Prism",
			Body:    fmt.Sprintf("Welcome to Shining Prism! Your account has been created with email id: %s\n", email),
		}
		if err := s.mailer.Send(ctx, msg); err != nil && !errors.Is(err, mail.ErrSMTPDisabled) {
			s.log.Warn("welcome mail delivery failed", zap.String("email", email), zap.Error(err))
		}
	}

	if s.syncMail {
		send()
		return
	}
	go send()
}
