package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shiningprism/prism-auth/internal/models"
)

var (
	// ErrNotFound indicates no account matches the given key.
	ErrNotFound = errors.New("account store: not found")
	// ErrDuplicateEmail indicates an account already exists for the email.
	ErrDuplicateEmail = errors.New("account store: duplicate email")
	// ErrVersionConflict indicates the record changed since it was fetched.
	ErrVersionConflict = errors.New("account store: version conflict")
)

// AccountStore provides keyed access to account records. All mutation flows
// through Save on a previously fetched record so invariant enforcement stays
// in the services above.
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore wraps a gorm handle.
func NewAccountStore(db *gorm.DB) (*AccountStore, error) {
	if db == nil {
		return nil, errors.New("account store: db is required")
	}
	return &AccountStore{db: db}, nil
}

// FindByEmail returns the account registered under email, or ErrNotFound.
// Emails are matched exactly as stored.
func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Take(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("account store: find by email: %w", err)
	}
	return &account, nil
}

// FindByID returns the account with the given id, or ErrNotFound.
func (s *AccountStore) FindByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Take(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("account store: find by id: %w", err)
	}
	return &account, nil
}

// Create persists a new account. The unique index on email makes duplicate
// detection atomic: a concurrent insert for the same address leaves exactly
// one row and the loser receives ErrDuplicateEmail.
func (s *AccountStore) Create(ctx context.Context, account *models.Account) error {
	if account == nil {
		return errors.New("account store: account is required")
	}
	if strings.TrimSpace(account.Email) == "" {
		return errors.New("account store: email is required")
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("account store: create: %w", err)
	}
	return nil
}

// Save writes the mutable fields of a previously fetched account using a
// compare-and-swap on the version column. A read-modify-write sequence on one
// account is therefore atomic with respect to concurrent writers: the loser
// of a race observes ErrVersionConflict and must re-read. The write either
// fully applies or fully does not; there is no partial update.
func (s *AccountStore) Save(ctx context.Context, account *models.Account) error {
	if account == nil || account.ID == "" {
		return errors.New("account store: account with id is required")
	}

	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]any{
			"name":                  account.Name,
			"password":              account.Password,
			"is_verified":           account.IsVerified,
			"verify_otp":            account.VerifyOTP,
			"verify_otp_expires_at": account.VerifyOTPExpiresAt,
			"reset_otp":             account.ResetOTP,
			"reset_otp_expires_at":  account.ResetOTPExpiresAt,
			"version":               account.Version + 1,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("account store: save: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.Account{}).
			Where("id = ?", account.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("account store: save: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}

	account.Version++
	return nil
}
