package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is the durable identity and credential record for a registered user.
//
// The OTP code/expiry pairs are always set and cleared together in a single
// persisted write; a code without an expiry is an invalid state.
type Account struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	IsVerified bool `gorm:"default:false" json:"is_verified"`

	VerifyOTP          string     `json:"-"`
	VerifyOTPExpiresAt *time.Time `json:"-"`

	ResetOTP          string     `json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`

	// Version backs the optimistic-lock compare-and-swap in the account store.
	Version int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// SetVerifyOTP records a pending email-verification code and its expiry.
func (a *Account) SetVerifyOTP(code string, expiresAt time.Time) {
	a.VerifyOTP = code
	a.VerifyOTPExpiresAt = &expiresAt
}

// ClearVerifyOTP removes the pending email-verification code and its expiry.
func (a *Account) ClearVerifyOTP() {
	a.VerifyOTP = ""
	a.VerifyOTPExpiresAt = nil
}

// SetResetOTP records a pending password-reset code and its expiry.
func (a *Account) SetResetOTP(code string, expiresAt time.Time) {
	a.ResetOTP = code
	a.ResetOTPExpiresAt = &expiresAt
}

// ClearResetOTP removes the pending password-reset code and its expiry.
func (a *Account) ClearResetOTP() {
	a.ResetOTP = ""
	a.ResetOTPExpiresAt = nil
}
