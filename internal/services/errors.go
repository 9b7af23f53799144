package services

import "errors"

// Sentinel errors returned by the auth, verification, and reset services.
// Handlers translate these into API error responses; anything else is treated
// as an internal failure and never exposed to the caller.
var (
	ErrMissingField       = errors.New("services: required field missing")
	ErrEmailTaken         = errors.New("services: email already registered")
	ErrInvalidCredentials = errors.New("services: invalid credentials")
	ErrAccountNotFound    = errors.New("services: account not found")
	ErrAlreadyVerified    = errors.New("services: account already verified")
	ErrOTPInvalid         = errors.New("services: otp invalid")
	ErrOTPExpired         = errors.New("services: otp expired")
)
