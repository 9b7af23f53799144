package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shiningprism/prism-auth/internal/middleware"
	"github.com/shiningprism/prism-auth/internal/services"
	appErrors "github.com/shiningprism/prism-auth/pkg/errors"
	"github.com/shiningprism/prism-auth/pkg/logger"
	"github.com/shiningprism/prism-auth/pkg/metrics"
	"github.com/shiningprism/prism-auth/pkg/response"
)

// SessionCookieName is the cookie carrying the bearer session token.
const SessionCookieName = "token"

// CookieOptions control how the session cookie is written.
type CookieOptions struct {
	MaxAge   int
	Secure   bool
	SameSite http.SameSite
}

// AuthHandler exposes the authentication, verification, and reset flows over HTTP.
type AuthHandler struct {
	auth         *services.AuthService
	verification *services.VerificationService
	reset        *services.PasswordResetService
	cookie       CookieOptions
}

// NewAuthHandler wires the services behind the /auth routes.
func NewAuthHandler(auth *services.AuthService, verification *services.VerificationService, reset *services.PasswordResetService, cookie CookieOptions) (*AuthHandler, error) {
	if auth == nil || verification == nil || reset == nil {
		return nil, errors.New("auth handler: all services are required")
	}
	if cookie.SameSite == 0 {
		cookie.SameSite = http.SameSiteStrictMode
	}
	return &AuthHandler{auth: auth, verification: verification, reset: reset, cookie: cookie}, nil
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	account, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "failure").Inc()
		response.Error(c, mapServiceError(err))
		return
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	h.setSessionCookie(c, token)

	response.Success(c, http.StatusCreated, "Registration successful", gin.H{
		"user": gin.H{
			"id":         account.ID,
			"name":       account.Name,
			"email":      account.Email,
			"isVerified": account.IsVerified,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		response.Error(c, mapServiceError(err))
		return
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	h.setSessionCookie(c, token)

	response.OK(c, "Login successful")
}

// POST /auth/logout
//
// Logout is purely client-side: the cookie is cleared, but the token itself
// stays cryptographically valid until natural expiry. There is no server-side
// revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	response.OK(c, "Logged out successfully")
}

// POST /auth/send-verify-otp
func (h *AuthHandler) SendVerifyOTP(c *gin.Context) {
	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	if err := h.verification.SendOTP(c.Request.Context(), accountID); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	metrics.OTPIssued.WithLabelValues("verify").Inc()
	response.OK(c, "Verification OTP sent to your email")
}

type verifyEmailRequest struct {
	OTP string `json:"otp" validate:"required"`
}

// POST /auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req verifyEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.verification.VerifyEmail(c.Request.Context(), accountID, req.OTP); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.OK(c, "Email verified successfully")
}

// GET /auth/is-authenticated
func (h *AuthHandler) IsAuthenticated(c *gin.Context) {
	if _, ok := callerAccountID(c); !ok {
		return
	}
	response.OK(c, "Authenticated")
}

// GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	account, err := h.auth.Account(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"user": gin.H{
			"id":         account.ID,
			"name":       account.Name,
			"email":      account.Email,
			"isVerified": account.IsVerified,
		},
	})
}

type sendResetOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /auth/send-reset-otp
func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	var req sendResetOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.reset.SendOTP(c.Request.Context(), req.Email); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	metrics.OTPIssued.WithLabelValues("reset").Inc()
	response.OK(c, "Reset OTP sent to your email")
}

type verifyResetOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// POST /auth/verify-reset-otp
func (h *AuthHandler) VerifyResetOTP(c *gin.Context) {
	var req verifyResetOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.reset.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.OK(c, "OTP verified")
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.reset.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	response.OK(c, "Password has been reset successfully")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(SessionCookieName, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.cookie.Secure, true)
}

func callerAccountID(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.CtxAccountIDKey)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	accountID, _ := v.(string)
	if accountID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return accountID, true
}

// mapServiceError translates service sentinels into API errors. Unrecognised
// errors are logged and surfaced as a generic server error.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrMissingField):
		return appErrors.NewBadRequest("All fields are required")
	case errors.Is(err, services.ErrEmailTaken):
		return appErrors.ErrUserExists
	case errors.Is(err, services.ErrInvalidCredentials):
		return appErrors.ErrInvalidCredentials
	case errors.Is(err, services.ErrAccountNotFound):
		return appErrors.ErrUserNotFound
	case errors.Is(err, services.ErrAlreadyVerified):
		return appErrors.ErrAlreadyVerified
	case errors.Is(err, services.ErrOTPInvalid):
		return appErrors.ErrOTPInvalid
	case errors.Is(err, services.ErrOTPExpired):
		return appErrors.ErrOTPExpired
	default:
		logger.WithModule("handlers").Error("unexpected service error", zap.Error(err))
		return appErrors.ErrInternalServer.WithInternal(err)
	}
}
