package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shiningprism/prism-auth/internal/app"
	iauth "github.com/shiningprism/prism-auth/internal/auth"
	"github.com/shiningprism/prism-auth/internal/handlers"
	"github.com/shiningprism/prism-auth/internal/middleware"
	"github.com/shiningprism/prism-auth/internal/services"
)

// Deps bundles the services the router wires into routes.
type Deps struct {
	Tokens       *iauth.TokenService
	Auth         *services.AuthService
	Verification *services.VerificationService
	Reset        *services.PasswordResetService
}

// NewRouter builds the Gin engine, wires middleware and registers the auth routes.
func NewRouter(cfg *app.Config, deps Deps) (*gin.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("token service must be provided")
	}
	if deps.Auth == nil || deps.Verification == nil || deps.Reset == nil {
		return nil, fmt.Errorf("auth, verification, and reset services must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	authHandler, err := handlers.NewAuthHandler(deps.Auth, deps.Verification, deps.Reset, cfg.CookieOptions())
	if err != nil {
		return nil, err
	}

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/send-reset-otp", authHandler.SendResetOTP)
		auth.POST("/verify-reset-otp", authHandler.VerifyResetOTP)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// Routes behind the session guard
	guarded := auth.Group("")
	guarded.Use(middleware.Auth(deps.Tokens))
	{
		guarded.POST("/logout", authHandler.Logout)
		guarded.POST("/send-verify-otp", authHandler.SendVerifyOTP)
		guarded.POST("/verify-email", authHandler.VerifyEmail)
		guarded.GET("/is-authenticated", authHandler.IsAuthenticated)
		guarded.GET("/profile", authHandler.Profile)
	}

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
