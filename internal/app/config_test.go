package app

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 4000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "development", cfg.Server.Environment)
	require.False(t, cfg.Server.IsProduction())
	require.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)

	require.Equal(t, "sqlite", cfg.Database.Driver)

	require.Equal(t, "prism-auth", cfg.Auth.JWT.Issuer)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.JWT.TTL)

	require.Equal(t, 24*time.Hour, cfg.OTP.VerifyTTL)
	require.Equal(t, 15*time.Minute, cfg.OTP.ResetTTL)

	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, 587, cfg.Email.SMTP.Port)
	require.Equal(t, 10*time.Second, cfg.Email.SMTP.Timeout)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("PRISM_SERVER_PORT", "9999")
	t.Setenv("PRISM_AUTH_JWT_SECRET", "from-env")
	t.Setenv("PRISM_OTP_RESET_TTL", "30m")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "from-env", cfg.Auth.JWT.Secret)
	require.Equal(t, 30*time.Minute, cfg.OTP.ResetTTL)
}

func TestCookieOptionsByEnvironment(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Environment = "development"
	cfg.Auth.JWT.TTL = 7 * 24 * time.Hour

	opts := cfg.CookieOptions()
	require.Equal(t, int((7 * 24 * time.Hour).Seconds()), opts.MaxAge)
	require.False(t, opts.Secure)
	require.Equal(t, http.SameSiteStrictMode, opts.SameSite)

	cfg.Server.Environment = "Production"
	opts = cfg.CookieOptions()
	require.True(t, opts.Secure)
	require.Equal(t, http.SameSiteNoneMode, opts.SameSite)
}

func TestTokenServiceConfigFallsBackToDefaultTTL(t *testing.T) {
	var auth AuthConfig
	auth.JWT.Secret = "s"

	tc := auth.TokenServiceConfig()
	require.Equal(t, 7*24*time.Hour, tc.TTL)
	require.Equal(t, "s", tc.Secret)
}
