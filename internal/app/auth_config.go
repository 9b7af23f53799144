package app

import (
	"net/http"

	"github.com/shiningprism/prism-auth/internal/auth"
	"github.com/shiningprism/prism-auth/internal/handlers"
)

// TokenServiceConfig converts AuthConfig into the parameters expected by the
// token service.
func (c AuthConfig) TokenServiceConfig() auth.TokenConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultSessionTTL
	}

	return auth.TokenConfig{
		Secret: c.JWT.Secret,
		Issuer: c.JWT.Issuer,
		TTL:    ttl,
	}
}

// CookieOptions derives session cookie parameters from the runtime
// environment: Secure with SameSite=None for cross-site production
// deployments, SameSite=Strict during development.
func (c *Config) CookieOptions() handlers.CookieOptions {
	ttl := c.Auth.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultSessionTTL
	}

	opts := handlers.CookieOptions{
		MaxAge:   int(ttl.Seconds()),
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}

	if c.Server.IsProduction() {
		opts.Secure = true
		opts.SameSite = http.SameSiteNoneMode
	}

	return opts
}
