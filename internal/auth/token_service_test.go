package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	current := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	svc, err := NewTokenService(TokenConfig{
		Secret: "test-secret",
		Issuer: "prism-auth",
		Clock:  func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.Issue("account-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "account-123", accountID)
}

func TestTokenExpiryIsDistinguishable(t *testing.T) {
	current := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	svc, err := NewTokenService(TokenConfig{
		Secret: "test-secret",
		Clock:  func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.Issue("account-123")
	require.NoError(t, err)

	// Still valid one second before the window closes.
	current = current.Add(DefaultSessionTTL - time.Second)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	current = current.Add(2 * time.Second)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenTamperingIsInvalidNotExpired(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)

	token, err := svc.Issue("account-123")
	require.NoError(t, err)

	other, err := NewTokenService(TokenConfig{Secret: "different-secret"})
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.NotErrorIs(t, err, ErrTokenExpired)

	_, err = svc.Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuerMismatch(t *testing.T) {
	issuing, err := NewTokenService(TokenConfig{Secret: "test-secret", Issuer: "someone-else"})
	require.NoError(t, err)

	verifying, err := NewTokenService(TokenConfig{Secret: "test-secret", Issuer: "prism-auth"})
	require.NoError(t, err)

	token, err := issuing.Issue("account-123")
	require.NoError(t, err)

	_, err = verifying.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
