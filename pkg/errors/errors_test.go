package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := New("TEST", "something broke", http.StatusTeapot)
	require.Equal(t, "something broke", err.Error())
	require.Equal(t, http.StatusTeapot, err.StatusCode)

	withCause := err.WithInternal(errors.New("root cause"))
	require.Equal(t, "something broke: root cause", withCause.Error())

	// WithInternal copies; the sentinel stays clean.
	require.Nil(t, err.Internal)
}

func TestWithInternalUnwraps(t *testing.T) {
	cause := errors.New("db down")
	err := ErrInternalServer.WithInternal(cause)

	require.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, error(err), &appErr)
	require.Equal(t, ErrInternalServer.Code, appErr.Code)
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	appErr := FromError(ErrOTPExpired)
	require.Equal(t, http.StatusGone, appErr.StatusCode)

	wrapped := FromError(fmt.Errorf("context: %w", ErrUserExists))
	require.Equal(t, ErrUserExists.Code, wrapped.Code)

	plain := FromError(errors.New("boom"))
	require.Equal(t, ErrInternalServer.Code, plain.Code)
	require.Equal(t, "Server error", plain.Message)
}

func TestCredentialFailuresShareWording(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable to clients.
	require.Equal(t, "Invalid credentials", ErrInvalidCredentials.Message)
	require.Equal(t, http.StatusUnauthorized, ErrInvalidCredentials.StatusCode)
}

func TestNewBadRequest(t *testing.T) {
	err := NewBadRequest("All fields are required")
	require.Equal(t, ErrBadRequest.Code, err.Code)
	require.Equal(t, http.StatusBadRequest, err.StatusCode)
	require.Equal(t, "All fields are required", err.Message)
}
