package driver

import (
	"errors"
	"fmt"
	"net/http"
)

// ProviderError is returned for transport failures and non-2xx statuses.
//
// Adapters populate RawResponse with the provider response body bytes.
// RawResponse must never include API keys.
type ProviderError struct {
	Provider    string
	StatusCode  int
	Message     string
	RawResponse []byte
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

// AuthError is the 401/403 case: the credential was rejected. It wraps the
// underlying ProviderError.
type AuthError struct {
	Provider string
	Err      *ProviderError
}

func (e *AuthError) Error() string {
	if e == nil {
		return "authentication failed"
	}
	return fmt.Sprintf("%s authentication failed (status %d): check the configured credentials", e.Provider, e.Err.StatusCode)
}

func (e *AuthError) Unwrap() error {
	if e == nil || e.Err == nil {
		return nil
	}
	return e.Err
}

// StatusError maps a non-2xx status onto the error taxonomy: 401 and 403
// become an AuthError, everything else a plain ProviderError.
func StatusError(provider string, status int, body []byte) error {
	perr := &ProviderError{
		Provider:    provider,
		StatusCode:  status,
		Message:     http.StatusText(status),
		RawResponse: body,
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return &AuthError{Provider: provider, Err: perr}
	}
	return perr
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
