package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/naveenspark/stockroom/pkg/client"
)

// IsTokenExpired reports whether err means the session token is no longer
// accepted by the backend. Transport failures never count: their text
// carries the request URL, which may contain "401" anywhere.
func IsTokenExpired(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusUnauthorized || httpErr.Code == "TOKEN_EXPIRED" {
			return true
		}
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Code == "TOKEN_EXPIRED" {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return false
	}
	msg := client.Message(err)
	return strings.Contains(msg, "401") ||
		strings.Contains(msg, "Token expired") ||
		strings.Contains(msg, "TOKEN_EXPIRED")
}

// HandleError logs out when err is a token expiry and reports whether it did.
// Callers show their own error message only when HandleError returns false.
func (m *Manager) HandleError(ctx context.Context, err error) bool {
	if !IsTokenExpired(err) {
		return false
	}
	m.log.Info().Err(err).Msg("token expired, logging out")
	m.Logout(ctx)
	return true
}

// HandleErrorFor is HandleError for a request that was sent with token. A
// rejection of a token that is no longer current is ignored, so a late reply
// from a previous session cannot end the one that replaced it.
func (m *Manager) HandleErrorFor(ctx context.Context, token string, err error) bool {
	if !IsTokenExpired(err) {
		return false
	}
	if token != m.Token() {
		m.log.Debug().Err(err).Msg("ignoring rejection of a replaced token")
		return false
	}
	return m.HandleError(ctx, err)
}
