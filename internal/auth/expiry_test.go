package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/naveenspark/stockroom/internal/store"
	"github.com/naveenspark/stockroom/pkg/client"
)

func TestIsTokenExpired(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"http 401", &client.HTTPError{StatusCode: 401, Message: "Unauthorized"}, true},
		{"wrapped 401", fmt.Errorf("client.Me: %w", &client.HTTPError{StatusCode: 401, Message: "nope"}), true},
		{"code in message", errors.New("request failed: TOKEN_EXPIRED"), true},
		{"phrase", errors.New("Token expired"), true},
		{"401 in text", errors.New("status 401 from proxy"), true},
		{"500", &client.HTTPError{StatusCode: 500, Message: "boom"}, false},
		{"403", &client.HTTPError{StatusCode: 403, Message: "Forbidden"}, false},
		{"lowercase phrase", errors.New("token expired"), false},
		{"network", errors.New("dial tcp: connection refused"), false},
		{"code on other status", &client.HTTPError{StatusCode: 400, Message: "bad", Code: "TOKEN_EXPIRED"}, true},
		{"envelope code", &client.APIError{Message: "session over", Code: "TOKEN_EXPIRED"}, true},
		{"401 in url", fmt.Errorf("do request: %w", &url.Error{Op: "Get", URL: "http://api/invoices?search=INV-4017", Err: errors.New("connection refused")}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTokenExpired(tt.err); got != tt.want {
				t.Errorf("IsTokenExpired(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleError_Expired(t *testing.T) {
	b := &fakeBackend{loginStatus: http.StatusOK, loginBody: okLogin, logoutStatus: http.StatusUnauthorized}
	m, st, _ := setup(t, b)
	ctx := context.Background()
	m.Login(ctx, "alice", "correct", LoginAdmin, false)

	err := &client.HTTPError{StatusCode: http.StatusUnauthorized, Message: "jwt rejected", Code: "TOKEN_EXPIRED"}
	if !m.HandleError(ctx, err) {
		t.Fatal("HandleError() = false, want handled")
	}
	s := m.Session()
	if s.State() != StateAnonymous || s.Token != "" || s.User != nil {
		t.Errorf("session = %+v, want anonymous with no token or user", s)
	}
	if st.AuthToken(ctx) != "" || st.UserData(ctx) != nil {
		t.Error("token or user left in store")
	}
}

func TestHandleError_NotExpired(t *testing.T) {
	b := &fakeBackend{loginStatus: http.StatusOK, loginBody: okLogin}
	m, _, _ := setup(t, b)
	ctx := context.Background()
	m.Login(ctx, "alice", "correct", LoginAdmin, false)
	before := m.Session()

	for _, err := range []error{nil, &client.HTTPError{StatusCode: 500, Message: "boom"}, errors.New("timeout")} {
		if m.HandleError(ctx, err) {
			t.Errorf("HandleError(%v) = true, want not handled", err)
		}
	}
	after := m.Session()
	if after.Token != before.Token || !after.IsAuthenticated {
		t.Errorf("session changed: before %+v, after %+v", before, after)
	}
}

// A refused connection to a URL that happens to contain 401 is a network
// failure, not a rejected token.
func TestHandleError_RefusedConnectionWith401InURL(t *testing.T) {
	b := &fakeBackend{loginStatus: http.StatusOK, loginBody: okLogin}
	m, _, _ := setup(t, b)
	ctx := context.Background()
	m.Login(ctx, "alice", "correct", LoginAdmin, false)

	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	_, err := client.New(dead.URL).WithToken(m.Token()).Invoices().List(ctx, client.InvoiceListParams{Search: "INV-4017"})
	if err == nil {
		t.Fatal("List() against a closed server returned no error")
	}
	if IsTokenExpired(err) {
		t.Errorf("IsTokenExpired(%v) = true, want false", err)
	}
	if m.HandleError(ctx, err) || m.HandleErrorFor(ctx, m.Token(), err) {
		t.Error("transport failure was treated as token expiry")
	}
	if !m.Session().IsAuthenticated {
		t.Error("session ended by a network failure")
	}
}

// rotatingBackend issues tok-1, tok-2, ... on successive logins.
func rotatingBackend(t *testing.T) *Manager {
	t.Helper()
	var logins atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/admin/login", "/auth/login":
			n := logins.Add(1)
			fmt.Fprintf(w, `{"success":true,"data":{"token":"tok-%d","user":{"id":"u1","username":"alice","role":"admin"}}}`, n)
		case "/auth/logout":
			w.Write([]byte(`{}`)) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	st := store.New(store.NewMemoryKV(), newTestKey(), zerolog.Nop())
	return NewManager(client.New(srv.URL), st, zerolog.Nop())
}

func TestHandleErrorFor_ReplacedTokenIgnored(t *testing.T) {
	m := rotatingBackend(t)
	ctx := context.Background()
	m.Login(ctx, "alice", "correct", LoginAdmin, false)
	sent := m.Client().Token()

	m.Logout(ctx)
	m.Login(ctx, "alice", "correct", LoginAdmin, false)
	if m.Token() == sent {
		t.Fatalf("relogin kept token %q", sent)
	}

	expired := &client.HTTPError{StatusCode: http.StatusUnauthorized, Message: "Token expired", Code: "TOKEN_EXPIRED"}
	if m.HandleErrorFor(ctx, sent, expired) {
		t.Error("HandleErrorFor(old token) = true, want ignored")
	}
	if s := m.Session(); !s.IsAuthenticated || s.Token != "tok-2" {
		t.Errorf("session = %+v, want tok-2 still signed in", s)
	}

	if !m.HandleErrorFor(ctx, m.Token(), expired) {
		t.Error("HandleErrorFor(current token) = false, want handled")
	}
	if m.Session().IsAuthenticated {
		t.Error("current token rejection did not log out")
	}
}
