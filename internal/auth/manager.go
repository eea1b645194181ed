// Package auth owns the in-memory session: who is signed in, with which
// token, and how that state moves between startup, login and logout.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/naveenspark/stockroom/internal/store"
	"github.com/naveenspark/stockroom/internal/validate"
	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

// LoginType selects the backend login endpoint.
type LoginType string

const (
	LoginAdmin    LoginType = "admin"
	LoginEmployee LoginType = "employee"
)

// State is the lifecycle position of the session.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the current authentication state.
type Session struct {
	User            *domain.User
	Token           string
	IsAuthenticated bool
	Loading         bool
}

// State derives the lifecycle state from the snapshot.
func (s Session) State() State {
	switch {
	case s.Loading:
		return StateUnknown
	case s.IsAuthenticated:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// LoginResult reports the outcome of Login. Error is set when Success is false.
type LoginResult struct {
	Success bool
	Error   string
	User    *domain.User
}

// SessionStore is the durable side of the session.
type SessionStore interface {
	SetAuthToken(ctx context.Context, token string) error
	AuthToken(ctx context.Context) string
	RemoveAuthToken(ctx context.Context) error
	SetUserData(ctx context.Context, u *domain.User) error
	UserData(ctx context.Context) *domain.User
	RemoveUserData(ctx context.Context) error
	SetRememberMe(ctx context.Context, on bool) error
	RememberMe(ctx context.Context) bool
	SetSavedCredentials(ctx context.Context, c store.Credentials) error
	SavedCredentials(ctx context.Context) *store.Credentials
	RemoveSavedCredentials(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// Manager is the single writer of the session. It is safe for concurrent
// use; TUI commands call it from their own goroutines.
type Manager struct {
	api   *client.Client
	store SessionStore
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.RWMutex
	session Session
}

// NewManager returns a Manager in the Unknown state. api must not carry a
// token; the Manager binds one after login or restore.
func NewManager(api *client.Client, st SessionStore, log zerolog.Logger) *Manager {
	return &Manager{
		api:     api,
		store:   st,
		log:     log,
		now:     time.Now,
		session: Session{Loading: true},
	}
}

// Session returns a copy of the current session.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return m.Session().State()
}

// Token returns the current bearer token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// Client returns an API client bound to the current token.
func (m *Manager) Client() *client.Client {
	return m.api.WithToken(m.Token())
}

func (m *Manager) set(s Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// Restore loads the session saved by a previous run. Both a token and a user
// must be present, and a JWT token must not have expired.
func (m *Manager) Restore(ctx context.Context) Session {
	token := m.store.AuthToken(ctx)
	user := m.store.UserData(ctx)

	switch {
	case token == "" || user == nil:
		m.log.Debug().Bool("token", token != "").Bool("user", user != nil).Msg("no saved session")
		m.set(Session{})
	case tokenExpired(token, m.now()):
		m.log.Info().Str("user", user.Username).Msg("saved session expired")
		m.removeSession(ctx)
		m.set(Session{})
	default:
		m.log.Info().Str("user", user.Username).Msg("session restored")
		m.set(Session{User: user, Token: token, IsAuthenticated: true})
	}
	return m.Session()
}

// tokenExpired reads the exp claim without verifying the signature. Tokens
// that are not JWTs, or carry no exp, are treated as live.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// Login authenticates and persists the session. It never returns an error;
// failures are reported in the result.
func (m *Manager) Login(ctx context.Context, username, password string, lt LoginType, rememberMe bool) LoginResult {
	form := validate.LoginForm{Username: username, Password: password, LoginType: string(lt)}
	if err := validate.Struct(form); err != nil {
		return LoginResult{Error: validate.First(err)}
	}

	m.mu.Lock()
	m.session.Loading = true
	m.mu.Unlock()

	var (
		resp *client.LoginResponse
		err  error
	)
	if lt == LoginAdmin {
		resp, err = m.api.Auth().LoginAdmin(ctx, username, password)
	} else {
		resp, err = m.api.Auth().LoginEmployee(ctx, username, password)
	}
	if err != nil {
		m.log.Info().Err(err).Str("user", username).Str("type", string(lt)).Msg("login failed")
		m.set(Session{})
		return LoginResult{Error: loginMessage(err)}
	}

	if err := m.persist(ctx, resp, Credentials{Username: username, Password: password, LoginType: string(lt)}, rememberMe); err != nil {
		m.log.Error().Err(err).Msg("saving session failed")
		m.removeSession(ctx)
		m.set(Session{})
		return LoginResult{Error: "Could not save session: " + err.Error()}
	}

	m.set(Session{User: resp.User, Token: resp.Token, IsAuthenticated: true})
	m.log.Info().Str("user", resp.User.Username).Str("role", string(resp.User.Role)).Msg("logged in")
	return LoginResult{Success: true, User: resp.User}
}

// Credentials are the remembered login details.
type Credentials = store.Credentials

func (m *Manager) persist(ctx context.Context, resp *client.LoginResponse, creds Credentials, rememberMe bool) error {
	if err := m.store.SetAuthToken(ctx, resp.Token); err != nil {
		return err
	}
	if err := m.store.SetUserData(ctx, resp.User); err != nil {
		return err
	}
	if err := m.store.SetRememberMe(ctx, rememberMe); err != nil {
		return err
	}
	if rememberMe {
		return m.store.SetSavedCredentials(ctx, creds)
	}
	return m.store.RemoveSavedCredentials(ctx)
}

func loginMessage(err error) string {
	var httpErr *client.HTTPError
	var apiErr *client.APIError
	if errors.As(err, &httpErr) || errors.As(err, &apiErr) {
		if msg := client.Message(err); msg != "" {
			return msg
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "Login cancelled"
	}
	return "Network error: " + err.Error()
}

// removeSession deletes the token and user from the store. Failures are
// logged; the caller clears the in-memory session regardless.
func (m *Manager) removeSession(ctx context.Context) {
	if err := m.store.RemoveAuthToken(ctx); err != nil {
		m.log.Warn().Err(err).Msg("remove auth token")
	}
	if err := m.store.RemoveUserData(ctx); err != nil {
		m.log.Warn().Err(err).Msg("remove user data")
	}
}

// Logout ends the session. The backend is told on a best-effort basis and
// the in-memory session is always cleared. Saved credentials survive only
// when remember-me is on.
func (m *Manager) Logout(ctx context.Context) {
	token := m.Token()
	if token != "" {
		if err := m.api.WithToken(token).Auth().Logout(ctx); err != nil {
			m.log.Debug().Err(err).Msg("backend logout failed")
		}
	}
	m.removeSession(ctx)
	if !m.store.RememberMe(ctx) {
		if err := m.store.RemoveSavedCredentials(ctx); err != nil {
			m.log.Warn().Err(err).Msg("remove saved credentials")
		}
	}
	m.set(Session{})
	m.log.Info().Msg("logged out")
}

// Forget logs out and wipes everything in the store, remembered
// credentials included.
func (m *Manager) Forget(ctx context.Context) error {
	m.Logout(ctx)
	return m.store.ClearAll(ctx)
}

// SetUser replaces the in-memory user, e.g. after a profile refresh. The
// store is not touched.
func (m *Manager) SetUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.User = u
	m.session.IsAuthenticated = u != nil
}

// Refresh fetches the signed-in user's profile and applies it with SetUser.
func (m *Manager) Refresh(ctx context.Context) (*domain.User, error) {
	u, err := m.Client().Auth().Me(ctx)
	if err != nil {
		return nil, err
	}
	m.SetUser(u)
	return u, nil
}

// SavedCredentials returns remembered login details for prefilling the
// login form, or nil.
func (m *Manager) SavedCredentials(ctx context.Context) *Credentials {
	if !m.store.RememberMe(ctx) {
		return nil
	}
	return m.store.SavedCredentials(ctx)
}

// RememberMe reports the saved remember-me preference.
func (m *Manager) RememberMe(ctx context.Context) bool {
	return m.store.RememberMe(ctx)
}
