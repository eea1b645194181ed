package tui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/stockroom/internal/auth"
	"github.com/naveenspark/stockroom/internal/store"
	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

func newTestApp(role domain.Role) App {
	a := NewApp(nil, Options{WebURL: "https://stock.example.com"})
	model, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a = model.(App)
	model, _ = a.Update(sessionRestoredMsg{session: auth.Session{
		User:            &domain.User{ID: "u1", Username: "alice", Role: role},
		Token:           "tok",
		IsAuthenticated: true,
	}})
	return model.(App)
}

func TestAppRestoredSessionOpensDashboard(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	if a.phase != phaseMain || a.view != viewDashboard {
		t.Fatalf("phase = %d view = %d, want main/dashboard", a.phase, a.view)
	}
	if !strings.Contains(a.View(), "Dashboard") {
		t.Errorf("tab bar missing:\n%s", a.View())
	}
}

func TestAppAnonymousRestoreShowsLogin(t *testing.T) {
	a := NewApp(nil, Options{})
	model, cmd := a.Update(sessionRestoredMsg{session: auth.Session{}})
	a = model.(App)
	if a.phase != phaseLogin {
		t.Fatalf("phase = %d, want login", a.phase)
	}
	if cmd == nil {
		t.Error("login screen did not ask for saved credentials")
	}
	if !strings.Contains(a.View(), "Sign in") {
		t.Errorf("login view missing:\n%s", a.View())
	}
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"2", viewInventory},
		{"3", viewInvoices},
		{"4", viewStock},
		{"5", viewOrders},
		{"6", viewDiscrepancies},
		{"7", viewHistory},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			app := newTestApp(domain.RoleEmployee)
			model, cmd := app.Update(key(tc.key))
			a := model.(App)
			if a.view != tc.wantView {
				t.Errorf("after key %q: view = %d, want %d", tc.key, a.view, tc.wantView)
			}
			if cmd == nil {
				t.Errorf("switching to %d did not load it", tc.wantView)
			}
		})
	}
}

func TestAppUsersTabAdminOnly(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	model, _ := a.Update(key("8"))
	if model.(App).view == viewUsers {
		t.Error("employee reached the users screen")
	}

	a = newTestApp(domain.RoleAdmin)
	model, _ = a.Update(key("8"))
	if model.(App).view != viewUsers {
		t.Error("admin could not reach the users screen")
	}
}

func TestAppTabCycleWraps(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := model.(App).view; got != viewHistory {
		t.Errorf("shift+tab from dashboard = %d, want history", got)
	}
}

func TestAppLeavingHistoryStopsPolling(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	model, _ := a.Update(key("7"))
	a = model.(App)
	gen := a.history.gen

	model, _ = a.Update(key("1"))
	a = model.(App)
	if a.history.gen == gen {
		t.Fatal("leaving history did not bump the poll generation")
	}
	model, _ = a.Update(key("7"))
	a = model.(App)
	_, cmd := a.history.Update(pollMsg{screen: viewHistory, gen: gen})
	if cmd != nil {
		t.Error("old poll loop is still alive")
	}
}

// A poll tick scheduled before the session expired must not start a second
// loop after the user signs in again and reopens History.
func TestAppHistoryPollSurvivesRelogin(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	model, _ := a.Update(key("7"))
	a = model.(App)
	stale := pollMsg{screen: viewHistory, gen: a.history.gen}

	model, _ = a.Update(sessionExpiredMsg{})
	a = model.(App)
	model, _ = a.Update(loginResultMsg{result: auth.LoginResult{Success: true, User: &domain.User{Username: "alice", Role: domain.RoleEmployee}}})
	a = model.(App)
	if _, cmd := a.history.Update(stale); cmd != nil {
		t.Error("stale tick restarted polling before History was reopened")
	}

	model, _ = a.Update(key("7"))
	a = model.(App)
	if a.view != viewHistory {
		t.Fatalf("view = %d, want history", a.view)
	}
	if a.history.gen == stale.gen {
		t.Fatalf("history generation %d reused after relogin", stale.gen)
	}
	if _, cmd := a.history.Update(stale); cmd != nil {
		t.Error("stale tick started a second poll loop")
	}
}

func TestAppSearchKeysDoNotSwitchTabs(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	model, _ := a.Update(key("2"))
	a = model.(App)
	model, _ = a.Update(key("/"))
	a = model.(App)
	model, _ = a.Update(key("3"))
	a = model.(App)
	if a.view != viewInventory || a.inventory.search != "3" {
		t.Errorf("view = %d search = %q, want inventory with search 3", a.view, a.inventory.search)
	}
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("typing q into search returned no debounce")
	}
}

func TestAppQuitOnQ(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestAppLogoutAsksFirst(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	model, _ := a.Update(key("L"))
	a = model.(App)
	if !a.confirm.active() {
		t.Fatal("L did not ask for confirmation")
	}
	model, _ = a.Update(key("n"))
	a = model.(App)
	if a.confirm.active() || a.phase != phaseMain {
		t.Error("declining sign out changed the session")
	}
}

func TestAppSessionExpiredReturnsToLogin(t *testing.T) {
	a := newTestApp(domain.RoleAdmin)
	model, _ := a.Update(key("8"))
	a = model.(App)

	model, _ = a.Update(sessionExpiredMsg{})
	a = model.(App)
	if a.phase != phaseLogin {
		t.Fatalf("phase = %d, want login", a.phase)
	}
	if a.user != nil {
		t.Error("user still set after expiry")
	}
	if !strings.Contains(a.View(), "session has expired") {
		t.Errorf("login view missing expiry notice:\n%s", a.View())
	}
}

func TestAppLoginSuccessResetsScreens(t *testing.T) {
	a := newTestApp(domain.RoleAdmin)
	model, _ := a.Update(key("3"))
	a = model.(App)
	a.invoices.invoices = []domain.Invoice{{InvoiceNumber: "INV-OLD"}}

	model, _ = a.Update(sessionExpiredMsg{})
	a = model.(App)
	model, _ = a.Update(loginResultMsg{result: auth.LoginResult{Success: true, User: &domain.User{Username: "bob", Role: domain.RoleEmployee}}})
	a = model.(App)
	if a.phase != phaseMain || a.view != viewDashboard {
		t.Fatalf("phase = %d view = %d, want main/dashboard", a.phase, a.view)
	}
	if len(a.invoices.invoices) != 0 {
		t.Error("previous user's invoices survived a new login")
	}
}

// A 401 for a request sent with a token that has since been replaced must
// not sign out the new session.
func TestFetchIgnoresRejectionOfReplacedToken(t *testing.T) {
	var logins atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			n := logins.Add(1)
			fmt.Fprintf(w, `{"success":true,"data":{"token":"tok-%d","user":{"id":"u1","username":"alice","role":"employee"}}}`, n)
		case "/auth/logout":
			w.Write([]byte(`{"success":true}`)) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Token expired","code":"TOKEN_EXPIRED"}`)) //nolint:errcheck
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	var k [store.KeySize]byte
	m := auth.NewManager(client.New(srv.URL), store.New(store.NewMemoryKV(), &k, zerolog.Nop()), zerolog.Nop())
	if res := m.Login(ctx, "alice", "secret1", auth.LoginEmployee, false); !res.Success {
		t.Fatalf("first login failed: %s", res.Error)
	}

	cmd := fetch(m, func(ctx context.Context, c *client.Client) (*domain.Dashboard, error) {
		// The user signs in again while this request is in flight.
		m.Logout(ctx)
		if res := m.Login(ctx, "alice", "secret1", auth.LoginEmployee, false); !res.Success {
			t.Errorf("second login failed: %s", res.Error)
		}
		return c.Dashboard(ctx)
	}, func(d *domain.Dashboard, err error) tea.Msg {
		return dashboardLoadedMsg{data: d, err: err}
	})
	msg := cmd()
	if _, ok := msg.(sessionExpiredMsg); ok {
		t.Fatal("late rejection of the old token expired the new session")
	}
	if got, ok := msg.(dashboardLoadedMsg); !ok || got.err == nil {
		t.Errorf("msg = %#v, want dashboardLoadedMsg carrying the error", msg)
	}
	if s := m.Session(); !s.IsAuthenticated || s.Token != "tok-2" {
		t.Errorf("session = %+v, want tok-2 signed in", s)
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := newTestApp(domain.RoleEmployee)
	model, _ := a.Update(key("?"))
	a = model.(App)
	if !a.helpOpen || !strings.Contains(a.View(), "stock.example.com") {
		t.Fatalf("help overlay not shown:\n%s", a.View())
	}
	model, _ = a.Update(key("esc"))
	if model.(App).helpOpen {
		t.Error("esc did not close help")
	}
}

// An expired token on any screen call logs the session out through the
// manager and lands the App on the login screen.
func TestAppExpiredTokenEndToEnd(t *testing.T) {
	var logouts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/auth/logout" {
			logouts.Add(1)
			w.Write([]byte(`{"success":true}`)) //nolint:errcheck
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expired","code":"TOKEN_EXPIRED"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	ctx := context.Background()
	var k [store.KeySize]byte
	st := store.New(store.NewMemoryKV(), &k, zerolog.Nop())
	if err := st.SetAuthToken(ctx, "opaque-token"); err != nil {
		t.Fatal(err)
	}
	if err := st.SetUserData(ctx, &domain.User{ID: "u1", Username: "alice", Role: domain.RoleEmployee}); err != nil {
		t.Fatal(err)
	}
	m := auth.NewManager(client.New(srv.URL), st, zerolog.Nop())

	a := NewApp(m, Options{})
	model, _ := a.Update(a.restore()())
	a = model.(App)
	if a.phase != phaseMain {
		t.Fatalf("phase = %d, want main after restore", a.phase)
	}

	_, load := a.dashboard.open()
	msg := load()
	if _, ok := msg.(sessionExpiredMsg); !ok {
		t.Fatalf("dashboard load returned %T, want sessionExpiredMsg", msg)
	}
	model, _ = a.Update(msg)
	a = model.(App)
	if a.phase != phaseLogin {
		t.Errorf("phase = %d, want login", a.phase)
	}
	if m.State() != auth.StateAnonymous {
		t.Errorf("manager state = %v, want anonymous", m.State())
	}
	if st.AuthToken(ctx) != "" {
		t.Error("token still stored after expiry")
	}
	if n := logouts.Load(); n != 1 {
		t.Errorf("backend logout calls = %d, want 1", n)
	}
}
