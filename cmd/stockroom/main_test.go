package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// backend is a fake stockroom API that records what it was asked.
type backend struct {
	mu          sync.Mutex
	role        string
	loginStatus int
	meStatus    int
	paths       []string
	logouts     int
	created     map[string]any
	changed     map[string]any
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paths = append(b.paths, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	role := b.role
	if role == "" {
		role = "admin"
	}
	switch r.Method + " " + r.URL.Path {
	case "POST /auth/login", "POST /auth/admin/login":
		if b.loginStatus != 0 {
			w.WriteHeader(b.loginStatus)
			w.Write([]byte(`{"message":"Invalid username or password"}`)) //nolint:errcheck
			return
		}
		writeJSON(w, map[string]any{"success": true, "data": map[string]any{
			"token": "tok-1",
			"user":  map[string]any{"id": "u1", "username": "alice", "fullName": "Alice A", "role": role, "isActive": true},
		}})
	case "POST /auth/logout":
		b.logouts++
		writeJSON(w, map[string]any{"success": true})
	case "GET /auth/me":
		if b.meStatus != 0 {
			w.WriteHeader(b.meStatus)
			w.Write([]byte(`{"message":"Token expired"}`)) //nolint:errcheck
			return
		}
		writeJSON(w, map[string]any{"data": map[string]any{"user": map[string]any{
			"id": "u1", "username": "alice", "fullName": "Alice A", "email": "alice@example.com", "role": role, "isActive": true,
		}}})
	case "PUT /auth/change-password":
		json.NewDecoder(r.Body).Decode(&b.changed) //nolint:errcheck
		writeJSON(w, map[string]any{"success": true})
	case "GET /users":
		writeJSON(w, map[string]any{"data": map[string]any{"users": []map[string]any{
			{"id": "u1", "username": "alice", "fullName": "Alice A", "role": "admin", "isActive": true},
			{"id": "u2", "username": "bob", "fullName": "Bob B", "role": "employee", "isActive": false},
		}}})
	case "POST /users":
		json.NewDecoder(r.Body).Decode(&b.created) //nolint:errcheck
		writeJSON(w, map[string]any{"success": true, "data": map[string]any{"user": map[string]any{
			"id": "u3", "username": b.created["username"], "role": b.created["role"], "isActive": true,
		}}})
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) saw(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.paths {
		if p == call {
			return true
		}
	}
	return false
}

// with runs f under the backend lock.
func (b *backend) with(f func(b *backend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f(b)
}

func writeJSON(w http.ResponseWriter, v any) {
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// setup points the CLI at a fresh home directory and a fake backend.
func setup(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	t.Setenv("STOCKROOM_HOME", t.TempDir())
	t.Setenv("STOCKROOM_API_URL", srv.URL)
	t.Setenv("STOCKROOM_STORE", "file")
	t.Setenv("STOCKROOM_STORE_KEY", "")
	t.Setenv("STOCKROOM_LOG_FILE", "")
	t.Setenv("STOCKROOM_LOG_LEVEL", "debug")
	return b
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func login(t *testing.T, extra ...string) {
	t.Helper()
	args := append([]string{"login", "-u", "alice", "--password-stdin"}, extra...)
	out, err := execute(t, "secret\n", args...)
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	b := setup(t)

	out, err := execute(t, "secret\n", "login", "-u", "alice", "--admin", "--password-stdin")
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Signed in as Alice A (admin)") {
		t.Errorf("login output = %q, want sign-in confirmation", out)
	}
	if !b.saw("POST /auth/admin/login") {
		t.Error("admin login endpoint was not called")
	}

	out, err = execute(t, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v\n%s", err, out)
	}
	for _, want := range []string{"Alice A", "alice@example.com", "admin"} {
		if !strings.Contains(out, want) {
			t.Errorf("whoami output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "", "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Signed out") {
		t.Errorf("logout output = %q", out)
	}
	b.with(func(b *backend) {
		if b.logouts != 1 {
			t.Errorf("backend logouts = %d, want 1", b.logouts)
		}
	})

	out, err = execute(t, "", "whoami")
	if !errors.Is(err, errReported) {
		t.Errorf("whoami after logout err = %v, want errReported", err)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("whoami after logout = %q", out)
	}
}

func TestLoginEmployeeByDefault(t *testing.T) {
	b := setup(t)
	login(t)
	if !b.saw("POST /auth/login") {
		t.Error("employee login endpoint was not called")
	}
	if b.saw("POST /auth/admin/login") {
		t.Error("admin login endpoint called without --admin")
	}
}

func TestLoginFailure(t *testing.T) {
	b := setup(t)
	b.with(func(b *backend) { b.loginStatus = http.StatusUnauthorized })

	out, err := execute(t, "wrong\n", "login", "-u", "alice", "--password-stdin")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(out, "Invalid username or password") {
		t.Errorf("output = %q, want backend message", out)
	}

	out, _ = execute(t, "", "whoami")
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("whoami after failed login = %q", out)
	}
}

func TestLoginMissingPasswordOnStdin(t *testing.T) {
	setup(t)
	_, err := execute(t, "", "login", "-u", "alice", "--password-stdin")
	if err == nil || !strings.Contains(err.Error(), "read stdin") {
		t.Errorf("err = %v, want stdin error", err)
	}
}

func TestWhoamiExpiredToken(t *testing.T) {
	b := setup(t)
	login(t)
	b.with(func(b *backend) { b.meStatus = http.StatusUnauthorized })

	out, err := execute(t, "", "whoami")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(out, expiredNotice) {
		t.Errorf("output = %q, want expiry notice", out)
	}

	b.with(func(b *backend) { b.meStatus = 0 })
	out, _ = execute(t, "", "whoami")
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("session survived expiry: %q", out)
	}
}

func TestLogoutKeepsRememberedCredentials(t *testing.T) {
	setup(t)
	login(t, "--remember")

	if _, err := execute(t, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	e, err := openEnv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	creds := e.auth.SavedCredentials(context.Background())
	e.Close() //nolint:errcheck
	if creds == nil || creds.Username != "alice" {
		t.Fatalf("saved credentials after logout = %+v, want alice", creds)
	}

	if _, err := execute(t, "", "logout", "--forget"); err != nil {
		t.Fatalf("logout --forget: %v", err)
	}
	e, err = openEnv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close() //nolint:errcheck
	if creds := e.auth.SavedCredentials(context.Background()); creds != nil {
		t.Errorf("saved credentials after --forget = %+v, want nil", creds)
	}
}

func TestLogoutWhenSignedOut(t *testing.T) {
	b := setup(t)
	out, err := execute(t, "", "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("output = %q", out)
	}
	b.with(func(b *backend) {
		if b.logouts != 0 {
			t.Errorf("backend logouts = %d, want 0", b.logouts)
		}
	})
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		wantOut string
		called  bool
	}{
		{"changed", "OldPass1\nNewPass12\nNewPass12\n", "Password changed", true},
		{"mismatch", "OldPass1\nNewPass12\nNewPass13\n", "password confirmation", false},
		{"weak", "OldPass1\nweak\nweak\n", "new password", false},
		{"same as current", "OldPass1\nOldPass1\nOldPass1\n", "new password", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setup(t)
			login(t)

			out, err := execute(t, tt.stdin, "password", "--password-stdin")
			if tt.called != (err == nil) {
				t.Errorf("err = %v", err)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want to contain %q", out, tt.wantOut)
			}
			if got := b.saw("PUT /auth/change-password"); got != tt.called {
				t.Errorf("change-password called = %v, want %v", got, tt.called)
			}
			b.with(func(b *backend) {
				if tt.called && b.changed["newPassword"] != "NewPass12" {
					t.Errorf("request body = %v", b.changed)
				}
			})
		})
	}
}

func TestUsersCreate(t *testing.T) {
	b := setup(t)
	login(t, "--admin")

	out, err := execute(t, "Passw0rd1\nPassw0rd1\n",
		"users", "create", "-u", "bob", "--name", "Bob B", "--email", "bob@example.com", "--password-stdin")
	if err != nil {
		t.Fatalf("users create: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Created bob (employee)") {
		t.Errorf("output = %q", out)
	}
	b.with(func(b *backend) {
		if b.created["fullName"] != "Bob B" || b.created["role"] != "employee" {
			t.Errorf("request body = %v", b.created)
		}
	})
}

func TestUsersCreateValidation(t *testing.T) {
	b := setup(t)
	login(t, "--admin")

	out, err := execute(t, "Passw0rd1\nPassw0rd1\n",
		"users", "create", "-u", "bob", "--role", "owner", "--password-stdin")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(out, "role") {
		t.Errorf("output = %q, want role error", out)
	}
	if b.saw("POST /users") {
		t.Error("invalid user was sent to the backend")
	}
}

func TestUsersRequireAdmin(t *testing.T) {
	b := setup(t)
	b.with(func(b *backend) { b.role = "employee" })
	login(t)

	out, err := execute(t, "", "users", "list")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(out, "Only administrators") {
		t.Errorf("output = %q", out)
	}
	if b.saw("GET /users") {
		t.Error("employee listed users")
	}
}

func TestUsersList(t *testing.T) {
	setup(t)
	login(t, "--admin")

	out, err := execute(t, "", "users", "list")
	if err != nil {
		t.Fatalf("users list: %v\n%s", err, out)
	}
	for _, want := range []string{"alice", "Bob B", "2 users", "1 active", "1 inactive"} {
		if !strings.Contains(out, want) {
			t.Errorf("users list missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q, want %q", out, version)
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := execute(t, "", "--help")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"stockroom login", "stockroom users create", "stockroom whoami"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		in      string
		n       int
		want    []string
		wantErr bool
	}{
		{"a\n", 1, []string{"a"}, false},
		{"a\r\nb\r\n", 2, []string{"a", "b"}, false},
		{"a\nb\nc\n", 2, []string{"a", "b"}, false},
		{"a", 1, []string{"a"}, false},
		{"a\n", 2, nil, true},
		{"", 1, nil, true},
	}
	for _, tt := range tests {
		got, err := readLines(strings.NewReader(tt.in), tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("readLines(%q, %d) err = %v, wantErr %v", tt.in, tt.n, err, tt.wantErr)
			continue
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("readLines(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
