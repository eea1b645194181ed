package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/naveenspark/stockroom/pkg/client"
)

// Session is the part of the auth manager that screens depend on.
type Session interface {
	Client() *client.Client
	HandleErrorFor(ctx context.Context, token string, err error) bool
}

// sessionExpiredMsg is emitted instead of a screen's result when the backend
// rejected the token and the session has been logged out.
type sessionExpiredMsg struct{}

// request identifies one in-flight load. A screen keeps the token of its
// latest load and drops results carrying any other token.
type request = uuid.UUID

func newRequest() request {
	return uuid.New()
}

// fetch runs load on the command goroutine. A failed call is offered to the
// token-expiry handler together with the token it was sent with; if it
// handled the error the screen receives sessionExpiredMsg instead of wrap's
// message.
func fetch[T any](s Session, load func(context.Context, *client.Client) (T, error), wrap func(T, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		c := s.Client()
		v, err := load(ctx, c)
		if err != nil && s.HandleErrorFor(ctx, c.Token(), err) {
			return sessionExpiredMsg{}
		}
		return wrap(v, err)
	}
}

// act is fetch for calls with no result worth keeping.
func act(s Session, do func(context.Context, *client.Client) error, wrap func(error) tea.Msg) tea.Cmd {
	return fetch(s, func(ctx context.Context, c *client.Client) (struct{}, error) {
		return struct{}{}, do(ctx, c)
	}, func(_ struct{}, err error) tea.Msg {
		return wrap(err)
	})
}

// debounceMsg fires after the search debounce delay. Only the message whose
// seq matches the screen's latest keystroke triggers a load.
type debounceMsg struct {
	screen view
	seq    int
}

func debounce(d time.Duration, screen view, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceMsg{screen: screen, seq: seq}
	})
}

// pollMsg drives silent refreshes. A screen bumps its generation when it
// stops polling, so ticks from an older loop are ignored.
type pollMsg struct {
	screen view
	gen    int
}

func poll(d time.Duration, screen view, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return pollMsg{screen: screen, gen: gen}
	})
}
