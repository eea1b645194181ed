package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stockroom/internal/validate"
	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

type usersModel struct {
	sess      Session
	users     []domain.User
	stats     client.UserStats
	cursor    int
	resetting bool
	password  string
	confirm   confirmPrompt
	statusMsg string
	req       request
	loading   bool
	err       error
	width     int
	height    int
}

type usersLoadedMsg struct {
	req  request
	list *client.UserList
	err  error
}

type userChangedMsg struct {
	verb string
	err  error
}

func newUsersModel(s Session) usersModel {
	return usersModel{sess: s, loading: true}
}

func (m usersModel) open() (usersModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req := m.req
	p := client.UserListParams{Page: client.Page{Limit: client.Int(pageSize)}}
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (*client.UserList, error) {
		return c.Users().List(ctx, p)
	}, func(l *client.UserList, err error) tea.Msg {
		return usersLoadedMsg{req: req, list: l, err: err}
	})
}

func (m usersModel) Update(msg tea.Msg) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.users = msg.list.Users
		m.stats = msg.list.Stats
		if m.cursor >= len(m.users) {
			m.cursor = 0
		}
		return m, nil

	case userChangedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("%s failed: %s", msg.verb, client.Message(msg.err))
			return m, nil
		}
		m.statusMsg = msg.verb + "!"
		return m.open()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.confirm.active() {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.answer(msg.String())
			return m, cmd
		}
		m.statusMsg = ""
		if m.resetting {
			return m.updatePassword(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m usersModel) updateList(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "t":
		if m.cursor >= len(m.users) {
			return m, nil
		}
		u := m.users[m.cursor]
		userID, next := u.ID, !u.IsActive
		verb, question := "activated", "activate "+u.Username+"?"
		if !next {
			verb, question = "deactivated", "deactivate "+u.Username+"?"
		}
		m.confirm = ask(question, act(m.sess, func(ctx context.Context, c *client.Client) error {
			_, err := c.Users().SetActive(ctx, userID, next)
			return err
		}, func(err error) tea.Msg {
			return userChangedMsg{verb: verb, err: err}
		}))
	case "P":
		if m.cursor < len(m.users) {
			m.resetting = true
			m.password = ""
		}
	case "r":
		return m.open()
	default:
		m.cursor = moveCursor(m.cursor, len(m.users), key)
	}
	return m, nil
}

func (m usersModel) updatePassword(msg tea.KeyMsg) (usersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.resetting = false
		m.password = ""
	case "enter":
		pw := m.password
		if err := validate.Struct(validate.ResetPasswordForm{Password: pw}); err != nil {
			m.statusMsg = validate.First(err)
			return m, nil
		}
		m.resetting = false
		m.password = ""
		if m.cursor >= len(m.users) {
			return m, nil
		}
		u := m.users[m.cursor]
		userID := u.ID
		m.confirm = ask("reset password for "+u.Username+"?", act(m.sess, func(ctx context.Context, c *client.Client) error {
			return c.Users().ResetPassword(ctx, userID, pw)
		}, func(err error) tea.Msg {
			return userChangedMsg{verb: "password reset", err: err}
		}))
	default:
		m.password = editRune(m.password, msg.String())
	}
	return m, nil
}

func (m usersModel) editingInput() bool {
	return m.resetting || m.confirm.active()
}

func (m usersModel) View() string {
	var b strings.Builder
	s := m.stats
	fmt.Fprintf(&b, "\n  %s %s  %s %s  %s %s  %s %s  %s %s\n\n",
		dimStyle.Render("users"), normalStyle.Render(fmt.Sprint(s.Total)),
		dimStyle.Render("active"), StatusStyle(StatusUser, "active").Render(fmt.Sprint(s.Active)),
		dimStyle.Render("inactive"), StatusStyle(StatusUser, "inactive").Render(fmt.Sprint(s.Inactive)),
		dimStyle.Render("admins"), StatusStyle(StatusUser, "admin").Render(fmt.Sprint(s.Admins)),
		dimStyle.Render("employees"), StatusStyle(StatusUser, "employee").Render(fmt.Sprint(s.Employees)))

	if m.err != nil {
		b.WriteString("  " + errorStyle.Render("error: "+client.Message(m.err)) + "\n")
	}
	switch {
	case m.loading && len(m.users) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case len(m.users) == 0:
		b.WriteString("  " + dimStyle.Render("no users") + "\n")
	default:
		start, end := visibleWindow(m.cursor, len(m.users), m.height-8)
		for i := start; i < end; i++ {
			u := m.users[i]
			state := "active"
			if !u.IsActive {
				state = "inactive"
			}
			last := "never"
			if u.LastLogin != nil {
				last = formatTime(*u.LastLogin)
			}
			line := fmt.Sprintf("%s%s %s %s %s %s",
				cursorPrefix(i == m.cursor),
				padRight(u.Username, 18),
				dimStyle.Render(padRight(truncStr(u.FullName, 22), 22)),
				statusCell(StatusUser, string(u.Role), 9),
				statusCell(StatusUser, state, 9),
				metaStyle.Render(last))
			if i == m.cursor {
				line = selectedRowBg.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if m.resetting {
		b.WriteString("\n  " + renderInput("new password: ", m.password, "", true, true) + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	if m.confirm.active() {
		b.WriteString("\n" + m.confirm.View() + "\n")
	}
	return b.String()
}
