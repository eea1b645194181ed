package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stockroom/internal/auth"
	"github.com/naveenspark/stockroom/internal/validate"
)

// login form fields, in tab order
const (
	fieldUsername = iota
	fieldPassword
	fieldLoginType
	fieldRemember
	fieldCount
)

type loginModel struct {
	auth       Auth
	username   string
	password   string
	loginType  auth.LoginType
	remember   bool
	focus      int
	submitting bool
	errMsg     string
	notice     string
	width      int
	height     int
}

// loginResultMsg carries the outcome of Manager.Login.
type loginResultMsg struct {
	result auth.LoginResult
}

// loginPrefillMsg carries remembered credentials for the form.
type loginPrefillMsg struct {
	creds    *auth.Credentials
	remember bool
}

func newLoginModel(a Auth) loginModel {
	return loginModel{auth: a, loginType: auth.LoginEmployee}
}

// prefill loads saved credentials from the store.
func (m loginModel) prefill() tea.Cmd {
	a := m.auth
	return func() tea.Msg {
		ctx := context.Background()
		return loginPrefillMsg{creds: a.SavedCredentials(ctx), remember: a.RememberMe(ctx)}
	}
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	form := validate.LoginForm{
		Username:  strings.TrimSpace(m.username),
		Password:  m.password,
		LoginType: string(m.loginType),
	}
	if err := validate.Struct(form); err != nil {
		m.errMsg = validate.First(err)
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	a, lt, remember := m.auth, m.loginType, m.remember
	return m, func() tea.Msg {
		return loginResultMsg{result: a.Login(context.Background(), form.Username, form.Password, lt, remember)}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginPrefillMsg:
		if msg.creds == nil {
			m.remember = msg.remember
			return m, nil
		}
		m.username = msg.creds.Username
		m.password = msg.creds.Password
		if lt := auth.LoginType(msg.creds.LoginType); lt == auth.LoginAdmin || lt == auth.LoginEmployee {
			m.loginType = lt
		}
		m.remember = true
		return m, nil

	case loginResultMsg:
		m.submitting = false
		if !msg.result.Success {
			m.errMsg = msg.result.Error
			m.password = ""
			m.focus = fieldPassword
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch key := msg.String(); key {
		case "tab", "down":
			m.focus = (m.focus + 1) % fieldCount
		case "shift+tab", "up":
			m.focus = (m.focus + fieldCount - 1) % fieldCount
		case "enter":
			return m.submit()
		default:
			m.edit(key)
		}
	}
	return m, nil
}

func (m *loginModel) edit(key string) {
	switch m.focus {
	case fieldUsername:
		m.username = editRune(m.username, key)
	case fieldPassword:
		m.password = editRune(m.password, key)
	case fieldLoginType:
		if key == " " || key == "space" || key == "left" || key == "right" {
			if m.loginType == auth.LoginAdmin {
				m.loginType = auth.LoginEmployee
			} else {
				m.loginType = auth.LoginAdmin
			}
		}
	case fieldRemember:
		if key == " " || key == "space" {
			m.remember = !m.remember
		}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + accentStyle.Render("Sign in") + "\n\n")
	if m.notice != "" {
		b.WriteString("  " + confirmStyle.Render(m.notice) + "\n\n")
	}

	b.WriteString("  " + renderInput("username  ", m.username, "your username", m.focus == fieldUsername, false) + "\n")
	b.WriteString("  " + renderInput("password  ", m.password, "password", m.focus == fieldPassword, true) + "\n\n")

	admin, employee := dimStyle.Render("admin"), dimStyle.Render("employee")
	if m.loginType == auth.LoginAdmin {
		admin = selectedStyle.Render("[admin]")
	} else {
		employee = selectedStyle.Render("[employee]")
	}
	b.WriteString("  " + fieldLabel("account   ", m.focus == fieldLoginType) + admin + " " + employee + "\n")

	box := "[ ]"
	if m.remember {
		box = okStyle.Render("[x]")
	}
	b.WriteString("  " + fieldLabel("remember  ", m.focus == fieldRemember) + box + " " + dimStyle.Render("keep me signed in on this machine") + "\n")

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("signing in...") + "\n")
	case m.errMsg != "":
		b.WriteString("  " + errorStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return inputPromptStyle.Render(label)
	}
	return dimStyle.Render(label)
}
