package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/stockroom/internal/auth"
	"github.com/naveenspark/stockroom/internal/browser"
	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

type view int

const (
	viewDashboard view = iota
	viewInventory
	viewInvoices
	viewStock
	viewOrders
	viewDiscrepancies
	viewHistory
	viewUsers
)

type phase int

const (
	phaseBoot phase = iota
	phaseLogin
	phaseMain
)

// Auth is the session lifecycle the App drives. *auth.Manager implements it.
type Auth interface {
	Client() *client.Client
	HandleErrorFor(ctx context.Context, token string, err error) bool
	Session() auth.Session
	Restore(ctx context.Context) auth.Session
	Login(ctx context.Context, username, password string, lt auth.LoginType, rememberMe bool) auth.LoginResult
	Logout(ctx context.Context)
	SavedCredentials(ctx context.Context) *auth.Credentials
	RememberMe(ctx context.Context) bool
}

// Options tunes the App.
type Options struct {
	WebURL         string
	Version        string
	PollInterval   time.Duration
	SearchDebounce time.Duration
}

// sessionRestoredMsg carries the result of the startup restore.
type sessionRestoredMsg struct {
	session auth.Session
}

type loggedOutMsg struct{}

// App is the root Bubbletea model.
type App struct {
	auth  Auth
	opts  Options
	phase phase
	view  view
	user  *domain.User

	login         loginModel
	dashboard     dashboardModel
	inventory     inventoryModel
	invoices      invoicesModel
	stock         stockModel
	orders        ordersModel
	discrepancies discrepanciesModel
	history       historyModel
	users         usersModel

	confirm    confirmPrompt
	helpOpen   bool
	helpCursor int
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(a Auth, opts Options) App {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = 500 * time.Millisecond
	}
	app := App{auth: a, opts: opts, login: newLoginModel(a)}
	app.resetScreens()
	return app
}

// resetScreens drops all screen state, so one user's data never shows to the next.
func (a *App) resetScreens() {
	var s Session
	if a.auth != nil {
		s = a.auth
	}
	a.dashboard = newDashboardModel(s)
	a.inventory = newInventoryModel(s, a.opts.SearchDebounce)
	a.invoices = newInvoicesModel(s)
	a.stock = newStockModel(s)
	a.orders = newOrdersModel(s)
	a.discrepancies = newDiscrepanciesModel(s)
	a.history = newHistoryModel(s, a.opts.PollInterval, a.history.gen+1)
	a.users = newUsersModel(s)
	if a.width > 0 {
		a.resize()
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.restore())
}

func (a App) restore() tea.Cmd {
	m := a.auth
	return func() tea.Msg {
		return sessionRestoredMsg{session: m.Restore(context.Background())}
	}
}

func (a App) logout() tea.Cmd {
	m := a.auth
	return func() tea.Msg {
		m.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// enterMain switches to the tabbed screens for user.
func (a App) enterMain(user *domain.User) (App, tea.Cmd) {
	a.phase = phaseMain
	a.user = user
	a.view = viewDashboard
	a.helpOpen = false
	a.resetScreens()
	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.open()
	return a, cmd
}

// enterLogin shows the sign-in form with notice above it.
func (a App) enterLogin(notice string) (App, tea.Cmd) {
	a.history = a.history.stop()
	a.phase = phaseLogin
	a.user = nil
	a.confirm = confirmPrompt{}
	a.helpOpen = false
	a.login = newLoginModel(a.auth)
	a.login.notice = notice
	a.login, _ = a.login.Update(a.bodySize())
	return a, a.login.prefill()
}

// chrome: header(2) + tabs(1) + status(1) + help(1)
const chrome = 5

func (a App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - chrome}
}

func (a *App) resize() {
	msg := a.bodySize()
	a.login, _ = a.login.Update(msg)
	a.dashboard, _ = a.dashboard.Update(msg)
	a.inventory, _ = a.inventory.Update(msg)
	a.invoices, _ = a.invoices.Update(msg)
	a.stock, _ = a.stock.Update(msg)
	a.orders, _ = a.orders.Update(msg)
	a.discrepancies, _ = a.discrepancies.Update(msg)
	a.history, _ = a.history.Update(msg)
	a.users, _ = a.users.Update(msg)
}

// tabs lists the screens available to the signed-in user.
func (a App) tabs() []view {
	tabs := []view{viewDashboard, viewInventory, viewInvoices, viewStock, viewOrders, viewDiscrepancies, viewHistory}
	if a.user.IsAdmin() {
		tabs = append(tabs, viewUsers)
	}
	return tabs
}

func (v view) title() string {
	switch v {
	case viewDashboard:
		return "Dashboard"
	case viewInventory:
		return "Inventory"
	case viewInvoices:
		return "Invoices"
	case viewStock:
		return "Stock"
	case viewOrders:
		return "Orders"
	case viewDiscrepancies:
		return "Discrepancies"
	case viewHistory:
		return "History"
	case viewUsers:
		return "Users"
	}
	return ""
}

// switchTo leaves the current screen and opens v.
func (a App) switchTo(v view) (App, tea.Cmd) {
	if v == a.view {
		return a, nil
	}
	allowed := false
	for _, t := range a.tabs() {
		if t == v {
			allowed = true
		}
	}
	if !allowed {
		return a, nil
	}
	if a.view == viewHistory {
		a.history = a.history.stop()
	}
	a.view = v
	var cmd tea.Cmd
	switch v {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.open()
	case viewInventory:
		a.inventory, cmd = a.inventory.open()
	case viewInvoices:
		a.invoices, cmd = a.invoices.open()
	case viewStock:
		a.stock, cmd = a.stock.open()
	case viewOrders:
		a.orders, cmd = a.orders.open()
	case viewDiscrepancies:
		a.discrepancies, cmd = a.discrepancies.open()
	case viewHistory:
		a.history, cmd = a.history.open()
	case viewUsers:
		a.users, cmd = a.users.open()
	}
	return a, cmd
}

func (a App) cycle(step int) (App, tea.Cmd) {
	tabs := a.tabs()
	for i, t := range tabs {
		if t == a.view {
			return a.switchTo(tabs[(i+step+len(tabs))%len(tabs)])
		}
	}
	return a.switchTo(viewDashboard)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionRestoredMsg:
		if msg.session.State() == auth.StateAuthenticated {
			return a.enterMain(msg.session.User)
		}
		return a.enterLogin("")

	case sessionExpiredMsg:
		if a.phase != phaseMain {
			return a, nil
		}
		return a.enterLogin("Your session has expired. Please sign in again.")

	case loggedOutMsg:
		return a.enterLogin("Signed out.")

	case loginResultMsg:
		if msg.result.Success {
			return a.enterMain(msg.result.User)
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.phase {
		case phaseBoot:
			return a, nil
		case phaseLogin:
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}
		return a.updateMainKey(msg)
	}

	if a.phase == phaseLogin {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}
	return a.route(msg)
}

func (a App) updateMainKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.confirm.active() {
		var cmd tea.Cmd
		a.confirm, cmd = a.confirm.answer(msg.String())
		return a, cmd
	}

	// Help overlay captures all keys when open
	if a.helpOpen {
		items := helpItems(a.opts.WebURL)
		switch msg.String() {
		case "?", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(items)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			if a.helpCursor < len(items) && items[a.helpCursor].url != "" {
				browser.Open(items[a.helpCursor].url) //nolint:errcheck // best-effort browser open
			}
		}
		return a, nil
	}

	if a.isEditing() {
		return a.route(msg)
	}

	switch key := msg.String(); key {
	case "q":
		return a, tea.Quit
	case "?":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil
	case "L":
		a.confirm = ask("sign out?", a.logout())
		return a, nil
	case "tab":
		return a.cycle(1)
	case "shift+tab":
		return a.cycle(-1)
	case "1", "2", "3", "4", "5", "6", "7", "8":
		return a.switchTo(view(key[0] - '1'))
	}
	return a.route(msg)
}

// route delivers msg to the current screen.
func (a App) route(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewInventory:
		a.inventory, cmd = a.inventory.Update(msg)
	case viewInvoices:
		a.invoices, cmd = a.invoices.Update(msg)
	case viewStock:
		a.stock, cmd = a.stock.Update(msg)
	case viewOrders:
		a.orders, cmd = a.orders.Update(msg)
	case viewDiscrepancies:
		a.discrepancies, cmd = a.discrepancies.Update(msg)
	case viewHistory:
		a.history, cmd = a.history.Update(msg)
	case viewUsers:
		a.users, cmd = a.users.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewInventory:
		return a.inventory.editingInput()
	case viewDiscrepancies:
		return a.discrepancies.editingInput()
	case viewUsers:
		return a.users.editingInput()
	case viewInvoices:
		return a.invoices.confirm.active()
	}
	return false
}

func (a App) helpKeys() string {
	if a.helpOpen {
		return helpBar("j/k", "nav", "enter", "open", "esc", "close")
	}
	if a.confirm.active() {
		return a.confirm.View()
	}
	switch a.view {
	case viewInventory:
		if a.inventory.editing {
			return helpBar("enter", "search", "esc", "clear")
		}
		return helpBar("1-8", "tabs", "j/k", "nav", "enter", "expand", "s", "source", "/", "search", "?", "help", "q", "quit")
	case viewInvoices:
		if a.invoices.detail != nil {
			return helpBar("c", "copy", "m", "mark paid", "d", "delete", "esc", "back")
		}
		return helpBar("1-8", "tabs", "enter", "open", "f", "filter", "n/p", "page", "c", "copy", "?", "help", "q", "quit")
	case viewStock:
		return helpBar("1-8", "tabs", "j/k", "nav", "enter", "expand", "r", "refresh", "?", "help", "q", "quit")
	case viewOrders:
		if a.orders.detail != nil {
			return helpBar("esc", "back")
		}
		return helpBar("1-8", "tabs", "enter", "open", "u", "unstocked", "n/p", "page", "?", "help", "q", "quit")
	case viewDiscrepancies:
		if a.discrepancies.rejecting {
			return helpBar("enter", "reject", "esc", "cancel")
		}
		return helpBar("1-8", "tabs", "f", "filter", "a", "approve", "x", "reject", "?", "help", "q", "quit")
	case viewHistory:
		return helpBar("1-8", "tabs", "j/k", "nav", "r", "refresh", "?", "help", "q", "quit")
	case viewUsers:
		if a.users.resetting {
			return helpBar("enter", "save", "esc", "cancel")
		}
		return helpBar("1-8", "tabs", "t", "toggle active", "P", "reset password", "?", "help", "q", "quit")
	}
	return helpBar("1-8", "tabs", "r", "refresh", "L", "sign out", "?", "help", "q", "quit")
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func (a App) View() string {
	header := center(renderShimmerLogo(a.frame), a.width)
	if a.user != nil {
		who := metaStyle.Render(a.user.DisplayName()) + " " + statusBadge(StatusUser, string(a.user.Role))
		header += "\n" + center(who, a.width)
	} else {
		header += "\n"
	}

	switch a.phase {
	case phaseBoot:
		return header + "\n\n  " + dimStyle.Render("restoring session...")
	case phaseLogin:
		body := strings.TrimRight(truncateToHeight(a.login.View(), a.height-chrome), "\n")
		help := helpBar("tab", "next field", "space", "toggle", "enter", "sign in", "ctrl+c", "quit")
		return fmt.Sprintf("%s\n\n%s\n\n%s", header, body, help)
	}

	tabs := a.tabs()
	colWidth := 0
	if len(tabs) > 0 {
		colWidth = a.width / len(tabs)
	}
	var tabBar strings.Builder
	for i, t := range tabs {
		var label string
		if t == a.view {
			label = accentStyle.Render(fmt.Sprint(i+1)) + " " + selectedStyle.Underline(true).Render(t.title())
		} else {
			label = metaStyle.Render(fmt.Sprint(i+1)) + " " + dimStyle.Render(t.title())
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body string
	switch a.view {
	case viewDashboard:
		body = a.dashboard.View()
	case viewInventory:
		body = a.inventory.View()
	case viewInvoices:
		body = a.invoices.View()
	case viewStock:
		body = a.stock.View()
	case viewOrders:
		body = a.orders.View()
	case viewDiscrepancies:
		body = a.discrepancies.View()
	case viewHistory:
		body = a.history.View()
	case viewUsers:
		body = a.users.View()
	}
	if a.helpOpen {
		body = helpView(helpItems(a.opts.WebURL), a.helpCursor)
	}
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	status := ""
	if a.opts.Version != "" {
		status = metaStyle.Render(" stockroom " + a.opts.Version)
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, status, a.helpKeys())
}
