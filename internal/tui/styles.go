package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the STOCKROOM logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "STOCKROOM" as a slow wave of amber light.
// Deep umber (#3a2a12) -> bright amber (#f5b83d).
func renderShimmerLogo(frame int) string {
	const text = "STOCKROOM"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(58 + b*(245-58))
		g := clampByte(42 + b*(184-42))
		bl := clampByte(18 + b*(61-18))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += " "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5b83d")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5b83d"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f5b83d")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a")).
			Bold(true)
)

// StatusDomain selects which status vocabulary a status string belongs to.
type StatusDomain int

const (
	StatusInvoice StatusDomain = iota
	StatusPayment
	StatusOrder
	StatusDiscrepancy
	StatusFetch
	StatusUser
)

var (
	colorGood    = lipgloss.Color("#4ade80")
	colorPending = lipgloss.Color("#f5b83d")
	colorBad     = lipgloss.Color("#e06060")
	colorInfo    = lipgloss.Color("#60a0e0")
	colorMuted   = lipgloss.Color("#606878")
)

// statusColors maps each status domain to its status palette.
var statusColors = map[StatusDomain]map[string]lipgloss.Color{
	StatusInvoice: {
		"pending":   colorPending,
		"paid":      colorGood,
		"closed":    colorMuted,
		"cancelled": colorBad,
		"completed": colorGood,
	},
	StatusPayment: {
		"paid":    colorGood,
		"partial": colorPending,
		"unpaid":  colorBad,
		"overdue": colorBad,
	},
	StatusOrder: {
		"pending":    colorPending,
		"processing": colorInfo,
		"shipped":    colorInfo,
		"complete":   colorGood,
		"completed":  colorGood,
		"delivered":  colorGood,
		"cancelled":  colorBad,
	},
	StatusDiscrepancy: {
		"pending":  colorPending,
		"approved": colorGood,
		"rejected": colorBad,
	},
	StatusFetch: {
		"in_progress": colorInfo,
		"completed":   colorGood,
		"failed":      colorBad,
	},
	StatusUser: {
		"active":   colorGood,
		"inactive": colorMuted,
		"admin":    colorPending,
		"employee": colorInfo,
	},
}

// StatusStyle returns the style for status within domain. Unknown statuses
// render muted.
func StatusStyle(domain StatusDomain, status string) lipgloss.Style {
	c, ok := statusColors[domain][strings.ToLower(strings.TrimSpace(status))]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Foreground(c)
}

// statusBadge renders status in its domain color.
func statusBadge(domain StatusDomain, status string) string {
	if status == "" {
		status = "unknown"
	}
	return StatusStyle(domain, status).Render(status)
}

// statusCell renders status padded to width, for table columns.
func statusCell(domain StatusDomain, status string, width int) string {
	if status == "" {
		status = "unknown"
	}
	return StatusStyle(domain, status).Render(padRight(status, width))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs into one help line.
func helpBar(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

// helpItems returns the web portal links for the help overlay.
func helpItems(webURL string) []helpItem {
	if webURL == "" {
		return nil
	}
	return []helpItem{
		{"Web portal", webURL, webURL},
		{"Invoices", webURL + "/invoices", webURL + "/invoices"},
		{"Reports", webURL + "/reports", webURL + "/reports"},
	}
}

// helpView renders the interactive help overlay with a cursor.
func helpView(items []helpItem, cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f5b83d")).
		Bold(true).
		Render("S T O C K R O O M")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5b83d"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"stockroom", "Open the inventory dashboard"},
		{"stockroom login", "Sign in from the command line"},
		{"stockroom logout", "End the session (--forget wipes saved login)"},
		{"stockroom whoami", "Show the signed-in account"},
		{"stockroom version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	if len(items) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
		for i, item := range items {
			label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix := "    "
			if i == cursor {
				label = selStyle.Render(fmt.Sprintf("%-20s", item.label))
				prefix = "  > "
			}
			fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
		}
	}
	return b.String()
}
