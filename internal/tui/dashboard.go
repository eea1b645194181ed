package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

type dashboardModel struct {
	sess    Session
	data    *domain.Dashboard
	req     request
	loading bool
	err     error
	width   int
	height  int
}

type dashboardLoadedMsg struct {
	req  request
	data *domain.Dashboard
	err  error
}

func newDashboardModel(s Session) dashboardModel {
	return dashboardModel{sess: s, loading: true}
}

func (m dashboardModel) open() (dashboardModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req := m.req
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (*domain.Dashboard, error) {
		return c.Dashboard(ctx)
	}, func(d *domain.Dashboard, err error) tea.Msg {
		return dashboardLoadedMsg{req: req, data: d, err: err}
	})
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.data = msg.data
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m.open()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", errorStyle.Render("error: "+client.Message(m.err)))
	}
	if m.data == nil {
		if m.loading {
			b.WriteString("  " + dimStyle.Render("loading dashboard...") + "\n")
		}
		return b.String()
	}
	d := m.data

	tiles := []struct {
		label string
		value string
	}{
		{"invoices", fmt.Sprintf("%d", d.TotalInvoices)},
		{"pending", fmt.Sprintf("%d", d.PendingInvoices)},
		{"orders", fmt.Sprintf("%d", d.TotalOrders)},
		{"revenue", formatMoney(d.TotalRevenue)},
		{"low stock", fmt.Sprintf("%d", d.LowStockCount)},
		{"open discrepancies", fmt.Sprintf("%d", d.OpenDiscrepancies)},
	}
	for _, t := range tiles {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(padRight(t.label, 20)), selectedStyle.Render(t.value))
	}

	if len(d.TopItems) > 0 {
		b.WriteString("\n  " + sectionHeaderStyle.Render("top items") + "\n")
		for _, it := range d.TopItems {
			fmt.Fprintf(&b, "  %s %s %s\n",
				normalStyle.Render(padRight(it.ItemName, 32)),
				dimStyle.Render(padRight(formatQty(it.Quantity), 8)),
				goldStyle.Render(formatMoney(it.Revenue)))
		}
	}

	if len(d.RecentActivity) > 0 {
		b.WriteString("\n  " + sectionHeaderStyle.Render("recent activity") + "\n")
		for _, a := range d.RecentActivity {
			when := ""
			if a.Timestamp != nil {
				when = formatTime(*a.Timestamp)
			}
			fmt.Fprintf(&b, "  %s %s %s\n",
				metaStyle.Render(padRight(when, 9)),
				accentStyle.Render(padRight(a.Kind, 12)),
				normalStyle.Render(truncStr(a.Description, max(m.width-28, 20))))
		}
	}
	return b.String()
}
