package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

type ordersModel struct {
	sess        Session
	orders      []domain.Order
	page        domain.Pagination
	pageNum     int
	unprocessed bool
	cursor      int
	detail      *domain.Order
	req         request
	loading     bool
	err         error
	width       int
	height      int
}

type ordersLoadedMsg struct {
	req  request
	list *client.OrderList
	err  error
}

type orderDetailMsg struct {
	req   request
	order *domain.Order
	err   error
}

func newOrdersModel(s Session) ordersModel {
	return ordersModel{sess: s, pageNum: 1, loading: true}
}

func (m ordersModel) params() client.OrderListParams {
	p := client.OrderListParams{
		Page: client.Page{Page: client.Int(m.pageNum), Limit: client.Int(pageSize)},
	}
	if m.unprocessed {
		p.StockProcessed = client.Bool(false)
	}
	return p
}

func (m ordersModel) open() (ordersModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req, p := m.req, m.params()
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (*client.OrderList, error) {
		return c.Orders().List(ctx, p)
	}, func(l *client.OrderList, err error) tea.Msg {
		return ordersLoadedMsg{req: req, list: l, err: err}
	})
}

func (m ordersModel) loadDetail(number string) (ordersModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req := m.req
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (*domain.Order, error) {
		return c.Orders().ByNumber(ctx, number)
	}, func(o *domain.Order, err error) tea.Msg {
		return orderDetailMsg{req: req, order: o, err: err}
	})
}

func (m ordersModel) Update(msg tea.Msg) (ordersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.orders = msg.list.Orders
		m.page = msg.list.Pagination
		if m.cursor >= len(m.orders) {
			m.cursor = 0
		}
		return m, nil

	case orderDetailMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.detail = msg.order
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			switch msg.String() {
			case "esc", "backspace":
				m.detail = nil
			}
			return m, nil
		}
		switch key := msg.String(); key {
		case "enter":
			if m.cursor < len(m.orders) {
				return m.loadDetail(m.orders[m.cursor].OrderNumber)
			}
		case "u":
			m.unprocessed = !m.unprocessed
			m.pageNum = 1
			m.cursor = 0
			return m.open()
		case "n":
			if m.page.HasNext() {
				m.pageNum++
				m.cursor = 0
				return m.open()
			}
		case "p":
			if m.pageNum > 1 {
				m.pageNum--
				m.cursor = 0
				return m.open()
			}
		case "r":
			return m.open()
		default:
			m.cursor = moveCursor(m.cursor, len(m.orders), key)
		}
	}
	return m, nil
}

func (m ordersModel) View() string {
	if m.detail != nil {
		return m.viewDetail()
	}
	var b strings.Builder
	scope := "all orders"
	if m.unprocessed {
		scope = "not yet in stock"
	}
	fmt.Fprintf(&b, "\n  %s %s\n\n", sectionHeaderStyle.Render("showing:"), accentStyle.Render(scope))

	if m.err != nil {
		b.WriteString("  " + errorStyle.Render("error: "+client.Message(m.err)) + "\n")
	}
	switch {
	case m.loading && len(m.orders) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case len(m.orders) == 0:
		b.WriteString("  " + dimStyle.Render("no orders") + "\n")
	default:
		start, end := visibleWindow(m.cursor, len(m.orders), m.height-6)
		for i := start; i < end; i++ {
			o := m.orders[i]
			stocked := metaStyle.Render("  ")
			if o.StockProcessed {
				stocked = okStyle.Render("✓ ")
			}
			line := fmt.Sprintf("%s%s%s %s %s %s %s",
				cursorPrefix(i == m.cursor),
				stocked,
				padRight(o.OrderNumber, 14),
				metaStyle.Render(padRight(formatDate(o.OrderDate), 12)),
				dimStyle.Render(padRight(truncStr(o.Vendor, 20), 20)),
				statusCell(StatusOrder, o.Status, 11),
				goldStyle.Render(formatMoney(o.Total)))
			if i == m.cursor {
				line = selectedRowBg.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	if m.page.Pages > 1 {
		fmt.Fprintf(&b, "\n  %s\n", metaStyle.Render(fmt.Sprintf("page %d of %d", m.page.Page, m.page.Pages)))
	}
	return b.String()
}

func (m ordersModel) viewDetail() string {
	o := m.detail
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n\n", accentStyle.Render("Order "+o.OrderNumber), statusBadge(StatusOrder, o.Status))
	if o.Vendor != "" {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("vendor"), normalStyle.Render(o.Vendor))
	}
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("date  "), normalStyle.Render(formatDate(o.OrderDate)))
	stock := "pending"
	if o.StockProcessed {
		stock = "processed"
	}
	fmt.Fprintf(&b, "  %s %s\n\n", dimStyle.Render("stock "), normalStyle.Render(stock))

	for _, ln := range o.Items {
		fmt.Fprintf(&b, "   %s %s %s %s\n",
			padRight(truncStr(ln.Name, 32), 32),
			dimStyle.Render(padRight(ln.SKU, 14)),
			normalStyle.Render(padRight(formatQty(ln.Quantity), 8)),
			goldStyle.Render(formatMoney(ln.LineTotal)))
	}
	if len(o.Items) == 0 {
		b.WriteString("   " + dimStyle.Render("no items") + "\n")
	}
	fmt.Fprintf(&b, "\n  %s %s\n", dimStyle.Render("total "), goldStyle.Render(formatMoney(o.Total)))
	return b.String()
}
