package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

// invoiceFilters is the status filter cycle; "" means all.
var invoiceFilters = []string{
	"",
	domain.InvoiceStatusPending,
	domain.InvoiceStatusPaid,
	domain.InvoiceStatusClosed,
	domain.InvoiceStatusCancelled,
}

type invoicesModel struct {
	sess      Session
	invoices  []domain.Invoice
	page      domain.Pagination
	stats     *domain.InvoiceStats
	filter    int
	pageNum   int
	cursor    int
	detail    *domain.Invoice
	confirm   confirmPrompt
	statusMsg string
	req       request
	loading   bool
	err       error
	width     int
	height    int
}

type invoicesLoadedMsg struct {
	req   request
	list  *client.InvoiceList
	stats *domain.InvoiceStats
	err   error
}

type invoiceDetailMsg struct {
	req     request
	invoice *domain.Invoice
	err     error
}

type invoiceChangedMsg struct {
	verb string
	err  error
}

type copyResultMsg struct {
	err error
}

func newInvoicesModel(s Session) invoicesModel {
	return invoicesModel{sess: s, pageNum: 1, loading: true}
}

func (m invoicesModel) open() (invoicesModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req := m.req
	p := client.InvoiceListParams{
		Page:   client.Page{Page: client.Int(m.pageNum), Limit: client.Int(pageSize)},
		Status: invoiceFilters[m.filter],
	}
	type result struct {
		list  *client.InvoiceList
		stats *domain.InvoiceStats
	}
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (result, error) {
		var r result
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			r.list, err = c.Invoices().List(ctx, p)
			return err
		})
		g.Go(func() error {
			var err error
			r.stats, err = c.Invoices().Stats(ctx)
			return err
		})
		return r, g.Wait()
	}, func(r result, err error) tea.Msg {
		return invoicesLoadedMsg{req: req, list: r.list, stats: r.stats, err: err}
	})
}

func (m invoicesModel) loadDetail(number string) (invoicesModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req := m.req
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (*domain.Invoice, error) {
		return c.Invoices().ByNumber(ctx, number)
	}, func(inv *domain.Invoice, err error) tea.Msg {
		return invoiceDetailMsg{req: req, invoice: inv, err: err}
	})
}

func (m invoicesModel) selected() (domain.Invoice, bool) {
	if m.detail != nil {
		return *m.detail, true
	}
	if m.cursor < len(m.invoices) {
		return m.invoices[m.cursor], true
	}
	return domain.Invoice{}, false
}

func (m invoicesModel) Update(msg tea.Msg) (invoicesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case invoicesLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.invoices = msg.list.Invoices
		m.page = msg.list.Pagination
		m.stats = msg.stats
		if m.cursor >= len(m.invoices) {
			m.cursor = 0
		}
		return m, nil

	case invoiceDetailMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.detail = msg.invoice
		}
		return m, nil

	case invoiceChangedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("%s failed: %s", msg.verb, client.Message(msg.err))
			return m, nil
		}
		m.statusMsg = msg.verb + "!"
		m.detail = nil
		return m.open()

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

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
		if m.detail != nil {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m invoicesModel) updateList(msg tea.KeyMsg) (invoicesModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "enter":
		if inv, ok := m.selected(); ok {
			return m.loadDetail(inv.InvoiceNumber)
		}
	case "f":
		m.filter = (m.filter + 1) % len(invoiceFilters)
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
	case "c", "m", "d":
		return m.updateAction(key)
	default:
		m.cursor = moveCursor(m.cursor, len(m.invoices), key)
	}
	return m, nil
}

func (m invoicesModel) updateDetail(msg tea.KeyMsg) (invoicesModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc", "backspace":
		m.detail = nil
		m.req = request{}
		m.loading = false
	case "c", "m", "d":
		return m.updateAction(key)
	}
	return m, nil
}

// updateAction handles the keys shared by the list and the detail view.
func (m invoicesModel) updateAction(key string) (invoicesModel, tea.Cmd) {
	inv, ok := m.selected()
	if !ok {
		return m, nil
	}
	switch key {
	case "c":
		number := inv.InvoiceNumber
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(number)}
		}
	case "m":
		if inv.Status == domain.InvoiceStatusPaid {
			return m, nil
		}
		invoiceID := inv.ID
		m.confirm = ask(fmt.Sprintf("mark %s as paid?", inv.InvoiceNumber),
			act(m.sess, func(ctx context.Context, c *client.Client) error {
				_, err := c.Invoices().UpdateStatus(ctx, invoiceID, domain.InvoiceStatusPaid)
				return err
			}, func(err error) tea.Msg {
				return invoiceChangedMsg{verb: "marked paid", err: err}
			}))
	case "d":
		invoiceID := inv.ID
		m.confirm = ask(fmt.Sprintf("delete invoice %s?", inv.InvoiceNumber),
			act(m.sess, func(ctx context.Context, c *client.Client) error {
				return c.Invoices().Delete(ctx, invoiceID)
			}, func(err error) tea.Msg {
				return invoiceChangedMsg{verb: "deleted", err: err}
			}))
	}
	return m, nil
}

func (m invoicesModel) View() string {
	if m.detail != nil {
		return m.viewDetail()
	}
	var b strings.Builder
	b.WriteString("\n")
	filter := invoiceFilters[m.filter]
	if filter == "" {
		filter = "all"
	}
	fmt.Fprintf(&b, "  %s %s", sectionHeaderStyle.Render("status:"), accentStyle.Render(filter))
	if m.stats != nil {
		fmt.Fprintf(&b, "   %s %s  %s %s  %s %s",
			dimStyle.Render("total"), normalStyle.Render(fmt.Sprint(m.stats.Total)),
			dimStyle.Render("pending"), StatusStyle(StatusInvoice, "pending").Render(fmt.Sprint(m.stats.Pending)),
			dimStyle.Render("amount"), goldStyle.Render(formatMoney(m.stats.TotalAmount)))
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString("  " + errorStyle.Render("error: "+client.Message(m.err)) + "\n")
	}
	switch {
	case m.loading && len(m.invoices) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case len(m.invoices) == 0:
		b.WriteString("  " + dimStyle.Render("no invoices") + "\n")
	default:
		start, end := visibleWindow(m.cursor, len(m.invoices), m.height-6)
		for i := start; i < end; i++ {
			inv := m.invoices[i]
			line := fmt.Sprintf("%s%s %s %s %s %s",
				cursorPrefix(i == m.cursor),
				padRight(inv.InvoiceNumber, 12),
				metaStyle.Render(padRight(formatDate(inv.InvoiceDate), 12)),
				padRight(truncStr(inv.Customer.Name, 28), 28),
				statusCell(StatusInvoice, inv.Status, 10),
				goldStyle.Render(formatMoney(inv.Total)))
			if i == m.cursor {
				line = selectedRowBg.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if m.page.Pages > 1 {
		fmt.Fprintf(&b, "\n  %s\n", metaStyle.Render(fmt.Sprintf("page %d of %d", m.page.Page, m.page.Pages)))
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	if m.confirm.active() {
		b.WriteString("\n" + m.confirm.View() + "\n")
	}
	return b.String()
}

func (m invoicesModel) viewDetail() string {
	inv := m.detail
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s", accentStyle.Render("Invoice "+inv.InvoiceNumber), statusBadge(StatusInvoice, inv.Status))
	if inv.PaymentStatus != "" {
		b.WriteString("  " + statusBadge(StatusPayment, inv.PaymentStatus))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("customer"), normalStyle.Render(inv.Customer.Name))
	if inv.Customer.Email != "" {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("email   "), normalStyle.Render(inv.Customer.Email))
	}
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("date    "), normalStyle.Render(formatDate(inv.InvoiceDate)))
	if inv.DueDate != nil {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("due     "), normalStyle.Render(formatDate(inv.DueDate)))
	}
	b.WriteString("\n")

	for _, ln := range inv.LineItems {
		fmt.Fprintf(&b, "   %s %s %s %s\n",
			padRight(truncStr(ln.Name, 32), 32),
			dimStyle.Render(padRight(ln.SKU, 14)),
			normalStyle.Render(padRight(formatQty(ln.Quantity), 8)),
			goldStyle.Render(formatMoney(ln.Amount)))
	}
	if len(inv.LineItems) == 0 {
		b.WriteString("   " + dimStyle.Render("no line items") + "\n")
	}

	b.WriteString("\n")
	if inv.Subtotal != 0 {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("subtotal"), normalStyle.Render(formatMoney(inv.Subtotal)))
	}
	if inv.Tax != 0 {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("tax     "), normalStyle.Render(formatMoney(inv.Tax)))
	}
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("total   "), goldStyle.Render(formatMoney(inv.Total)))
	if inv.Notes != "" {
		b.WriteString("\n  " + metaStyle.Render(inv.Notes) + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	if m.confirm.active() {
		b.WriteString("\n" + m.confirm.View() + "\n")
	}
	return b.String()
}
