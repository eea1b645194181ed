package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

type stockModel struct {
	sess    Session
	summary *domain.StockSummary
	cursor  int
	req     request
	loading bool
	err     error

	// expanded category and its drill-down
	expanded  string
	skus      []domain.SKU
	sales     []domain.CategorySale
	detailReq request
	detailErr error

	width  int
	height int
}

type stockLoadedMsg struct {
	req     request
	summary *domain.StockSummary
	err     error
}

type stockCategoryMsg struct {
	req   request
	skus  []domain.SKU
	sales []domain.CategorySale
	err   error
}

func newStockModel(s Session) stockModel {
	return stockModel{sess: s, loading: true}
}

func (m stockModel) open() (stockModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req := m.req
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (*domain.StockSummary, error) {
		return c.Stock().Summary(ctx)
	}, func(s *domain.StockSummary, err error) tea.Msg {
		return stockLoadedMsg{req: req, summary: s, err: err}
	})
}

func (m stockModel) categories() []domain.StockCategory {
	if m.summary == nil {
		return nil
	}
	return m.summary.Categories
}

// expand loads SKUs and sales for category. Both calls must succeed for the
// drill-down to be shown.
func (m stockModel) expand(category string) (stockModel, tea.Cmd) {
	m.expanded = category
	m.skus, m.sales, m.detailErr = nil, nil, nil
	m.detailReq = newRequest()
	req := m.detailReq
	type result struct {
		skus  []domain.SKU
		sales []domain.CategorySale
	}
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (result, error) {
		var r result
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			r.skus, err = c.Stock().CategorySKUs(ctx, category)
			return err
		})
		g.Go(func() error {
			var err error
			r.sales, err = c.Stock().CategorySales(ctx, category, client.DateRange{})
			return err
		})
		return r, g.Wait()
	}, func(r result, err error) tea.Msg {
		return stockCategoryMsg{req: req, skus: r.skus, sales: r.sales, err: err}
	})
}

func (m stockModel) Update(msg tea.Msg) (stockModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stockLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.summary = msg.summary
		}
		if m.cursor >= len(m.categories()) {
			m.cursor = 0
		}
		return m, nil

	case stockCategoryMsg:
		if msg.req != m.detailReq {
			return m, nil
		}
		m.detailErr = msg.err
		if msg.err == nil {
			m.skus, m.sales = msg.skus, msg.sales
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		cats := m.categories()
		switch key := msg.String(); key {
		case "enter", " ":
			if m.cursor >= len(cats) {
				return m, nil
			}
			if cat := cats[m.cursor].Category; cat != m.expanded {
				return m.expand(cat)
			}
			m.expanded = ""
			m.detailReq = request{}
		case "esc":
			m.expanded = ""
			m.detailReq = request{}
		case "r":
			m.expanded = ""
			m.detailReq = request{}
			return m.open()
		default:
			m.cursor = moveCursor(m.cursor, len(cats), key)
		}
	}
	return m, nil
}

func (m stockModel) View() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString("  " + errorStyle.Render("error: "+client.Message(m.err)) + "\n")
	}
	cats := m.categories()
	if m.loading && len(cats) == 0 {
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if len(cats) == 0 {
		b.WriteString("  " + dimStyle.Render("no stock categories") + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "   %s %s %s %s %s\n",
		sectionHeaderStyle.Render(padRight("category", 28)),
		sectionHeaderStyle.Render(padRight("purchased", 10)),
		sectionHeaderStyle.Render(padRight("sold", 10)),
		sectionHeaderStyle.Render(padRight("on hand", 10)),
		sectionHeaderStyle.Render("skus"))

	for i, c := range cats {
		onHand := normalStyle
		if c.OnHand <= 0 {
			onHand = errorStyle
		}
		line := fmt.Sprintf("%s%s %s %s %s %s",
			cursorPrefix(i == m.cursor),
			padRight(c.Category, 28),
			dimStyle.Render(padRight(formatQty(c.TotalPurchased), 10)),
			dimStyle.Render(padRight(formatQty(c.TotalSold), 10)),
			onHand.Render(padRight(formatQty(c.OnHand), 10)),
			metaStyle.Render(fmt.Sprint(c.SKUCount)))
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
		if c.Category == m.expanded {
			b.WriteString(m.viewCategory())
		}
	}

	t := m.summary.Totals
	fmt.Fprintf(&b, "\n   %s %s %s %s\n",
		accentStyle.Render(padRight("total", 28)),
		normalStyle.Render(padRight(formatQty(t.TotalPurchased), 10)),
		normalStyle.Render(padRight(formatQty(t.TotalSold), 10)),
		goldStyle.Render(formatQty(t.OnHand)))
	return b.String()
}

func (m stockModel) viewCategory() string {
	var b strings.Builder
	switch {
	case m.detailErr != nil:
		b.WriteString("      " + errorStyle.Render("error: "+client.Message(m.detailErr)) + "\n")
		return b.String()
	case m.skus == nil && m.sales == nil:
		b.WriteString("      " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}

	b.WriteString("      " + sectionHeaderStyle.Render("models") + "\n")
	if len(m.skus) == 0 {
		b.WriteString("        " + metaStyle.Render("none") + "\n")
	}
	for _, s := range m.skus {
		fmt.Fprintf(&b, "        %s %s %s\n",
			padRight(s.SKU, 16),
			normalStyle.Render(padRight(formatQty(s.Purchased), 8)),
			metaStyle.Render(formatDate(s.LastOrdered)))
	}

	b.WriteString("      " + sectionHeaderStyle.Render("sales") + "\n")
	if len(m.sales) == 0 {
		b.WriteString("        " + metaStyle.Render("none") + "\n")
	}
	for _, s := range m.sales {
		fmt.Fprintf(&b, "        %s %s %s %s\n",
			metaStyle.Render(padRight(formatDate(s.Date), 11)),
			padRight(s.InvoiceNumber, 12),
			dimStyle.Render(padRight(truncStr(s.Customer, 24), 24)),
			normalStyle.Render(formatQty(s.Quantity)))
	}
	return b.String()
}
