package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

type inventorySource int

const (
	sourceCustomerConnect inventorySource = iota
	sourceRouteStar
)

func (s inventorySource) String() string {
	if s == sourceRouteStar {
		return "routestar sales"
	}
	return "customerconnect purchases"
}

type inventoryModel struct {
	sess     Session
	debounce time.Duration
	source   inventorySource
	items    []domain.GroupedItem
	expanded map[string]bool
	cursor   int
	search   string
	editing  bool
	seq      int
	req      request
	loading  bool
	err      error
	width    int
	height   int
}

type inventoryLoadedMsg struct {
	req   request
	items []domain.GroupedItem
	err   error
}

func newInventoryModel(s Session, debounce time.Duration) inventoryModel {
	return inventoryModel{
		sess:     s,
		debounce: debounce,
		expanded: map[string]bool{},
		loading:  true,
	}
}

func itemKey(it domain.GroupedItem) string {
	return it.Name + "\x00" + it.SKU
}

func (m inventoryModel) open() (inventoryModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req, source := m.req, m.source
	p := client.GroupedItemsParams{Search: m.search, Page: client.Page{Limit: client.Int(pageSize)}}
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) ([]domain.GroupedItem, error) {
		if source == sourceRouteStar {
			return c.RouteStarGroupedItems(ctx, p)
		}
		return c.GroupedItems(ctx, p)
	}, func(items []domain.GroupedItem, err error) tea.Msg {
		return inventoryLoadedMsg{req: req, items: items, err: err}
	})
}

func (m inventoryModel) Update(msg tea.Msg) (inventoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case inventoryLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.items = msg.items
		}
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case debounceMsg:
		if msg.screen != viewInventory || msg.seq != m.seq {
			return m, nil
		}
		return m.open()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m inventoryModel) updateSearch(msg tea.KeyMsg) (inventoryModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.seq++
		return m.open()
	case "esc":
		m.editing = false
		m.search = ""
		m.seq++
		return m.open()
	default:
		next := editRune(m.search, msg.String())
		if next == m.search {
			return m, nil
		}
		m.search = next
		m.seq++
		return m, debounce(m.debounce, viewInventory, m.seq)
	}
}

func (m inventoryModel) updateList(msg tea.KeyMsg) (inventoryModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "/":
		m.editing = true
	case "s":
		if m.source == sourceCustomerConnect {
			m.source = sourceRouteStar
		} else {
			m.source = sourceCustomerConnect
		}
		m.cursor = 0
		m.expanded = map[string]bool{}
		return m.open()
	case "enter", " ":
		if m.cursor < len(m.items) {
			k := itemKey(m.items[m.cursor])
			m.expanded[k] = !m.expanded[k]
		}
	case "x":
		m.expanded = map[string]bool{}
	case "r":
		return m.open()
	default:
		m.cursor = moveCursor(m.cursor, len(m.items), key)
	}
	return m, nil
}

func (m inventoryModel) editingInput() bool {
	return m.editing
}

func (m inventoryModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s %s\n", sectionHeaderStyle.Render("source:"), accentStyle.Render(m.source.String()))
	switch {
	case m.editing:
		b.WriteString("  " + renderInput("/ ", m.search, "", true, false) + "\n")
	case m.search != "":
		b.WriteString("  " + searchStyle.Render("/ "+m.search) + "\n")
	default:
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("  " + errorStyle.Render("error: "+client.Message(m.err)) + "\n")
	}
	if m.loading && len(m.items) == 0 {
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if len(m.items) == 0 {
		b.WriteString("  " + dimStyle.Render("no items") + "\n")
		return b.String()
	}

	start, end := visibleWindow(m.cursor, len(m.items), m.height-4)
	for i := start; i < end; i++ {
		it := m.items[i]
		marker := "+"
		if m.expanded[itemKey(it)] {
			marker = "-"
		}
		line := fmt.Sprintf("%s%s %s %s %s",
			cursorPrefix(i == m.cursor),
			dimStyle.Render(marker),
			padRight(it.Name, 34),
			padRight(it.SKU, 14),
			padRight(formatQty(it.TotalQuantity), 8))
		if it.TotalValue != 0 {
			line += goldStyle.Render(formatMoney(it.TotalValue))
		}
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")

		if m.expanded[itemKey(it)] {
			if len(it.Items) == 0 {
				b.WriteString("       " + metaStyle.Render("no lines") + "\n")
			}
			for _, ln := range it.Items {
				fmt.Fprintf(&b, "       %s %s %s %s\n",
					metaStyle.Render(formatDate(ln.Date)),
					dimStyle.Render(padRight(ln.OrderNumber, 14)),
					normalStyle.Render(padRight(formatQty(ln.Quantity), 8)),
					dimStyle.Render(truncStr(ln.Description, 30)))
			}
		}
	}
	return b.String()
}
