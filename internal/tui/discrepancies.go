package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/stockroom/internal/validate"
	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

var discrepancyFilters = []string{
	domain.DiscrepancyPending,
	"",
	domain.DiscrepancyApproved,
	domain.DiscrepancyRejected,
}

type discrepanciesModel struct {
	sess      Session
	items     []domain.Discrepancy
	summary   *domain.DiscrepancySummary
	filter    int
	cursor    int
	rejecting bool
	reason    string
	confirm   confirmPrompt
	statusMsg string
	req       request
	loading   bool
	err       error
	width     int
	height    int
}

type discrepanciesLoadedMsg struct {
	req     request
	list    *client.DiscrepancyList
	summary *domain.DiscrepancySummary
	err     error
}

type discrepancyReviewedMsg struct {
	verb string
	err  error
}

func newDiscrepanciesModel(s Session) discrepanciesModel {
	return discrepanciesModel{sess: s, loading: true}
}

func (m discrepanciesModel) open() (discrepanciesModel, tea.Cmd) {
	m.req = newRequest()
	m.loading = true
	req := m.req
	p := client.DiscrepancyParams{
		Page:   client.Page{Limit: client.Int(pageSize)},
		Status: discrepancyFilters[m.filter],
	}
	type result struct {
		list    *client.DiscrepancyList
		summary *domain.DiscrepancySummary
	}
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (result, error) {
		var r result
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			r.list, err = c.Discrepancies().List(ctx, p)
			return err
		})
		g.Go(func() error {
			var err error
			r.summary, err = c.Discrepancies().Summary(ctx, client.DiscrepancyParams{})
			return err
		})
		return r, g.Wait()
	}, func(r result, err error) tea.Msg {
		return discrepanciesLoadedMsg{req: req, list: r.list, summary: r.summary, err: err}
	})
}

func (m discrepanciesModel) Update(msg tea.Msg) (discrepanciesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case discrepanciesLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.items = msg.list.Discrepancies
		m.summary = msg.summary
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case discrepancyReviewedMsg:
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
		if m.rejecting {
			return m.updateReason(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m discrepanciesModel) pending() (domain.Discrepancy, bool) {
	if m.cursor >= len(m.items) {
		return domain.Discrepancy{}, false
	}
	d := m.items[m.cursor]
	return d, d.Status == domain.DiscrepancyPending
}

func (m discrepanciesModel) updateList(msg tea.KeyMsg) (discrepanciesModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "f":
		m.filter = (m.filter + 1) % len(discrepancyFilters)
		m.cursor = 0
		return m.open()
	case "a":
		d, ok := m.pending()
		if !ok {
			return m, nil
		}
		discrepancyID := d.ID
		m.confirm = ask(fmt.Sprintf("approve %s on %s?", d.ItemName, d.InvoiceNumber),
			act(m.sess, func(ctx context.Context, c *client.Client) error {
				_, err := c.Discrepancies().Approve(ctx, discrepancyID)
				return err
			}, func(err error) tea.Msg {
				return discrepancyReviewedMsg{verb: "approved", err: err}
			}))
	case "x":
		if _, ok := m.pending(); ok {
			m.rejecting = true
			m.reason = ""
		}
	case "r":
		return m.open()
	default:
		m.cursor = moveCursor(m.cursor, len(m.items), key)
	}
	return m, nil
}

func (m discrepanciesModel) updateReason(msg tea.KeyMsg) (discrepanciesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.rejecting = false
		m.reason = ""
	case "enter":
		reason := strings.TrimSpace(m.reason)
		if err := validate.Struct(validate.RejectForm{Reason: reason}); err != nil {
			m.statusMsg = validate.First(err)
			return m, nil
		}
		d, ok := m.pending()
		m.rejecting = false
		m.reason = ""
		if !ok {
			return m, nil
		}
		discrepancyID := d.ID
		m.confirm = ask(fmt.Sprintf("reject %s on %s?", d.ItemName, d.InvoiceNumber),
			act(m.sess, func(ctx context.Context, c *client.Client) error {
				_, err := c.Discrepancies().Reject(ctx, discrepancyID, reason)
				return err
			}, func(err error) tea.Msg {
				return discrepancyReviewedMsg{verb: "rejected", err: err}
			}))
	default:
		m.reason = editRune(m.reason, msg.String())
	}
	return m, nil
}

func (m discrepanciesModel) editingInput() bool {
	return m.rejecting || m.confirm.active()
}

func (m discrepanciesModel) View() string {
	var b strings.Builder
	filter := discrepancyFilters[m.filter]
	if filter == "" {
		filter = "all"
	}
	fmt.Fprintf(&b, "\n  %s %s", sectionHeaderStyle.Render("status:"), accentStyle.Render(filter))
	if s := m.summary; s != nil {
		fmt.Fprintf(&b, "   %s %s  %s %s  %s %s",
			dimStyle.Render("pending"), StatusStyle(StatusDiscrepancy, "pending").Render(fmt.Sprint(s.Pending)),
			dimStyle.Render("approved"), StatusStyle(StatusDiscrepancy, "approved").Render(fmt.Sprint(s.Approved)),
			dimStyle.Render("rejected"), StatusStyle(StatusDiscrepancy, "rejected").Render(fmt.Sprint(s.Rejected)))
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString("  " + errorStyle.Render("error: "+client.Message(m.err)) + "\n")
	}
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("no discrepancies") + "\n")
	default:
		start, end := visibleWindow(m.cursor, len(m.items), m.height-8)
		for i := start; i < end; i++ {
			d := m.items[i]
			diff := d.Difference
			if diff == 0 {
				diff = d.ActualQuantity - d.ExpectedQuantity
			}
			diffStyle := okStyle
			if diff < 0 {
				diffStyle = errorStyle
			}
			line := fmt.Sprintf("%s%s %s %s %s %s",
				cursorPrefix(i == m.cursor),
				padRight(d.InvoiceNumber, 12),
				padRight(truncStr(d.ItemName, 28), 28),
				dimStyle.Render(padRight(formatQty(d.ExpectedQuantity)+" → "+formatQty(d.ActualQuantity), 14)),
				diffStyle.Render(padRight(fmt.Sprintf("%+g", diff), 7)),
				statusBadge(StatusDiscrepancy, d.Status))
			if i == m.cursor {
				line = selectedRowBg.Render(line)
			}
			b.WriteString(line + "\n")
		}
		if d := m.items[m.cursor]; d.Notes != "" || d.RejectReason != "" {
			b.WriteString("\n")
			if d.Notes != "" {
				b.WriteString("  " + metaStyle.Render("notes: "+d.Notes) + "\n")
			}
			if d.RejectReason != "" {
				b.WriteString("  " + metaStyle.Render("rejected: "+d.RejectReason) + "\n")
			}
		}
	}

	if m.rejecting {
		b.WriteString("\n  " + renderInput("reason: ", m.reason, "why is this rejected?", true, false) + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	if m.confirm.active() {
		b.WriteString("\n" + m.confirm.View() + "\n")
	}
	return b.String()
}
