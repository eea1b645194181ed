package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/stockroom/pkg/client"
	"github.com/naveenspark/stockroom/pkg/domain"
)

type historyModel struct {
	sess     Session
	interval time.Duration
	records  []domain.FetchRecord
	active   []domain.FetchRecord
	stats    domain.FetchSummary
	page     domain.Pagination
	cursor   int
	gen      int
	req      request
	loading  bool
	err      error
	width    int
	height   int
}

type historyLoadedMsg struct {
	req     request
	history *client.HistoryPage
	active  []domain.FetchRecord
	stats   *domain.FetchSummary
	err     error
}

// newHistoryModel starts at generation gen. A replacement model must start
// past its predecessor's generation or that model's ticks would match.
func newHistoryModel(s Session, interval time.Duration, gen int) historyModel {
	return historyModel{sess: s, interval: interval, gen: gen, loading: true}
}

// open loads the screen and starts a new poll loop.
func (m historyModel) open() (historyModel, tea.Cmd) {
	m.gen++
	m.loading = true
	m, load := m.load()
	return m, tea.Batch(load, poll(m.interval, viewHistory, m.gen))
}

// stop ends the poll loop. Ticks already scheduled carry the old generation.
func (m historyModel) stop() historyModel {
	m.gen++
	return m
}

// load fetches history, active fetches and statistics together. The screen
// only updates when all three succeed.
func (m historyModel) load() (historyModel, tea.Cmd) {
	m.req = newRequest()
	req := m.req
	p := client.HistoryParams{Page: client.Page{Limit: client.Int(pageSize)}}
	type result struct {
		history *client.HistoryPage
		active  []domain.FetchRecord
		stats   *domain.FetchSummary
	}
	return m, fetch(m.sess, func(ctx context.Context, c *client.Client) (result, error) {
		var r result
		svc := c.FetchHistory()
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			r.history, err = svc.History(ctx, p)
			return err
		})
		g.Go(func() error {
			var err error
			r.active, err = svc.ActiveFetches(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			r.stats, err = svc.Statistics(ctx, client.HistoryParams{})
			return err
		})
		return r, g.Wait()
	}, func(r result, err error) tea.Msg {
		return historyLoadedMsg{req: req, history: r.history, active: r.active, stats: r.stats, err: err}
	})
}

func (m historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.req != m.req {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.records = msg.history.Records
		m.page = msg.history.Pagination
		m.active = msg.active
		m.stats = *msg.stats
		if m.cursor >= len(m.records) {
			m.cursor = 0
		}
		return m, nil

	case pollMsg:
		if msg.screen != viewHistory || msg.gen != m.gen {
			return m, nil
		}
		var load tea.Cmd
		m, load = m.load()
		return m, tea.Batch(load, poll(m.interval, viewHistory, m.gen))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "r":
			m.loading = true
			return m.load()
		default:
			m.cursor = moveCursor(m.cursor, len(m.records), key)
		}
	}
	return m, nil
}

func (m historyModel) View() string {
	var b strings.Builder
	s := m.stats
	fmt.Fprintf(&b, "\n  %s %s  %s %s  %s %s  %s %s\n",
		dimStyle.Render("runs"), normalStyle.Render(fmt.Sprint(s.TotalFetches)),
		dimStyle.Render("ok"), okStyle.Render(fmt.Sprint(s.Successful)),
		dimStyle.Render("failed"), errorStyle.Render(fmt.Sprint(s.Failed)),
		dimStyle.Render("items"), goldStyle.Render(fmt.Sprint(s.TotalItemsFetched)))
	if s.AvgDurationMs > 0 {
		avg := time.Duration(s.AvgDurationMs * float64(time.Millisecond)).Round(time.Second)
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("avg duration"), normalStyle.Render(avg.String()))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("  " + errorStyle.Render("error: "+client.Message(m.err)) + "\n")
	}

	if len(m.active) > 0 {
		b.WriteString("  " + sectionHeaderStyle.Render("running now") + "\n")
		for _, r := range m.active {
			started := "-"
			if r.StartedAt != nil {
				started = formatTime(*r.StartedAt)
			}
			fmt.Fprintf(&b, "   %s %s %s\n",
				padRight(r.Source, 18),
				statusCell(StatusFetch, r.Status, 12),
				metaStyle.Render(started))
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + sectionHeaderStyle.Render("history") + "\n")
	switch {
	case m.loading && len(m.records) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case len(m.records) == 0:
		b.WriteString("  " + dimStyle.Render("no fetches yet") + "\n")
	default:
		start, end := visibleWindow(m.cursor, len(m.records), m.height-10-len(m.active))
		for i := start; i < end; i++ {
			r := m.records[i]
			dur := "-"
			if d := r.Duration(); d > 0 {
				dur = d.Round(time.Second).String()
			}
			line := fmt.Sprintf("%s%s %s %s %s %s",
				cursorPrefix(i == m.cursor),
				padRight(r.Source, 18),
				statusCell(StatusFetch, r.Status, 12),
				metaStyle.Render(padRight(formatDate(r.StartedAt), 12)),
				dimStyle.Render(padRight(dur, 8)),
				normalStyle.Render(fmt.Sprint(r.ItemsFetched)))
			if i == m.cursor {
				line = selectedRowBg.Render(line)
			}
			b.WriteString(line + "\n")
		}
		if r := m.records[m.cursor]; r.Error != "" {
			b.WriteString("\n  " + errorStyle.Render(truncStr(r.Error, 100)) + "\n")
		}
	}
	return b.String()
}
