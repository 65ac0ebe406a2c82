// Package ui hosts the interactive terminal dashboard.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/nag/pkg/app"
	"tableflip.dev/nag/pkg/store"
	"tableflip.dev/nag/pkg/timeutil"
	"tableflip.dev/nag/pkg/view"
	"tableflip.dev/nag/pkg/visual"
)

type UI struct {
	Service *app.Service
}

func (u *UI) Do(ctx context.Context) error {
	if u.Service == nil || u.Service.Persistence == nil {
		return errors.New("can not start ui, no persistence")
	}

	events, err := u.Service.Watch(ctx)
	if err != nil {
		return err
	}

	m := &model{
		ctx:    ctx,
		svc:    u.Service,
		mapper: visual.NewMapper(u.Service.Resolver),
		events: events,
		sort:   view.SortSmart,
	}
	buckets, err := u.Service.Buckets(ctx)
	if err != nil {
		return err
	}
	m.buckets = buckets

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type entriesMsg struct {
	entries []view.Entry
	state   app.State
	err     error
}

type storeEventMsg store.Event

var sortCycle = []view.SortMode{view.SortSmart, view.SortDue, view.SortWeight, view.SortEntered}

type model struct {
	ctx    context.Context
	svc    *app.Service
	mapper *visual.Mapper
	events <-chan store.Event

	buckets    []string
	bucketIdx  int
	sort       view.SortMode
	allWindows bool

	entries []view.Entry
	state   app.State
	err     error
	width   int
	height  int
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.nextEvent())
}

func (m *model) refresh() tea.Cmd {
	return func() tea.Msg {
		recurring := view.NextOnly
		if m.allWindows {
			recurring = view.AllInWindow
		}
		entries, state, err := m.svc.Visible(m.ctx, view.Params{
			Bucket:    m.bucket(),
			Recurring: recurring,
		}, m.sort)
		return entriesMsg{entries: entries, state: state, err: err}
	}
}

func (m *model) nextEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return storeEventMsg(ev)
	}
}

func (m *model) bucket() string {
	if m.bucketIdx < 0 || m.bucketIdx >= len(m.buckets) {
		return ""
	}
	return m.buckets[m.bucketIdx]
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case entriesMsg:
		m.entries = msg.entries
		m.state = msg.state
		m.err = msg.err
		return m, nil

	case storeEventMsg:
		return m, tea.Batch(m.refresh(), m.nextEvent())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "right", "l", "tab":
			if len(m.buckets) > 0 {
				m.bucketIdx = (m.bucketIdx + 1) % len(m.buckets)
			}
			return m, m.refresh()
		case "left", "h", "shift+tab":
			if len(m.buckets) > 0 {
				m.bucketIdx = (m.bucketIdx + len(m.buckets) - 1) % len(m.buckets)
			}
			return m, m.refresh()
		case "s":
			for i, mode := range sortCycle {
				if mode == m.sort {
					m.sort = sortCycle[(i+1)%len(sortCycle)]
					break
				}
			}
			return m, m.refresh()
		case "a":
			m.allWindows = !m.allWindows
			return m, m.refresh()
		case "r":
			return m, m.refresh()
		}
	}
	return m, nil
}

const uiBarWidth = 16

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	activeTab   = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	helpLine    = "←/→ bucket   s sort   a windows   r refresh   q quit"
)

func (m *model) View() string {
	var b strings.Builder

	tabs := make([]string, 0, len(m.buckets))
	for i, name := range m.buckets {
		if i == m.bucketIdx {
			tabs = append(tabs, activeTab.Render(name))
		} else {
			tabs = append(tabs, inactiveTab.Render(name))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	now := timeutil.NowMillis()
	if len(m.entries) == 0 {
		b.WriteString(faintStyle.Render(" none"))
		b.WriteString("\n")
	}
	for _, e := range m.entries {
		b.WriteString(m.line(e, now))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("sort %s   rows %d   %s", m.sort, m.state.RowCount, helpLine)))
	return b.String()
}

func (m *model) line(e view.Entry, nowMillis int64) string {
	if e.TaskCount > 0 {
		return fmt.Sprintf("%s %s", titleStyle.Render(e.Nag.EffectiveProjectName()),
			faintStyle.Render(fmt.Sprintf("- %d tasks", e.TaskCount)))
	}

	v := m.mapper.Line(e.Nag, e.Window, nowMillis)
	filled := int(v.Fraction * uiBarWidth)
	if filled > uiBarWidth {
		filled = uiBarWidth
	}
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Progress.Hex()))
	rest := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Base.Hex()))
	bar := fill.Render(strings.Repeat("█", filled)) + rest.Render(strings.Repeat("░", uiBarWidth-filled))

	line := fmt.Sprintf("%s %s%s", bar, glyphPrefix(e.Nag.IconGlyph), e.Nag.WorkName)
	if marker := e.Nag.RecurringIndicator(); marker != "" {
		line += faintStyle.Render(" [" + marker + "]")
	}
	if push := visual.PushSummary(e.Nag); push != "" {
		line += faintStyle.Render(" [" + push + "]")
	}
	if v.TimeLabel != "" {
		line += fmt.Sprintf("  %s %s", v.TimeLabel, v.PercentLabel)
	}
	if e.Window != nil {
		line += faintStyle.Render("  due " + timeutil.FormatLocal(e.Window.DueMillis, m.svc.Resolver.Location()))
	}
	return line
}

func glyphPrefix(glyph string) string {
	if glyph == "" {
		return ""
	}
	return glyph + " "
}
