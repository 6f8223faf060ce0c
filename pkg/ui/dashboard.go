package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/statdash/pkg/dimension"
	"github.com/Dicklesworthstone/statdash/pkg/model"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

// DefaultRefreshDelay is how long the simulated refresh spinner shows.
const DefaultRefreshDelay = 800 * time.Millisecond

// statusTTL is how long a status message stays in the footer.
const statusTTL = 3 * time.Second

// ReloadMsg carries a freshly loaded dashboard into the update loop. It is
// produced by the refresh key and by the dashboard file watcher.
type ReloadMsg struct {
	Dashboard *model.Dashboard
	Err       error
	Manual    bool
}

type clearStatusMsg struct {
	seq int
}

// Options configures a dashboard Model.
type Options struct {
	Engine    *responsive.Engine
	Source    *dimension.Source
	Metrics   dimension.CellMetrics
	Dashboard *model.Dashboard

	// Reload fetches the dashboard again for a refresh. Nil re-shows the current data.
	Reload func() (*model.Dashboard, error)
	// Copy writes to the clipboard. Nil uses the system clipboard.
	Copy func(string) error

	Theme        *Theme
	Logger       *zap.Logger
	RefreshDelay time.Duration
	// Context bounds the viewport subscription; nil means until Close.
	Context context.Context
}

// Model is the dashboard screen: header, stat card grid and quick actions.
type Model struct {
	engine  *responsive.Engine
	source  *dimension.Source
	metrics dimension.CellMetrics
	sub     *responsive.Subscription
	log     *zap.Logger
	theme   Theme

	dash   *model.Dashboard
	reload func() (*model.Dashboard, error)
	copy   func(string) error
	delay  time.Duration

	cols, rows int
	ready      bool
	layout     Layout
	passes     int

	focus     int
	filter    textinput.Model
	filtering bool
	actions   []model.QuickAction

	body viewport.Model
	help HelpOverlayModel

	refreshing bool
	status     string
	statusSeq  int
}

// NewModel creates the dashboard model and subscribes it to viewport changes.
func NewModel(opts Options) *Model {
	theme := DefaultTheme(nil)
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dash := opts.Dashboard
	if dash == nil {
		dash = &model.Dashboard{Title: "Dashboard"}
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	delay := opts.RefreshDelay
	if delay <= 0 {
		delay = DefaultRefreshDelay
	}

	ti := textinput.New()
	ti.Placeholder = "filter actions..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := &Model{
		engine:  opts.Engine,
		source:  opts.Source,
		metrics: opts.Metrics,
		log:     log,
		theme:   theme,
		dash:    dash,
		reload:  opts.Reload,
		copy:    copyFn,
		delay:   delay,
		filter:  ti,
		actions: dash.Actions,
		body:    viewport.New(0, 0),
		help:    NewHelpOverlayModel(theme),
	}
	m.help.SetNotes(dash.Notes)

	onChange := func(v responsive.Viewport) {
		m.log.Debug("Viewport changed", zap.Stringer("viewport", v))
		m.relayout()
	}
	if opts.Context != nil {
		m.sub = m.engine.SubscribeContext(opts.Context, onChange)
	} else {
		m.sub = m.engine.Subscribe(onChange)
	}
	return m
}

// Close releases the viewport subscription.
func (m *Model) Close() {
	m.sub.Unsubscribe()
}

// Layout returns the current layout.
func (m *Model) Layout() Layout { return m.layout }

// Focus returns the index of the focused card, -1 without cards.
func (m *Model) Focus() int {
	if len(m.dash.Cards) == 0 {
		return -1
	}
	return m.focus
}

// Status returns the footer status message.
func (m *Model) Status() string { return m.status }

// Dashboard returns the dashboard being shown.
func (m *Model) Dashboard() *model.Dashboard { return m.dash }

// VisibleActions returns the quick actions after filtering.
func (m *Model) VisibleActions() []model.QuickAction { return m.actions }

// LayoutPasses returns how many times the layout was recomputed.
func (m *Model) LayoutPasses() int { return m.passes }

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.ready = true
		m.help.SetSize(msg.Width, msg.Height)
		// a changed viewport relayouts through the subscription; an equal one
		// still needs the new cell size applied
		if !m.source.Set(m.metrics.ToViewport(msg.Width, msg.Height)) {
			m.relayout()
		}
		return m, nil

	case ReloadMsg:
		return m, m.applyReload(msg)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.help.IsVisible() {
			m.help, _ = m.help.Update(msg)
			return m, nil
		}
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	cols := m.layout.Columns
	n := len(m.dash.Cards)

	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "?":
		m.help.Toggle()
		return nil
	case "left", "h":
		m.moveFocus(CardAt(m.focus, -1, 0, cols, n))
	case "right", "l":
		m.moveFocus(CardAt(m.focus, 1, 0, cols, n))
	case "up", "k":
		m.moveFocus(CardAt(m.focus, 0, -1, cols, n))
	case "down", "j":
		m.moveFocus(CardAt(m.focus, 0, 1, cols, n))
	case "g", "home":
		m.moveFocus(0)
	case "G", "end":
		m.moveFocus(n - 1)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		return cmd
	case "/":
		m.filtering = true
		return m.filter.Focus()
	case "y":
		return m.copyFocused()
	case "r":
		return m.startRefresh()
	default:
		if a, ok := m.actionForKey(msg.String()); ok {
			return m.trigger(a)
		}
	}
	return nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.actions = m.dash.Actions
		m.renderBody()
		return nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.renderBody()
		if len(m.actions) > 0 {
			return m.trigger(m.actions[0])
		}
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.actions = FilterActions(m.dash.Actions, m.filter.Value())
	m.renderBody()
	return cmd
}

func (m *Model) actionForKey(key string) (model.QuickAction, bool) {
	for _, a := range m.actions {
		if a.Key != "" && a.Key == key {
			return a, true
		}
	}
	return model.QuickAction{}, false
}

func (m *Model) trigger(a model.QuickAction) tea.Cmd {
	m.log.Info("Quick action", zap.String("id", a.ID))
	return m.setStatus("▶ " + a.Label)
}

func (m *Model) moveFocus(i int) {
	if i < 0 || i >= len(m.dash.Cards) {
		return
	}
	m.focus = i
	m.renderBody()
	m.scrollToFocus()
}

func (m *Model) scrollToFocus() {
	top := (m.focus / max(1, m.layout.Columns)) * CardHeight
	switch {
	case top < m.body.YOffset:
		m.body.SetYOffset(top)
	case top+CardHeight > m.body.YOffset+m.body.Height:
		m.body.SetYOffset(top + CardHeight - m.body.Height)
	}
}

func (m *Model) copyFocused() tea.Cmd {
	if len(m.dash.Cards) == 0 {
		return nil
	}
	c := m.dash.Cards[m.focus]
	if err := m.copy(c.Display()); err != nil {
		m.log.Warn("Clipboard write failed", zap.Error(err))
		return m.setStatus("Copy failed: " + err.Error())
	}
	return m.setStatus(fmt.Sprintf("Copied %s", c.Title))
}

func (m *Model) startRefresh() tea.Cmd {
	if m.refreshing {
		return nil
	}
	m.refreshing = true
	reload := m.reload
	current := m.dash.Clone()
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		if reload == nil {
			return ReloadMsg{Dashboard: &current, Manual: true}
		}
		d, err := reload()
		return ReloadMsg{Dashboard: d, Err: err, Manual: true}
	})
}

func (m *Model) applyReload(msg ReloadMsg) tea.Cmd {
	if msg.Manual {
		m.refreshing = false
	}
	if msg.Err != nil {
		m.log.Warn("Dashboard reload failed", zap.Error(msg.Err))
		m.renderBody()
		return m.setStatus("Reload failed: " + msg.Err.Error())
	}
	if msg.Dashboard == nil {
		return nil
	}

	m.dash = msg.Dashboard
	m.help.SetNotes(m.dash.Notes)
	m.actions = FilterActions(m.dash.Actions, m.filter.Value())
	if m.focus >= len(m.dash.Cards) {
		m.focus = max(0, len(m.dash.Cards)-1)
	}
	m.renderBody()

	if msg.Manual {
		return m.setStatus("Refreshed")
	}
	return m.setStatus("Dashboard reloaded")
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// relayout recomputes the layout from a fresh engine snapshot.
func (m *Model) relayout() {
	if !m.ready {
		return
	}
	m.passes++
	m.layout = ComputeLayout(m.engine.Snapshot(), m.metrics, m.cols, m.rows)
	m.body.Width = m.cols
	m.body.Height = m.layout.ContentHeight()
	m.filter.Width = max(8, m.layout.ActionsWidth()-4)
	m.renderBody()
}

func (m *Model) renderBody() {
	if !m.ready {
		return
	}
	l := m.layout
	t := m.theme

	focus := -1
	if len(m.dash.Cards) > 0 {
		focus = m.focus
	}
	grid := RenderGrid(m.dash.Cards, l, focus, t)

	filter := ""
	if m.filtering || m.filter.Value() != "" {
		filter = m.filter.View()
	}
	actions := RenderActions(m.actions, l.ActionsWidth(), l.Compact, filter, t)

	var content string
	if l.ActionsBeside {
		panel := t.Renderer.NewStyle().Width(l.ActionsWidth()).Render(actions)
		content = lipgloss.JoinHorizontal(lipgloss.Top, grid, strings.Repeat(" ", l.Gutter), panel)
	} else {
		content = grid + "\n\n" + actions
	}

	m.body.SetContent(t.Renderer.NewStyle().PaddingLeft(l.Padding).Render(content))
}

// View implements tea.Model
func (m *Model) View() string {
	if !m.ready {
		return "Loading dashboard..."
	}
	if m.help.IsVisible() {
		return lipgloss.Place(m.cols, m.rows, lipgloss.Center, lipgloss.Center, m.help.View())
	}

	header := RenderHeader(m.dash, m.layout, m.refreshing, m.theme)
	return header + "\n" + m.body.View() + "\n" + m.footer()
}

func (m *Model) footer() string {
	t := m.theme
	if m.status != "" {
		return t.Renderer.NewStyle().Foreground(t.Info).Render(Truncate(m.status, m.cols))
	}
	hints := "←↓↑→ move · / filter · y copy · r refresh · ? help · q quit"
	if m.layout.Compact {
		hints = "? help · q quit"
	}
	return t.Renderer.NewStyle().Foreground(t.Muted).Render(Truncate(hints, m.cols))
}
