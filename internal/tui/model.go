package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/tui/components"
	"github.com/evgengiga/dashbord/internal/tui/themes"
)

// State represents the current state of the TUI.
type State int

const (
	StateBoard State = iota
	StateJump
	StateHelp
)

// layout tracks the viewport class reported by the monitor subscription.
type layout struct {
	class   dashboard.ViewportClass
	changed bool
}

// target is one toggleable row.
type target struct {
	key  string
	item int
}

// Model holds the main TUI state.
type Model struct {
	theme       themes.Theme
	board       *dashboard.Board
	monitor     *dashboard.ViewportMonitor
	layout      *layout
	unsubscribe func()
	jump        components.JumpModel
	help        help.Model
	spinner     spinner.Model
	viewport    viewport.Model
	keymap      KeyMap
	config      Config
	offsets     []int
	focusKey    string
	focusItem   int
	cursorLine  int
	width       int
	height      int
	state       State
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	monitor := dashboard.NewViewportMonitor(dashboard.CellsToPixels(cfg.Width, cfg.CellWidth))
	l := &layout{class: monitor.Class()}
	unsubscribe := monitor.Subscribe(func(c dashboard.ViewportClass) {
		l.class = c
		l.changed = true
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	h := help.New()
	h.Width = cfg.Width

	return Model{
		theme:       cfg.Theme,
		board:       dashboard.NewBoard(cfg.Board, cfg.Filters),
		monitor:     monitor,
		layout:      l,
		unsubscribe: unsubscribe,
		help:        h,
		spinner:     s,
		viewport:    viewport.New(cfg.Width, bodyHeight(cfg.Height)),
		keymap:      DefaultKeyMap(),
		config:      cfg,
		cursorLine:  -1,
		width:       cfg.Width,
		height:      cfg.Height,
	}
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	filters := m.board.Filters()
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.fetch(filters, m.board.BeginFetch(filters)),
	}
	if m.config.Changes != nil {
		cmds = append(cmds, waitForChange(m.config.Changes))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchResultMsg:
		m.handleFetchResult(msg)
		return m, nil

	case payloadChangedMsg:
		slog.Debug("Payload changed, refreshing")
		return m, tea.Batch(m.startFetch(m.board.Filters()), waitForChange(m.config.Changes))

	case watchClosedMsg:
		slog.Debug("Payload watch closed")
		return m, nil

	case components.JumpSelectedMsg:
		m.state = StateBoard
		m.focus(msg.Index)
		return m, nil

	case components.JumpCanceledMsg:
		m.state = StateBoard
		return m, nil
	}

	if m.state == StateJump {
		var cmd tea.Cmd
		m.jump, cmd = m.jump.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == StateJump {
		var cmd tea.Cmd
		m.jump, cmd = m.jump.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		if m.state == StateHelp {
			m.state = StateBoard
		} else {
			m.state = StateHelp
		}
		return m, nil
	case key.Matches(msg, m.keymap.ClearScreen):
		return m, tea.ClearScreen
	}

	if m.state == StateHelp {
		if msg.Type == tea.KeyEsc {
			m.state = StateBoard
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Refresh):
		return m, m.refreshData()
	case key.Matches(msg, m.keymap.Period):
		return m, m.startFetch(m.board.Requested().NextPeriod())
	case key.Matches(msg, m.keymap.OrderStatus):
		return m, m.startFetch(m.board.Requested().NextOrderStatus())
	case key.Matches(msg, m.keymap.Theme):
		m.setTheme(m.theme.Toggle())
		return m, nil
	}

	if m.board.State() != dashboard.BoardReady || len(m.board.Tables()) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keymap.NextItem):
		m.focus((m.focusItem + 1) % len(m.board.Tables()))
	case key.Matches(msg, m.keymap.Toggle):
		m.toggle()
	case key.Matches(msg, m.keymap.Jump):
		m.jump = components.NewJumpModel(m.titles(), m.theme)
		m.state = StateJump
		return m, m.jump.Init()
	case key.Matches(msg, m.keymap.PageUp, m.keymap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) fetch(filters model.Filters, seq uint64) tea.Cmd {
	return fetchDashboard(m.config.Context, m.config.Fetcher, m.config.FetchTimeout, filters, seq)
}

func (m *Model) startFetch(filters model.Filters) tea.Cmd {
	seq := m.board.BeginFetch(filters)
	slog.Debug("Fetching dashboard", "filters", filters.Key(), "seq", seq)
	return m.fetch(filters, seq)
}

func (m *Model) refreshData() tea.Cmd {
	if m.board.State() == dashboard.BoardError {
		filters, seq := m.board.Retry()
		slog.Debug("Retrying dashboard fetch", "filters", filters.Key(), "seq", seq)
		return m.fetch(filters, seq)
	}
	return m.startFetch(m.board.Filters())
}

func (m *Model) handleFetchResult(msg fetchResultMsg) {
	if !m.board.Complete(msg.seq, msg.payload, msg.err) {
		slog.Debug("Dropping superseded dashboard response", "filters", msg.filters.Key(), "seq", msg.seq)
		return
	}

	if msg.err != nil {
		common.LogError(msg.err, "Dashboard fetch failed", common.Fields{"filters": msg.filters.Key()})
		m.rebuild()
		return
	}

	common.LogDebug("Dashboard loaded", common.Fields{
		"filters": msg.filters.Key(),
		"items":   len(msg.payload.Items),
		"stale":   msg.payload.Stale,
	})
	m.focus(m.focusItem)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.monitor.Resize(dashboard.CellsToPixels(width, m.config.CellWidth))
	if m.layout.changed {
		m.layout.changed = false
		slog.Debug("Viewport class changed", "class", m.layout.class, "width", width)
	}

	m.viewport.Width = width
	m.viewport.Height = bodyHeight(height)
	m.help.Width = width
	m.rebuild()
}

func (m *Model) setTheme(t themes.Theme) {
	m.theme = t
	m.spinner.Style = lipgloss.NewStyle().Foreground(t.Primary)
	if m.state == StateJump {
		m.jump = components.NewJumpModel(m.titles(), t)
	}
	m.rebuild()
}

// focus moves to item i and puts the cursor on its first toggleable row.
func (m *Model) focus(i int) {
	tables := m.board.Tables()
	m.focusKey = ""
	if len(tables) == 0 {
		m.focusItem = 0
		m.rebuild()
		return
	}

	m.focusItem = max(0, min(i, len(tables)-1))
	if keys := tables[m.focusItem].Render(m.layout.class).ToggleKeys(); len(keys) > 0 {
		m.focusKey = keys[0]
	}
	m.rebuild()
	m.scrollTo(m.offsets[m.focusItem])
}

func (m *Model) targets() []target {
	var out []target
	for i, r := range m.board.Tables() {
		for _, k := range r.Render(m.layout.class).ToggleKeys() {
			out = append(out, target{item: i, key: k})
		}
	}
	return out
}

func (m *Model) moveCursor(delta int) {
	ts := m.targets()
	if len(ts) == 0 {
		return
	}

	pos := -1
	for i, t := range ts {
		if t.item == m.focusItem && t.key == m.focusKey {
			pos = i
			break
		}
	}

	switch {
	case pos >= 0:
		pos = max(0, min(pos+delta, len(ts)-1))
	case delta > 0:
		pos = len(ts) - 1
		for i, t := range ts {
			if t.item > m.focusItem {
				pos = i
				break
			}
		}
	default:
		pos = 0
		for i, t := range ts {
			if t.item < m.focusItem {
				pos = i
			}
		}
	}

	m.focusItem, m.focusKey = ts[pos].item, ts[pos].key
	m.rebuild()
	m.scrollTo(m.cursorLine)
}

func (m *Model) toggle() {
	tables := m.board.Tables()
	if m.focusKey == "" || m.focusItem >= len(tables) {
		return
	}
	expanded := tables[m.focusItem].Toggle(m.focusKey)
	slog.Debug("Toggled group", "item", tables[m.focusItem].Item().ID, "key", m.focusKey, "expanded", expanded)
	m.rebuild()
	m.scrollTo(m.cursorLine)
}

// rebuild re-renders every table into the scrollable viewport.
func (m *Model) rebuild() {
	view := components.NewTableView(m.theme)
	tables := m.board.Tables()

	m.offsets = make([]int, len(tables))
	m.cursorLine = -1
	parts := make([]string, 0, len(tables))
	line := 0
	for i, r := range tables {
		focus := components.Focus{Active: i == m.focusItem, Key: m.focusKey}
		out, cursor := view.RenderWithCursor(r.Render(m.layout.class), focus)
		m.offsets[i] = line
		if cursor >= 0 {
			m.cursorLine = line + cursor
		}
		parts = append(parts, out)
		line += lipgloss.Height(out) + 1
	}
	m.viewport.SetContent(strings.Join(parts, "\n\n"))
}

// scrollTo brings line into view.
func (m *Model) scrollTo(line int) {
	if line < 0 {
		return
	}
	if line < m.viewport.YOffset || line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(max(line-1, 0))
	}
}

func (m *Model) titles() []string {
	tables := m.board.Tables()
	out := make([]string, len(tables))
	for i, r := range tables {
		out[i] = r.Item().Title
	}
	return out
}

// teardown releases the viewport subscription.
func (m *Model) teardown() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func bodyHeight(height int) int {
	return max(height-headerHeight-statusHeight, 1)
}
