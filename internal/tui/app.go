// Package tui is the interactive smart-queue dashboard.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/cue/internal/core"
	"github.com/tessro/cue/internal/engine"
	"github.com/tessro/cue/internal/events"
	"github.com/tessro/cue/internal/spotify/gateway"
	"github.com/tessro/cue/internal/tui/components"
	"github.com/tessro/cue/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelQueue Panel = iota
	PanelHistory
	PanelNowPlaying
)

const panelCount = 3

const (
	searchDebounce = 300 * time.Millisecond
	commandTimeout = 15 * time.Second
	errorDuration  = 5 * time.Second
)

// Controller is the engine surface the dashboard drives. *engine.Engine
// implements it.
type Controller interface {
	View(ctx context.Context) (engine.View, error)
	SkipNext(ctx context.Context) error
	SkipPrevious(ctx context.Context) error
	Add(ctx context.Context, tracks ...core.Track) (int, error)
	Remove(ctx context.Context, id string) (bool, error)
	Move(ctx context.Context, from, to int) (bool, error)
	TogglePending(ctx context.Context, id string) (bool, error)
	TogglePlay(ctx context.Context) error
	PlayQueue(ctx context.Context) error
	Subscribe(buffer int) (<-chan engine.Event, func())
}

var _ Controller = (*engine.Engine)(nil)

// Options configures the dashboard.
type Options struct {
	// Refresh is how often the view is re-read between engine events.
	Refresh time.Duration
	Theme   string
}

// Model is the main TUI model
type Model struct {
	ctrl      Controller
	searcher  core.Searcher
	events    <-chan engine.Event
	formatter *events.Formatter
	refresh   time.Duration

	width        int
	height       int
	focusedPanel Panel

	// State
	view       engine.View
	lastAction string

	// Components
	nowPlaying  *components.NowPlaying
	queueView   *components.Queue
	historyView *components.History

	// Overlays
	showHelp bool

	// Search state
	showSearch    bool
	searchInput   textinput.Model
	searchResults []core.Track
	searchCursor  int
	searching     bool
	lastQuery     string
	searchErr     error

	// Error handling
	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model. evs is a subscription to ctrl's events.
func NewModel(ctrl Controller, searcher core.Searcher, evs <-chan engine.Event, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tracks..."
	ti.CharLimit = 100
	ti.Width = 50

	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}

	return Model{
		ctrl:         ctrl,
		searcher:     searcher,
		events:       evs,
		formatter:    events.NewFormatter(events.WithEmoji(false)),
		refresh:      opts.Refresh,
		focusedPanel: PanelQueue,
		nowPlaying:   components.NewNowPlaying(),
		queueView:    components.NewQueue(),
		historyView:  components.NewHistory(),
		searchInput:  ti,
	}
}

// Messages
type tickMsg time.Time
type viewMsg engine.View
type eventMsg engine.Event
type eventsClosedMsg struct{}
type errMsg struct{ err error }
type actionDoneMsg struct {
	err error
	// cursor, when set, is where the queue cursor should land.
	cursor *int
}

type searchDebounceMsg struct{ query string }
type searchResultsMsg struct {
	query   string
	results []core.Track
	err     error
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchView() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		v, err := m.ctrl.View(ctx)
		if err != nil {
			return errMsg{err}
		}
		return viewMsg(v)
	}
}

func (m Model) listen() tea.Cmd {
	evs := m.events
	return func() tea.Msg {
		ev, ok := <-evs
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// action runs fn against the engine off the UI goroutine.
func (m Model) action(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return actionDoneMsg{err: fn(ctx)}
	}
}

func (m Model) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if query == "" {
			return searchResultsMsg{query: query}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		results, err := m.searcher.Search(ctx, query, gateway.DefaultSearchLimit)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.fetchView(), m.listen())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.expireError()
		return m, tea.Batch(m.tick(), m.fetchView())

	case viewMsg:
		m.view = engine.View(msg)
		m.queueView.Select(m.queueView.Selected(), len(m.view.Upcoming))
		return m, nil

	case eventMsg:
		ev := engine.Event(msg)
		if ev.Type == engine.EventSnapshot {
			m.view.Snapshot = ev.Snapshot
			return m, m.listen()
		}
		if line, ok := m.formatter.Format(ev); ok {
			m.lastAction = line
		}
		if ev.Type == engine.EventEnforcementFailed || ev.Type == engine.EventMirrorFailed {
			m.setError(ev.Err)
		}
		return m, tea.Batch(m.listen(), m.fetchView())

	case eventsClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case errMsg:
		if errors.Is(msg.err, engine.ErrStopped) {
			m.quitting = true
			return m, tea.Quit
		}
		m.setError(msg.err)
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		if msg.cursor != nil {
			m.queueView.Select(*msg.cursor, len(m.view.Upcoming))
		}
		return m, m.fetchView()

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}

	case searchResultsMsg:
		if msg.query != m.lastQuery {
			return m, nil
		}
		m.searching = false
		m.searchResults = msg.results
		m.searchErr = msg.err
		m.searchCursor = 0
		return m, nil
	}

	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorDuration)
}

func (m *Model) expireError() {
	if m.lastError != nil && time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor = 0
		m.lastQuery = ""
		m.searchErr = nil
		return m, textinput.Blink

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	}

	// Playback controls
	switch msg.String() {
	case " ":
		return m, m.action(m.ctrl.TogglePlay)
	case "n":
		return m, m.action(m.ctrl.SkipNext)
	case "p":
		return m, m.action(m.ctrl.SkipPrevious)
	case "P":
		return m, m.action(m.ctrl.PlayQueue)
	case "r":
		return m, m.fetchView()
	}

	if m.focusedPanel == PanelQueue {
		return m.handleQueueKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleQueueKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.view.Upcoming)
	sel := m.queueView.Selected()

	switch msg.String() {
	case "j", "down":
		m.queueView.SelectNext(n)
	case "k", "up":
		m.queueView.SelectPrev(n)
	case "g", "home":
		m.queueView.Select(0, n)
	case "G", "end":
		m.queueView.Select(n-1, n)
	case "J", "shift+down":
		if sel < n-1 {
			return m, m.move(sel, sel+1)
		}
	case "K", "shift+up":
		if sel > 0 && sel < n {
			return m, m.move(sel, sel-1)
		}
	case "x":
		if sel < n {
			id := m.view.Upcoming[sel].ID
			return m, m.action(func(ctx context.Context) error {
				_, err := m.ctrl.TogglePending(ctx, id)
				return err
			})
		}
	case "d", "delete":
		if sel < n {
			id := m.view.Upcoming[sel].ID
			return m, m.action(func(ctx context.Context) error {
				_, err := m.ctrl.Remove(ctx, id)
				return err
			})
		}
	}
	return m, nil
}

// move reorders the queue; the cursor follows the moved track.
func (m Model) move(from, to int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		ok, err := m.ctrl.Move(ctx, from, to)
		if err != nil || !ok {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{cursor: &to}
	}
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		if m.searchCursor < len(m.searchResults) {
			track := m.searchResults[m.searchCursor]
			m.showSearch = false
			m.searchInput.Blur()
			return m, m.action(func(ctx context.Context) error {
				_, err := m.ctrl.Add(ctx, track)
				return err
			})
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	cmds = append(cmds, inputCmd)

	if query := m.searchInput.Value(); query != m.lastQuery {
		cmds = append(cmds, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSearch {
		return m.renderSearch()
	}

	// Left: Now Playing (top), Up Next (bottom). Right: History.
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 1

	nowPlaying := m.nowPlaying.Render(m.view.Snapshot, m.view.State.String(),
		leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	queueView := m.queueView.Render(m.view.Upcoming, m.view.IsPending,
		leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	historyView := m.historyView.Render(m.view.History,
		rightWidth-2, m.height-3, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, queueView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, historyView)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:search  space:play/pause  n:next  p:prev  J/K:move  x:pending  d:remove")

	switch {
	case m.lastError != nil:
		status = styles.Error.Render("Error: " + m.lastError.Error())
	case m.lastAction != "":
		status = styles.Muted.Render(m.lastAction) + "   " + status
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Cue - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Search and add tracks
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh

  Playback
  ────────
  Space        Play/Pause
  n            Next in smart queue
  p            Back to previous track
  P            Play the smart queue from the top

  Up Next Panel
  ─────────────
  j/k, ↓/↑     Select
  g/G          First/last
  J/K          Move selected track down/up
  x            Toggle pending removal (skipped when reached)
  d            Remove now

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Add to queue"))
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch {
	case m.searchErr != nil:
		b.WriteString(styles.Error.Render("Error: " + m.searchErr.Error()))
	case m.searching:
		b.WriteString(styles.Muted.Render("Searching..."))
	case len(m.searchResults) == 0 && m.searchInput.Value() != "" && m.lastQuery != "":
		b.WriteString(styles.Muted.Render("No results found"))
	default:
		for i, t := range m.searchResults {
			line := t.Title + " " + styles.Muted.Render(t.ArtistLine())
			if i == m.searchCursor {
				b.WriteString(styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("↑/↓:nav  Enter:add  Esc:close"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the dashboard and blocks until the user quits, ctx is done or
// the engine stops.
func Run(ctx context.Context, ctrl Controller, searcher core.Searcher, opts Options) error {
	styles.SetTheme(opts.Theme)

	evs, unsubscribe := ctrl.Subscribe(0)
	defer unsubscribe()

	model := NewModel(ctrl, searcher, evs, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
