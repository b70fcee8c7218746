package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/segue/internal/core"
	serrors "github.com/tessro/segue/internal/errors"
	"github.com/tessro/segue/internal/library"
	"github.com/tessro/segue/internal/tui/components"
	"github.com/tessro/segue/internal/tui/styles"
)

// Player is what the UI drives.
type Player interface {
	core.Player
	ToggleSelect(row int) bool
	Library() *library.Library
	ClearLibrary()
}

// Panel represents which panel is focused
type Panel int

const (
	PanelLibrary Panel = iota
	PanelNowPlaying
	PanelQueue
	PanelHistory
	panelCount
)

const (
	volumeStep  = 5
	seekStep    = 10 * time.Second
	errorTTL    = 5 * time.Second
	maxFindRows = 10
)

// Model is the main TUI model
type Model struct {
	player      Player
	refreshRate time.Duration

	width        int
	height       int
	focusedPanel Panel

	// State
	state      core.PlaybackState
	tracks     []core.Track
	generation uint64
	loaded     bool

	// Components
	libraryView *components.Library
	nowPlaying  *components.NowPlaying
	queueView   *components.Queue
	historyView *components.History

	// Overlays
	showHelp bool

	// Find state
	showFind    bool
	findInput   textinput.Model
	findResults []int
	findCursor  int

	// Error handling
	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(p Player, refreshRate time.Duration) Model {
	ti := textinput.New()
	ti.Placeholder = "Find by title, album or file name..."
	ti.CharLimit = 100
	ti.Width = 50

	m := Model{
		player:       p,
		refreshRate:  refreshRate,
		focusedPanel: PanelLibrary,
		libraryView:  components.NewLibrary(),
		nowPlaying:   components.NewNowPlaying(),
		queueView:    components.NewQueue(),
		historyView:  components.NewHistory(),
		findInput:    ti,
	}
	m.refresh()
	return m
}

// Messages
type tickMsg time.Time

// actionMsg reports the outcome of a player call made off the UI loop.
type actionMsg struct{ err error }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// do runs fn as a command so slow calls (decoding a file) do not block
// rendering.
func do(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: fn()}
	}
}

// refresh pulls the playback state, and the track list if the library
// changed since the last refresh.
func (m *Model) refresh() {
	m.state = m.player.State()

	lib := m.player.Library()
	if gen := lib.Generation(); !m.loaded || gen != m.generation {
		m.tracks = lib.Tracks()
		m.generation = gen
		m.loaded = true
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.tick()
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
		if time.Now().After(m.errorExpiry) {
			m.lastError = nil
		}
		m.refresh()
		return m, m.tick()

	case actionMsg:
		if msg.err != nil {
			m.lastError = msg.err
			m.errorExpiry = time.Now().Add(errorTTL)
		}
		m.refresh()
		return m, nil
	}

	if m.showFind {
		var cmd tea.Cmd
		m.findInput, cmd = m.findInput.Update(msg)
		return m, cmd
	}
	return m, nil
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

	if m.showFind {
		return m.handleFindKeyPress(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showFind = true
		m.findInput.SetValue("")
		m.findInput.Focus()
		m.findResults = nil
		m.findCursor = 0
		return m, textinput.Blink

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	}

	// Playback controls
	p := m.player
	switch msg.String() {
	case " ":
		return m, do(p.Toggle)
	case "n":
		return m, do(p.Next)
	case "p":
		return m, do(p.Previous)
	case "s":
		return m, do(func() error { p.Stop(); return nil })
	case "+", "=":
		vol := min(m.state.Volume+volumeStep, 100)
		return m, do(func() error { p.SetVolume(vol); return nil })
	case "-":
		vol := max(m.state.Volume-volumeStep, 0)
		return m, do(func() error { p.SetVolume(vol); return nil })
	case "right", "l":
		pos := m.state.Progress + seekStep
		return m, do(func() error { return p.Seek(pos) })
	case "left", "h":
		pos := max(m.state.Progress-seekStep, 0)
		return m, do(func() error { return p.Seek(pos) })
	case "C":
		return m, do(func() error { p.ClearLibrary(); return nil })
	case "M":
		return m, do(func() error { p.ToggleMute(); return nil })
	case "m":
		return m, do(func() error { p.CycleMode(); return nil })
	}

	switch m.focusedPanel {
	case PanelLibrary:
		return m.handleLibraryKey(msg)
	case PanelQueue:
		switch msg.String() {
		case "j", "down":
			m.queueView.ScrollDown()
		case "k", "up":
			m.queueView.ScrollUp()
		}
	}
	return m, nil
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.tracks)
	lv := m.libraryView
	p := m.player

	switch msg.String() {
	case "j", "down":
		lv.Down(n)
	case "k", "up":
		lv.Up(n)
	case "g", "home":
		lv.MoveTo(0, n)
	case "G", "end":
		lv.MoveTo(n-1, n)
	case ".":
		if m.state.Row >= 0 {
			lv.MoveTo(m.state.Row, n)
		}
	case "enter":
		if n == 0 {
			return m, do(func() error { return serrors.ErrNoTracks })
		}
		row := lv.Cursor()
		return m, do(func() error { return p.PlayAt(row) })
	case "x":
		p.ToggleSelect(lv.Cursor())
		lv.Down(n)
	case "a":
		return m, do(func() error {
			if p.EnqueueSelected() == 0 {
				return fmt.Errorf("nothing queued: select tracks with x first")
			}
			return nil
		})
	}
	return m, nil
}

func (m Model) handleFindKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showFind = false
		m.findInput.Blur()
		return m, nil

	case "enter":
		if m.findCursor < len(m.findResults) {
			row := m.findResults[m.findCursor]
			m.showFind = false
			m.findInput.Blur()
			m.focusedPanel = PanelLibrary
			m.libraryView.MoveTo(row, len(m.tracks))
			p := m.player
			return m, do(func() error { return p.PlayAt(row) })
		}
		return m, nil

	case "up", "ctrl+p":
		if m.findCursor > 0 {
			m.findCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.findCursor < len(m.findResults)-1 {
			m.findCursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.findInput, cmd = m.findInput.Update(msg)
	m.findResults = m.player.Library().Find(m.findInput.Value())
	m.findCursor = min(m.findCursor, max(len(m.findResults)-1, 0))
	return m, cmd
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

	if m.showFind {
		return m.renderFind()
	}

	// Left: Library. Right: Now Playing, Up Next, History.
	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth
	bodyHeight := m.height - 1
	topHeight := bodyHeight * 40 / 100
	queueHeight := (bodyHeight - topHeight) / 2
	historyHeight := bodyHeight - topHeight - queueHeight

	rows := make([]components.LibraryRow, len(m.tracks))
	lib := m.player.Library()
	for i, t := range m.tracks {
		rows[i] = components.LibraryRow{
			Track:    t,
			Selected: lib.IsSelected(t.ID),
			Playing:  m.state.HasTrack() && m.state.Track.ID == t.ID,
		}
	}

	libraryView := m.libraryView.Render(rows, leftWidth-2, bodyHeight-2, m.focusedPanel == PanelLibrary)
	nowPlaying := m.nowPlaying.Render(&m.state, rightWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	queueView := m.queueView.Render(&m.state.Queue, m.state.Mode, rightWidth-2, queueHeight-2, m.focusedPanel == PanelQueue)
	historyView := m.historyView.Render(m.state.Recent, rightWidth-2, historyHeight-2, m.focusedPanel == PanelHistory)

	rightCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, queueView, historyView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, libraryView, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:find  space:play/pause  n/p:next/prev  x:select  a:queue  m:mode  tab:panel")

	if m.lastError != nil {
		status = styles.ErrorText.Render(serrors.Format(m.lastError))
		status = strings.ReplaceAll(status, "\n\n", "  ")
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Segue - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Find in library
  Tab          Next panel
  Shift+Tab    Previous panel

  Playback
  ────────
  Space        Play/Pause
  n            Next track
  p            Previous track
  s            Stop
  ←/h  →/l     Seek back/forward 10s
  m            Cycle mode (order, single, shuffle)
  +/=          Volume up
  -            Volume down
  M            Mute/unmute

  Library Panel
  ─────────────
  j/↓  k/↑     Move cursor
  g/G          Top/bottom
  .            Jump to playing track
  Enter        Play track
  x            Select/deselect track
  a            Queue selected tracks
  C            Clear library

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderFind() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Find"))
	b.WriteString("\n\n")
	b.WriteString(m.findInput.View())
	b.WriteString("\n\n")

	switch {
	case m.findInput.Value() == "":
	case len(m.findResults) == 0:
		b.WriteString(styles.Muted.Render("No matches"))
	default:
		start := max(m.findCursor-maxFindRows+1, 0)
		end := min(start+maxFindRows, len(m.findResults))
		lib := m.player.Library()
		for i := start; i < end; i++ {
			t, ok := lib.At(m.findResults[i])
			if !ok {
				continue
			}
			line := t.Title + " " + styles.Muted.Render(t.Album)
			if i == m.findCursor {
				b.WriteString(styles.Cursor.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if end < len(m.findResults) {
			b.WriteString(styles.Muted.Render(fmt.Sprintf("  ...and %d more", len(m.findResults)-end)))
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("↑/↓:nav  Enter:play  Esc:close"))

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

// Run starts the TUI application
func Run(p Player, refreshRate time.Duration, theme string) error {
	styles.SetTheme(theme)

	model := NewModel(p, refreshRate)
	prog := tea.NewProgram(model, tea.WithAltScreen())

	_, err := prog.Run()
	return err
}
