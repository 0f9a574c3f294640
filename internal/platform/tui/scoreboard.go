package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-collapse/internal/registry"
	"github.com/vovakirdan/tui-collapse/internal/storage"
)

const (
	minWidthForDetail = 84  // Below this the run detail panel is hidden
	detailWidth       = 26  // Width of the run detail panel
	maxScores         = 100 // Max scores to load
)

var (
	sbTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	sbDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sbErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(1, 2)
	sbTabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	sbActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).Padding(0, 1)
	sbPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next variant"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("←", "prev variant"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the best runs of each variant. The selected run's
// seed is shown so the board can be replayed with --seed.
type ScoreboardModel struct {
	games     []registry.GameInfo
	current   int
	store     *storage.Store
	scores    []storage.ScoreEntry
	stats     *storage.GameStats
	err       error // Last load failure, shown instead of the table
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a scoreboard over every registered game.
// store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	if len(m.games) > 0 {
		m.load()
	}
	return m
}

func (m ScoreboardModel) showDetail() bool {
	return m.width >= minWidthForDetail
}

// newTable builds the score table sized to the current window.
func (m ScoreboardModel) newTable() table.Model {
	avail := m.width - 8 // Borders and margins
	if m.showDetail() {
		avail -= detailWidth + 4
	}
	dateW := min(max(avail-(5+8+6+6), 12), 18)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 5},
			{Title: "Score", Width: 8},
			{Title: "Block", Width: 6},
			{Title: "Moves", Width: 6},
			{Title: "Date", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Title, tabs, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads scores and stats of the current game into the table.
func (m *ScoreboardModel) load() {
	m.scores, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		id := m.games[m.current].ID
		m.scores, m.err = m.store.TopScores(id, maxScores)
		if m.err == nil {
			m.stats, m.err = m.store.GetGameStats(id)
		}
	}
	m.setRows()
}

func (m *ScoreboardModel) setRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.LargestBlock),
			fmt.Sprintf("%d", s.Moves),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// switchGame moves the variant cursor by delta, wrapping around.
func (m *ScoreboardModel) switchGame(delta int) {
	if len(m.games) == 0 {
		return
	}
	m.current = (m.current + delta + len(m.games)) % len(m.games)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextGame):
			m.switchGame(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			m.switchGame(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		cursor := m.table.Cursor()
		m.table = m.newTable()
		m.setRows()
		m.table.SetCursor(cursor)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(sbTitleStyle.Render("HIGH SCORES"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	body := sbPanelStyle.Render(m.tableContent())
	if m.showDetail() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", sbPanelStyle.Width(detailWidth).Render(m.detail()))
	}
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sbDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders one tab per variant, or just the current one when they do
// not fit.
func (m ScoreboardModel) tabs() string {
	if len(m.games) == 0 {
		return sbDimStyle.Render("No games registered")
	}
	parts := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.current {
			parts[i] = sbActiveStyle.Render(g.Title)
		} else {
			parts[i] = sbTabStyle.Render(g.Title)
		}
	}
	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = sbActiveStyle.Render("< " + m.games[m.current].Title + " >")
	}
	return line
}

// statsLine summarizes every recorded game of the selected variant.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	st := m.stats
	return sbDimStyle.Render(fmt.Sprintf(
		"Games %d  |  Avg %.0f  |  Biggest block %d  |  Last %s",
		st.GamesCount, st.AvgScore, st.LargestBlock, st.LastPlayed.Format("Jan 02"),
	))
}

func (m ScoreboardModel) tableContent() string {
	switch {
	case m.store == nil:
		return sbErrStyle.Render("Scores are not available:\nno database")
	case m.err != nil:
		return sbErrStyle.Render("Could not load scores:\n" + m.err.Error())
	case len(m.scores) == 0:
		return sbDimStyle.Italic(true).Padding(2, 4).
			Render("No scores recorded yet.\nClear some blocks to set one!")
	}
	return m.table.View()
}

// detail describes the selected run.
func (m ScoreboardModel) detail() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.scores) {
		return sbDimStyle.Render("No run selected")
	}
	s := m.scores[i]
	var b strings.Builder
	fmt.Fprintf(&b, "Run #%d\n\n", i+1)
	fmt.Fprintf(&b, "Score   %d\n", s.Score)
	fmt.Fprintf(&b, "Block   %d tiles\n", s.LargestBlock)
	fmt.Fprintf(&b, "Clears  %d\n", s.Moves)
	fmt.Fprintf(&b, "Played  %s\n\n", s.CreatedAt.Format("2006-01-02 15:04"))
	if s.Seed != 0 {
		b.WriteString(sbDimStyle.Render(fmt.Sprintf("Replay with\n--seed %d", s.Seed)))
	}
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
