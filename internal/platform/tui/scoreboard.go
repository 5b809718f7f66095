package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

const (
	achievementsMinWidth = 80 // below this the panel collapses to a count
	achievementsWidth    = 26
	scoreRowsLimit       = 100
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	unlockedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
)

// ScoreboardKeyMap holds the scoreboard bindings. It implements help.KeyMap.
type ScoreboardKeyMap struct {
	Scroll key.Binding
	Mode   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Mode, k.Back, k.Quit}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns the scoreboard bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Scroll: key.NewBinding(key.WithKeys("up", "k", "down", "j"), key.WithHelp("↑/↓", "scroll")),
		Mode:   key.NewBinding(key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"), key.WithHelp("tab/←/→", "mode")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows past runs, run statistics and achievements for
// each registered mode.
type ScoreboardModel struct {
	modes     []registry.GameInfo
	mode      int
	store     *storage.Store
	namespace func(gameID string) string

	scores   []storage.ScoreEntry
	stats    *storage.GameStats
	unlocked map[string]bool

	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel reads achievements from each mode's own namespace.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	return NewScoreboardModelFor(store, width, height, func(id string) string { return id })
}

// NewScoreboardModelFor maps a mode ID to the kv namespace holding its
// achievements, as per-user SSH sessions need.
func NewScoreboardModelFor(store *storage.Store, width, height int, namespace func(gameID string) string) ScoreboardModel {
	m := ScoreboardModel{
		modes:     registry.List(),
		store:     store,
		namespace: namespace,
		keys:      DefaultScoreboardKeyMap(),
		help:      help.New(),
		width:     width,
		height:    height,
	}
	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) wide() bool {
	return m.width >= achievementsMinWidth
}

func (m ScoreboardModel) newTable() table.Model {
	dateW := 14
	if room := m.width - 40; m.wide() && room-achievementsWidth > 14 {
		dateW = min(room-achievementsWidth, 20)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))

	return table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 7},
			{Title: "Level", Width: 8},
			{Title: "Date", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
		table.WithStyles(styles),
	)
}

// load refreshes everything shown for the selected mode. Read failures
// leave the board empty.
func (m *ScoreboardModel) load() {
	m.scores, m.stats, m.unlocked = nil, nil, map[string]bool{}
	if m.store != nil && len(m.modes) > 0 {
		id := m.modes[m.mode].ID
		if scores, err := m.store.TopScores(id, scoreRowsLimit); err == nil {
			m.scores = scores
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
		if got, err := flappy.LoadUnlocked(m.store.KV(m.namespace(id))); err == nil {
			for _, a := range got {
				m.unlocked[a.ID] = true
			}
		}
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprint(i + 1),
			fmt.Sprint(s.Score),
			s.Level,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// cycle moves the mode selection by delta, wrapping around.
func (m *ScoreboardModel) cycle(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.mode = (m.mode + delta + len(m.modes)) % len(m.modes)
	m.load()
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

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
		case key.Matches(msg, m.keys.Mode):
			switch msg.String() {
			case "shift+tab", "left", "h":
				m.cycle(-1)
			default:
				m.cycle(1)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if len(m.modes) > 0 {
		title = fmt.Sprintf("HIGH SCORES  %s", m.modeTabs())
	}

	var b strings.Builder
	b.WriteString(centerText(boardTitleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(boardDimStyle.Render(m.statsLine()), m.width))
	b.WriteString("\n\n")

	scores := boardBoxStyle.Render(m.tableView())
	if m.wide() {
		panel := boardBoxStyle.Width(achievementsWidth).Render(m.achievementsView())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, scores, "  ", panel))
	} else {
		b.WriteString(scores)
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Achievements %d/%d", len(m.unlocked), len(flappy.Achievements)))
	}

	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// modeTabs renders "< Title >" around the selected mode.
func (m ScoreboardModel) modeTabs() string {
	if len(m.modes) == 1 {
		return m.modes[0].Title
	}
	return "‹ " + m.modes[m.mode].Title + " ›"
}

func (m ScoreboardModel) tableView() string {
	if len(m.scores) == 0 {
		return boardDimStyle.Italic(true).Padding(2, 4).
			Render("No scores recorded yet.\nFly through a pipe to set one!")
	}
	return m.table.View()
}

func (m ScoreboardModel) achievementsView() string {
	var b strings.Builder
	b.WriteString("Achievements\n")
	for _, a := range flappy.Achievements {
		mark, style := "☆ ", boardDimStyle
		if m.unlocked[a.ID] {
			mark, style = "★ ", unlockedStyle
		}
		b.WriteString(style.Render(mark + a.Title))
		b.WriteString("\n")
		b.WriteString(boardDimStyle.Render("  " + a.Description))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// statsLine summarises the selected mode's run history.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return "no runs yet"
	}
	return fmt.Sprintf("%d runs · best %d · average %.1f",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore)
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// Unlocked reports whether the selected mode has achievement id.
func (m ScoreboardModel) Unlocked(id string) bool {
	return m.unlocked[id]
}

// RunScoreboard shows the scoreboard full screen and reports whether the
// user went back to the menu.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}

// centerText left-pads text to center it within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
