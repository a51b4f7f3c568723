package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

const boardLimit = 100 // rows loaded per environment

// BoardView selects what the board lists.
type BoardView int

const (
	ViewRuns BoardView = iota
	ViewScores
)

// BoardKeyMap defines the key bindings for the board.
type BoardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextEnv key.Binding
	PrevEnv key.Binding
	Toggle  key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextEnv, k.PrevEnv, k.Toggle, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextEnv, k.PrevEnv},
		{k.Toggle, k.Quit},
	}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextEnv: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next env"),
		),
		PrevEnv: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev env"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "runs/scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// BoardModel browses recorded training runs and manual-play scores per
// environment.
type BoardModel struct {
	envs   []registry.Info
	cursor int
	view   BoardView
	store  *storage.Store
	runs   []storage.Run
	scores []storage.ScoreEntry
	err    error
	table  table.Model
	help   help.Model
	keys   BoardKeyMap
	width  int
	height int
	done   bool
}

// NewBoardModel creates a board starting on envID (or the first
// environment when envID is empty or unknown).
func NewBoardModel(store *storage.Store, envID string, view BoardView, width, height int) BoardModel {
	m := BoardModel{
		envs:   registry.List(),
		view:   view,
		store:  store,
		keys:   DefaultBoardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	for i, e := range m.envs {
		if e.ID == envID {
			m.cursor = i
		}
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *BoardModel) columns() []table.Column {
	if m.view == ViewScores {
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: 18},
		}
	}
	return []table.Column{
		{Title: "Run", Width: 10},
		{Title: "Episodes", Width: 9},
		{Title: "Mean", Width: 10},
		{Title: "Best", Width: 10},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 14},
	}
}

// createTable creates a new table with the columns of the current view.
func (m *BoardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
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

// load fetches rows for the selected environment.
func (m *BoardModel) load() {
	m.runs, m.scores, m.err = nil, nil, nil
	if m.store != nil && len(m.envs) > 0 {
		id := m.envs[m.cursor].ID
		if m.view == ViewScores {
			m.scores, m.err = m.store.TopScores(id, boardLimit)
		} else {
			m.runs, m.err = m.store.ListRuns(id, boardLimit)
		}
	}
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

func (m *BoardModel) rows() []table.Row {
	if m.view == ViewScores {
		rows := make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				fmt.Sprintf("%d", s.Score),
				s.CreatedAt.Format("Jan 02 15:04"),
			}
		}
		return rows
	}
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			r.ID[:min(8, len(r.ID))],
			fmt.Sprintf("%d", r.Episodes),
			fmt.Sprintf("%.2f", r.MeanReward),
			fmt.Sprintf("%.2f", r.BestReward),
			r.Duration.Round(100 * time.Millisecond).String(),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the board model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the board.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextEnv):
			if len(m.envs) > 0 {
				m.cursor = (m.cursor + 1) % len(m.envs)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevEnv):
			if len(m.envs) > 0 {
				m.cursor = (m.cursor - 1 + len(m.envs)) % len(m.envs)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			m.view = 1 - m.view
			m.table = m.createTable()
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(m.rows())
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the board.
func (m BoardModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "TRAINING RUNS"
	if m.view == ViewScores {
		title = "HIGH SCORES"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.envs))
	for i, e := range m.envs {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(e.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + e.Title + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.tableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// tableContent renders the table or an empty message.
func (m BoardModel) tableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render(m.err.Error())
	case m.store == nil:
		return emptyStyle.Render("No database configured.")
	case len(m.table.Rows()) == 0 && m.view == ViewScores:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	case len(m.table.Rows()) == 0:
		return emptyStyle.Render("No training runs recorded yet.\nRun `gym train` to add one.")
	}
	return m.table.View()
}

func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunBoard runs the board screen until the user quits.
func RunBoard(store *storage.Store, envID string, view BoardView, width, height int) error {
	p := tea.NewProgram(NewBoardModel(store, envID, view, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
