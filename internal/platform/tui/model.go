package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

// Mode selects who drives the environment.
type Mode int

const (
	ModePlay  Mode = iota // keyboard drives every seat
	ModeWatch             // a policy drives the environment's action space
)

// holdTicks is how long a key press keeps its action active. Terminals
// report repeats, not key-up events, so a press stands in for a short hold.
const holdTicks = 8

// Policy chooses an action for an observation.
type Policy func(obs core.Observation) core.Action

// Options configure a game screen.
type Options struct {
	Mode     Mode
	Policy   Policy         // required in ModeWatch
	Store    *storage.Store // optional; play scores are saved here
	Episodes int            // watch mode stops after this many episodes; 0 = forever
}

type heldKey struct {
	id core.PlayerID
	a  core.Action
}

// Model is the Bubble Tea model for playing or watching an environment.
type Model struct {
	env      registry.Environment
	playable registry.Playable
	opts     Options
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model

	held       map[heldKey]int
	tick       int
	obs        core.Observation
	last       core.StepResult
	reward     float64
	episode    int
	paused     bool
	scoreSaved bool
	restartIn  int
	err        error
	quitting   bool
}

// NewModel creates a game screen for env.
func NewModel(env registry.Environment, cfg core.RuntimeConfig, opts Options) (Model, error) {
	m := Model{
		env:    env,
		opts:   opts,
		config: cfg,
		help:   help.New(),
		held:   make(map[heldKey]int),
		screen: core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
	}

	players := 1
	switch opts.Mode {
	case ModePlay:
		p, ok := env.(registry.Playable)
		if !ok {
			return m, fmt.Errorf("tui: %s cannot be played by hand", env.ID())
		}
		m.playable = p
		players = p.Players()
	case ModeWatch:
		if opts.Policy == nil {
			return m, errors.New("tui: watch mode needs a policy")
		}
	}
	m.keys = NewKeyMap(players, opts.Mode == ModeWatch)
	m.obs = env.Reset()
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Shot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		if m.last.Done {
			m.reset()
		}
		return m, nil
	case key.Matches(msg, m.keys.Faster):
		m.config.TickRate = min(m.config.TickRate*2, 960)
		return m, nil
	case key.Matches(msg, m.keys.Slower):
		m.config.TickRate = max(m.config.TickRate/2, 1)
		return m, nil
	}

	if id, a, ok := m.keys.MapKey(msg); ok {
		m.held[heldKey{id, a}] = m.tick + holdTicks
	}
	return m, nil
}

// handleTick advances the simulation by one step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	next := tickCmd(m.config.TickRate)
	if m.paused {
		return m, next
	}

	if m.last.Done {
		if m.opts.Mode == ModeWatch {
			m.restartIn--
			if m.restartIn <= 0 {
				if m.opts.Episodes > 0 && m.episode >= m.opts.Episodes {
					m.quitting = true
					return m, tea.Quit
				}
				m.reset()
			}
		}
		return m, next
	}

	var (
		res core.StepResult
		err error
	)
	if m.opts.Mode == ModePlay {
		res, err = m.playable.Play(m.input())
	} else {
		res, err = m.env.Step(m.opts.Policy(m.obs))
	}
	if err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}

	m.tick++
	m.obs = res.Observation
	m.reward += res.Reward
	m.last = res

	if res.Done {
		m.episode++
		m.restartIn = m.config.TickRate
		if m.opts.Mode == ModePlay && m.opts.Store != nil && !m.scoreSaved {
			//nolint:errcheck // Best-effort save, the game continues regardless
			m.opts.Store.SaveScore(m.env.ID(), res.Score)
			m.scoreSaved = true
		}
	}

	return m, next
}

// input collects every action still held at the current tick.
func (m Model) input() core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	for k, until := range m.held {
		if until <= m.tick {
			delete(m.held, k)
			continue
		}
		in.Press(k.id, k.a)
	}
	return in
}

func (m *Model) reset() {
	m.obs = m.env.Reset()
	m.last = core.StepResult{}
	m.reward = 0
	m.scoreSaved = false
	clear(m.held)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.env.Render(m.screen)

	dir := filepath.Join(config.DataDir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.env.ID(), timestamp))

	//nolint:errcheck // Best-effort save, the game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.env.Render(m.screen)

	if m.opts.Mode == ModeWatch {
		status := fmt.Sprintf("episode %d  reward %.1f  %d ticks/s", m.episode+1, m.reward, m.config.TickRate)
		m.screen.DrawTextColored(2, m.screen.Height()-1, status, core.ColorHUD)
	}
	if m.paused {
		m.screen.DrawMessage("PAUSED", "press p to resume")
	}

	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error {
	return m.err
}

// Episodes returns the number of finished episodes.
func (m Model) Episodes() int {
	return m.episode
}

// Run starts the Bubble Tea program for env.
func Run(env registry.Environment, cfg core.RuntimeConfig, opts Options) error {
	model, err := NewModel(env, cfg, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
