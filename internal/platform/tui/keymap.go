package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// KeyMap defines the key bindings for the game screen.
type KeyMap struct {
	Jump    key.Binding
	P1Up    key.Binding
	P1Down  key.Binding
	P1Left  key.Binding
	P1Right key.Binding
	P2Up    key.Binding
	P2Down  key.Binding
	P2Left  key.Binding
	P2Right key.Binding
	Pause   key.Binding
	Restart key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Shot    key.Binding
	Quit    key.Binding

	players int
	watch   bool
}

// NewKeyMap returns the bindings for a game with the given number of seats.
// With one seat the arrow keys also drive player 1; with two they drive
// player 2.
func NewKeyMap(players int, watch bool) KeyMap {
	k := KeyMap{
		Jump: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "jump"),
		),
		P1Up:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w/a/s/d", "move")),
		P1Down:  key.NewBinding(key.WithKeys("s")),
		P1Left:  key.NewBinding(key.WithKeys("a")),
		P1Right: key.NewBinding(key.WithKeys("d")),
		P2Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("arrows", "player 2")),
		P2Down:  key.NewBinding(key.WithKeys("down")),
		P2Left:  key.NewBinding(key.WithKeys("left")),
		P2Right: key.NewBinding(key.WithKeys("right")),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "speed"),
		),
		Slower: key.NewBinding(key.WithKeys("-", "_")),
		Shot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		players: players,
		watch:   watch,
	}
	if players < 2 {
		k.P1Up.SetKeys("w", "up")
		k.P1Down.SetKeys("s", "down")
		k.P1Left.SetKeys("a", "left")
		k.P1Right.SetKeys("d", "right")
		k.P2Up.SetEnabled(false)
		k.P2Down.SetEnabled(false)
		k.P2Left.SetEnabled(false)
		k.P2Right.SetEnabled(false)
	}
	if watch {
		for _, b := range []*key.Binding{&k.Jump, &k.P1Up, &k.P1Down, &k.P1Left, &k.P1Right,
			&k.P2Up, &k.P2Down, &k.P2Left, &k.P2Right, &k.Restart} {
			b.SetEnabled(false)
		}
	} else {
		k.Faster.SetEnabled(false)
		k.Slower.SetEnabled(false)
	}
	return k
}

// ShortHelp returns key bindings for the help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.P1Up, k.P2Up, k.Pause, k.Restart, k.Faster, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// MapKey translates a key message to a seat and a game action.
// ok is false when the key does not drive a player.
func (k KeyMap) MapKey(msg tea.KeyMsg) (id core.PlayerID, a core.Action, ok bool) {
	switch {
	case key.Matches(msg, k.Jump):
		return core.Player1, core.ActionJump, true
	case key.Matches(msg, k.P1Up):
		return core.Player1, core.ActionUp, true
	case key.Matches(msg, k.P1Down):
		return core.Player1, core.ActionDown, true
	case key.Matches(msg, k.P1Left):
		return core.Player1, core.ActionLeft, true
	case key.Matches(msg, k.P1Right):
		return core.Player1, core.ActionRight, true
	case key.Matches(msg, k.P2Up):
		return core.Player2, core.ActionUp, true
	case key.Matches(msg, k.P2Down):
		return core.Player2, core.ActionDown, true
	case key.Matches(msg, k.P2Left):
		return core.Player2, core.ActionLeft, true
	case key.Matches(msg, k.P2Right):
		return core.Player2, core.ActionRight, true
	}
	return 0, core.ActionNone, false
}
