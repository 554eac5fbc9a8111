package emulator

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/pihole-sense/internal/input"
)

// KeyMap defines the keyboard stand-ins for the joystick.
type KeyMap struct {
	Up     key.Binding
	Right  key.Binding
	Down   key.Binding
	Left   key.Binding
	Middle key.Binding
	Hold   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w", "color mode")),
		Right:  key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d", "interval")),
		Down:   key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s", "low light")),
		Left:   key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a", "rotate")),
		Middle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "randomize")),
		Hold:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "hold middle (exit)")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Hold}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Right, k.Down, k.Left},
		{k.Middle, k.Hold, k.Help, k.Quit},
	}
}

// Events translates a key press into the joystick events a physical press
// would produce. Unbound keys yield nothing.
func (k KeyMap) Events(msg tea.KeyMsg) []input.Event {
	tap := func(d input.Direction) []input.Event {
		return []input.Event{{Direction: d, Action: input.Pressed}, {Direction: d, Action: input.Released}}
	}
	switch {
	case key.Matches(msg, k.Up):
		return tap(input.Up)
	case key.Matches(msg, k.Right):
		return tap(input.Right)
	case key.Matches(msg, k.Down):
		return tap(input.Down)
	case key.Matches(msg, k.Left):
		return tap(input.Left)
	case key.Matches(msg, k.Middle):
		return tap(input.Middle)
	case key.Matches(msg, k.Hold):
		return []input.Event{{Direction: input.Middle, Action: input.Pressed}, {Direction: input.Middle, Action: input.Held}}
	default:
		return nil
	}
}
