// Package emulator shows the LED matrix in a terminal and maps keys to
// joystick events, for running without the HAT.
package emulator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/pihole-sense/internal/input"
	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// FrameMsg carries a flushed frame to the model.
type FrameMsg struct {
	Grid     matrix.Grid
	LowLight bool
}

// StatusMsg replaces the status line.
type StatusMsg string

// cell is the terminal width of one LED.
const cell = "  "

// lowLightDivisor dims colors in low-light mode.
const lowLightDivisor = 3

// Model is the Bubble Tea model of the emulated HAT.
type Model struct {
	grid     matrix.Grid
	lowLight bool
	status   string
	lastKey  string

	keymap   KeyMap
	queue    *input.Queue
	width    int
	showHelp bool

	frame  lipgloss.Style
	title  lipgloss.Style
	subtle lipgloss.Style
}

// NewModel creates a model that pushes joystick events to queue.
func NewModel(queue *input.Queue) *Model {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	return &Model{
		keymap: DefaultKeyMap(),
		queue:  queue,
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1),
		title:  lipgloss.NewStyle().Bold(true).Foreground(highlight),
		subtle: lipgloss.NewStyle().Foreground(subtle),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles frames, status updates and key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.grid = msg.Grid
		m.lowLight = msg.LowLight
	case StatusMsg:
		m.status = string(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil
	}

	events := m.keymap.Events(msg)
	if len(events) == 0 {
		return nil
	}
	last := events[len(events)-1]
	m.lastKey = last.String()
	if m.queue != nil {
		m.queue.Push(events...)
	}
	return nil
}

// View renders the matrix, the status line and the help.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.title.Render("pihole-sense"))
	b.WriteString("\n")
	b.WriteString(m.frame.Render(m.renderGrid()))
	b.WriteString("\n")

	status := m.status
	if m.lastKey != "" {
		status = strings.TrimSpace(fmt.Sprintf("%s  [%s]", status, m.lastKey))
	}
	if m.lowLight {
		status = strings.TrimSpace(status + "  low light")
	}
	if m.width > 0 {
		status = ansi.Truncate(status, m.width, "…")
	}
	b.WriteString(m.subtle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m *Model) renderGrid() string {
	rows := make([]string, matrix.Size)
	for y := range matrix.Size {
		var row strings.Builder
		for x := range matrix.Size {
			c := m.grid[y][x]
			if m.lowLight {
				c = matrix.RGB{R: c.R / lowLightDivisor, G: c.G / lowLightDivisor, B: c.B / lowLightDivisor}
			}
			row.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(cell))
		}
		rows[y] = row.String()
	}
	return strings.Join(rows, "\n")
}

func (m *Model) helpView() string {
	var groups [][]key.Binding
	if m.showHelp {
		groups = m.keymap.FullHelp()
	} else {
		groups = [][]key.Binding{m.keymap.ShortHelp()}
	}

	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		parts := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			parts = append(parts, h.Key+" "+h.Desc)
		}
		lines = append(lines, m.subtle.Render(strings.Join(parts, " • ")))
	}
	return strings.Join(lines, "\n")
}

// Grid returns the frame on screen.
func (m *Model) Grid() matrix.Grid {
	return m.grid
}
