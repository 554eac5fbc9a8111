package emulator

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/pihole-sense/internal/input"
	"github.com/j-veylop/pihole-sense/internal/matrix"
)

// Emulator runs the terminal HAT. It is a matrix.Panel and an input.Source.
type Emulator struct {
	program *tea.Program
	queue   input.Queue
}

// New creates an emulator. Options are passed to the Bubble Tea program.
func New(opts ...tea.ProgramOption) *Emulator {
	e := &Emulator{}
	e.program = tea.NewProgram(NewModel(&e.queue), opts...)
	return e
}

// Run blocks until the program exits.
func (e *Emulator) Run() error {
	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("emulator failed: %w", err)
	}
	return nil
}

// Flush shows g on screen.
func (e *Emulator) Flush(g matrix.Grid, lowLight bool) error {
	e.program.Send(FrameMsg{Grid: g, LowLight: lowLight})
	return nil
}

// SetStatus replaces the status line.
func (e *Emulator) SetStatus(s string) {
	e.program.Send(StatusMsg(s))
}

// PollEvents returns the key presses since the last call as joystick events.
func (e *Emulator) PollEvents() []input.Event {
	return e.queue.PollEvents()
}

// Quit stops the program.
func (e *Emulator) Quit() {
	e.program.Quit()
}
