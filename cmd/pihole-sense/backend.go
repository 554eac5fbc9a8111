package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/j-veylop/pihole-sense/internal/config"
	"github.com/j-veylop/pihole-sense/internal/emulator"
	"github.com/j-veylop/pihole-sense/internal/input"
	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/matrix"
	"github.com/j-veylop/pihole-sense/internal/models"
	"github.com/j-veylop/pihole-sense/internal/sensehat"
	"github.com/j-veylop/pihole-sense/internal/visualizer"
)

// hat is the opened display and joystick.
type hat struct {
	backend string
	panel   matrix.Panel
	// stick is nil when the backend has no joystick.
	stick   input.Source
	emu     *emulator.Emulator
	closers []io.Closer
}

// Close releases every device, last opened first.
func (h *hat) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		errs = append(errs, h.closers[i].Close())
	}
	return errors.Join(errs...)
}

// openHat opens the configured backend. Auto tries the kernel drivers, then
// raw I2C, then the terminal emulator, and falls back to memory.
func openHat(cfg *config.Config) (*hat, error) {
	switch cfg.Backend {
	case config.BackendSenseHat:
		return openSenseHat()
	case config.BackendI2C:
		return openI2C()
	case config.BackendEmulator:
		return openEmulator(), nil
	case config.BackendMemory:
		return &hat{backend: config.BackendMemory, panel: &matrix.Memory{}}, nil
	case config.BackendAuto:
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	h, err := openSenseHat()
	if err == nil {
		return h, nil
	}
	logger.Debug("sense hat drivers unavailable", "error", err)

	h, err = openI2C()
	if err == nil {
		return h, nil
	}
	logger.Debug("sense hat i2c unavailable", "error", err)

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return openEmulator(), nil
	}
	logger.Warn("no display found, drawing to memory")
	return &hat{backend: config.BackendMemory, panel: &matrix.Memory{}}, nil
}

func openSenseHat() (*hat, error) {
	fb, err := sensehat.OpenFramebuffer()
	if err != nil {
		return nil, err
	}
	h := &hat{backend: config.BackendSenseHat, panel: fb, closers: []io.Closer{fb}}

	stick, err := sensehat.OpenJoystick()
	if err != nil {
		logger.Warn("joystick unavailable, settings cannot be changed", "error", err)
		return h, nil
	}
	h.stick = stick
	h.closers = append(h.closers, stick)
	return h, nil
}

func openI2C() (*hat, error) {
	dev, err := sensehat.OpenI2C("", sensehat.DefaultStickPoll)
	if err != nil {
		return nil, err
	}
	return &hat{backend: config.BackendI2C, panel: dev, stick: dev, closers: []io.Closer{dev}}, nil
}

func openEmulator() *hat {
	emu := emulator.New(tea.WithAltScreen())
	return &hat{backend: config.BackendEmulator, panel: emu, stick: emu, emu: emu}
}

// emulatedHat is the part of the emulator that runs the terminal program.
type emulatedHat interface {
	Run() error
	Quit()
}

// statusSource shows the connection state of every fetch on the emulator's
// status line.
type statusSource struct {
	source visualizer.Source
	// lastSuccess reports when the server last answered.
	lastSuccess func() time.Time
	emu         interface{ SetStatus(string) }
}

func (s statusSource) Fetch(ctx context.Context) (*models.Snapshot, error) {
	snap, err := s.source.Fetch(ctx)
	if err != nil {
		s.emu.SetStatus("fetch failed")
		return nil, err
	}
	s.emu.SetStatus(statusLine(snap, s.lastSuccess()))
	return snap, nil
}

// statusLine describes where a snapshot came from. For cached data it also
// tells when the server last answered, zero meaning never since start.
func statusLine(snap *models.Snapshot, lastSeen time.Time) string {
	state := "online"
	if !snap.Online {
		state = "offline"
	}
	if snap.Cached {
		line := state + ", cached " + humanize.Time(snap.FetchedAt)
		if lastSeen.IsZero() {
			return line + ", server not reached since start"
		}
		return line + ", server last seen " + humanize.Time(lastSeen)
	}
	return fmt.Sprintf("%s, %.1f%% blocked today", state, snap.BlockedPercentageToday)
}
