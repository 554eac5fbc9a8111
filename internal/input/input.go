// Package input turns joystick events into display setting changes.
package input

import (
	"fmt"
	"strings"

	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/models"
)

// Direction is the joystick direction of an event.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
	Middle
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case Middle:
		return "middle"
	default:
		return "unknown"
	}
}

// Action is what happened to the stick in that direction.
type Action int

const (
	Pressed Action = iota
	Released
	Held
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	case Held:
		return "held"
	default:
		return "unknown"
	}
}

// Event is a single joystick event.
type Event struct {
	Direction Direction
	Action    Action
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Direction, e.Action)
}

// Source delivers joystick events. PollEvents must not block and returns the
// events seen since the previous call.
type Source interface {
	PollEvents() []Event
}

// Latest returns the last event of a batch. Earlier events are dropped.
func Latest(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	return events[len(events)-1], true
}

// Apply returns cfg changed by ev, and whether the user asked to terminate.
//
//	up               next color mode
//	right            next interval
//	down             toggle low light
//	left             next orientation
//	middle released  toggle randomize
//	middle held      terminate
func Apply(ev Event, cfg models.DisplayConfig) (models.DisplayConfig, bool) {
	switch ev.Direction {
	case Up:
		cfg.Color = cfg.Color.Next()
		logger.Info(fmt.Sprintf("Color mode switched to '%s'.", capitalize(cfg.Color.String())))
	case Right:
		cfg.Interval = cfg.NextInterval()
		logger.Info(fmt.Sprintf("Time interval switched to %d minutes.", cfg.Interval))
	case Down:
		cfg.LowLight = !cfg.LowLight
		logger.Info("Low-light mode " + enabled(cfg.LowLight))
	case Left:
		cfg.Orientation = cfg.NextOrientation()
		logger.Info(fmt.Sprintf("Orientation switched to %d degrees.", cfg.Orientation))
	case Middle:
		switch ev.Action {
		case Released:
			cfg.Randomize = !cfg.Randomize
			logger.Info("Randomization " + enabled(cfg.Randomize))
		case Held:
			logger.Info("Program terminated by user.")
			return cfg, true
		}
	}
	return cfg, false
}

func enabled(b bool) string {
	if b {
		return "enabled."
	}
	return "disabled."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
