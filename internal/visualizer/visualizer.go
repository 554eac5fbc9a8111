// Package visualizer runs the display loop: it polls the data source, cycles
// through the charts and applies joystick input between frames.
package visualizer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/j-veylop/pihole-sense/internal/aggregate"
	"github.com/j-veylop/pihole-sense/internal/input"
	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/matrix"
	"github.com/j-veylop/pihole-sense/internal/models"
	"github.com/j-veylop/pihole-sense/internal/render"
)

// Loop defaults.
const (
	DefaultFramesPerRefresh = 15
	DefaultPollTicks        = 2
	DefaultPollInterval     = time.Second
)

// ErrNoSource is returned by New when no data source is given.
var ErrNoSource = errors.New("visualizer: no data source")

// Source fetches fresh statistics. Retries are the source's business.
type Source interface {
	Fetch(ctx context.Context) (*models.Snapshot, error)
}

// Loop owns the display and the joystick for the lifetime of the program.
type Loop struct {
	source   Source
	display  matrix.Matrix
	joystick input.Source
	cfg      models.DisplayConfig
	cycle    *Cycle
	painter  *render.Painter
	rng      *rand.Rand
	sleep    func(ctx context.Context, d time.Duration) error

	framesPerRefresh int
	pollTicks        int
	pollInterval     time.Duration
}

// Option configures a Loop.
type Option func(*Loop)

// WithFramesPerRefresh sets how many charts are shown between data fetches.
func WithFramesPerRefresh(n int) Option {
	return func(l *Loop) { l.framesPerRefresh = n }
}

// WithPollTicks sets how many input polls follow each chart.
func WithPollTicks(n int) Option {
	return func(l *Loop) { l.pollTicks = n }
}

// WithPollInterval sets the wait between input polls.
func WithPollInterval(d time.Duration) Option {
	return func(l *Loop) { l.pollInterval = d }
}

// WithRipple sets the delay between animated pixels.
func WithRipple(d time.Duration) Option {
	return func(l *Loop) { l.painter.Ripple = d }
}

// WithRand sets the random source used for randomized drawing.
func WithRand(rng *rand.Rand) Option {
	return func(l *Loop) { l.rng = rng }
}

// WithSleep replaces the context-aware sleep used for pacing and polling.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Loop) {
		l.sleep = sleep
		l.painter.Sleep = sleep
	}
}

// New creates a loop. The joystick may be nil for a display without input.
func New(source Source, display matrix.Matrix, joystick input.Source, cfg models.DisplayConfig, opts ...Option) (*Loop, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	if display == nil {
		return nil, fmt.Errorf("visualizer: no display")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid display config: %w", err)
	}

	l := &Loop{
		source:           source,
		display:          display,
		joystick:         joystick,
		cfg:              cfg,
		cycle:            NewCycle(),
		painter:          render.NewPainter(render.DefaultRipple),
		rng:              rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sleep:            render.Sleep,
		framesPerRefresh: DefaultFramesPerRefresh,
		pollTicks:        DefaultPollTicks,
		pollInterval:     DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Config returns the current display settings.
func (l *Loop) Config() models.DisplayConfig {
	return l.cfg
}

// Run drives the display until the user terminates it with the middle button
// (returns nil), the context is cancelled (returns the context error) or the
// source fails. The display is cleared on the way out.
func (l *Loop) Run(ctx context.Context) error {
	for {
		snap, err := l.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return l.shutdown(ctx.Err())
			}
			return fmt.Errorf("failed to fetch statistics: %w", err)
		}

		data := render.Data{
			Samples:                aggregate.Aggregate(snap.Series, l.cfg.Interval),
			TopSources:             snap.TopSources,
			QueryTypes:             snap.QueryTypes,
			BlockedPercentageToday: snap.BlockedPercentageToday,
			Online:                 snap.Online,
		}
		l.cycle.SetModes(EnabledCharts(snap, l.cfg.Charts))

		terminate, err := l.showFrames(ctx, data)
		if err != nil {
			if ctx.Err() != nil {
				return l.shutdown(ctx.Err())
			}
			return err
		}
		if terminate {
			return l.shutdown(nil)
		}
	}
}

// showFrames renders up to framesPerRefresh charts. It returns early when the
// settings changed so the caller refreshes the data right away.
func (l *Loop) showFrames(ctx context.Context, data render.Data) (terminate bool, err error) {
	for range l.framesPerRefresh {
		mode, ok := l.cycle.Next()
		if !ok {
			return false, fmt.Errorf("no chart mode enabled")
		}

		frame := render.Chart(mode, data, l.cfg.Color, l.cfg.Randomize, l.rng)
		settings := render.Settings{Orientation: l.cfg.Orientation, LowLight: l.cfg.LowLight}
		if err := l.painter.Paint(ctx, l.display, frame, settings); err != nil {
			return false, fmt.Errorf("failed to draw %s chart: %w", mode, err)
		}

		changed, terminate, err := l.pollInput(ctx)
		if err != nil || terminate {
			return terminate, err
		}
		if changed {
			return false, nil
		}
	}
	return false, nil
}

// pollInput checks the joystick pollTicks times, pollInterval apart. Only the
// last event of a batch counts.
func (l *Loop) pollInput(ctx context.Context) (changed, terminate bool, err error) {
	for range l.pollTicks {
		if l.joystick != nil {
			if ev, ok := input.Latest(l.joystick.PollEvents()); ok {
				logger.Debug("joystick event", "event", ev.String())
				l.cfg, terminate = input.Apply(ev, l.cfg)
				return true, terminate, nil
			}
		}
		if err := l.sleep(ctx, l.pollInterval); err != nil {
			return false, false, err
		}
	}
	return false, false, nil
}

func (l *Loop) shutdown(cause error) error {
	if err := l.display.Clear(); err != nil {
		logger.Error("failed to clear display", "error", err)
	}
	return cause
}
