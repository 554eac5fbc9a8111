// Package main is the entry point for pihole-sense. It shows Pi-hole
// statistics on the Sense HAT LED matrix, or prints a summary report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/j-veylop/pihole-sense/internal/config"
	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/matrix"
	"github.com/j-veylop/pihole-sense/internal/services"
	"github.com/j-veylop/pihole-sense/internal/version"
	"github.com/j-veylop/pihole-sense/internal/visualizer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches to the visualizer or the summary subcommand.
func run(args []string) error {
	if len(args) > 0 && args[0] == "summary" {
		return runSummary(args[1:])
	}
	return runVisualizer(args)
}

// options are the command line flags that are not settings.
type options struct {
	configPath string
	version    bool
	width      int
}

// newFlagSet registers one flag per setting key. Only flags given on the
// command line override the loaded configuration.
func newFlagSet(name string, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", "", "path to a YAML settings file")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.BoolVar(&opts.version, "v", false, "shorthand for -version")

	fs.String("address", "", "Pi-hole address (default 127.0.0.1)")
	fs.String("password", "", "Pi-hole API token, the WEBPASSWORD hash")
	fs.String("setup-vars", "", "path to setupVars.conf (default "+config.DefaultSetupVarsPath+")")
	fs.Int("interval", 0, "minutes per bar: 10, 30, 60, 120 or 180 (default 60)")
	fs.String("color", "", "bar colors: basic, traffic or ads (default basic)")
	fs.Int("orientation", 0, "display rotation: 0, 90, 180 or 270")
	fs.Bool("lowlight", false, "dim the display")
	fs.Bool("randomize", false, "draw pixels in random order")
	fs.String("charts", "", "comma separated charts to show, 1-5 or names")
	fs.String("ripple", "", "pause between pixels, e.g. 25ms")
	fs.String("backend", "", "display backend: auto, sensehat, i2c, emulator or memory")
	fs.String("db", "", "snapshot cache path, or \"off\"")
	fs.Bool("notify", false, "send desktop notifications on connectivity changes")
	fs.String("log-file", "", "append logs to this file")
	fs.String("log-level", "", "debug, info, warn or error")

	return fs
}

// loadConfig parses args and builds the configuration.
func loadConfig(name string, args []string, opts *options) (*config.Config, error) {
	fs := newFlagSet(name, opts)
	if name == "summary" {
		fs.IntVar(&opts.width, "width", 80, "report width in columns")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return nil, nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var errs []error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config", "version", "v", "width":
			return
		}
		if err := cfg.Set(f.Name, f.Value.String()); err != nil {
			errs = append(errs, fmt.Errorf("-%s: %w", f.Name, err))
		}
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogging routes logs to the configured file, to the root log file, or
// away from a terminal that the emulator draws on.
func setupLogging(cfg *config.Config, backend string) (io.Closer, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	path := cfg.LogFile
	if path == "" && os.Geteuid() == 0 && backend != config.BackendEmulator {
		path = logger.DefaultRootLogFile
	}

	switch {
	case path != "":
		closer, err := logger.SetupFile(path, level)
		if err != nil {
			if path == cfg.LogFile {
				return nil, err
			}
			logger.Setup(os.Stderr, level)
			logger.Warn("failed to open root log file, logging to stderr", "error", err)
			return nil, nil
		}
		return closer, nil
	case backend == config.BackendEmulator:
		logger.Discard()
	default:
		logger.Setup(os.Stderr, level)
	}
	return nil, nil
}

func runVisualizer(args []string) error {
	var opts options
	cfg, err := loadConfig(version.Name, args, &opts)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Println(version.Info())
		return nil
	}

	hat, err := openHat(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := hat.Close(); closeErr != nil {
			logger.Warn("error closing display", "error", closeErr)
		}
	}()

	logCloser, err := setupLogging(cfg, hat.backend)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}
	logger.Info("starting", "version", version.Info(), "backend", hat.backend, "address", cfg.Address)

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	var source visualizer.Source = mgr
	if hat.emu != nil {
		source = statusSource{source: mgr, lastSuccess: mgr.LastSuccess, emu: hat.emu}
	}

	loop, err := visualizer.New(source, matrix.NewDevice(hat.panel), hat.stick, cfg.Display,
		visualizer.WithRipple(cfg.Ripple))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if hat.emu != nil {
		err = runEmulated(ctx, loop, hat.emu)
	} else {
		err = loop.Run(ctx)
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

// runEmulated runs the terminal program on the calling goroutine and the
// loop beside it. Whichever ends first stops the other.
func runEmulated(ctx context.Context, loop *visualizer.Loop, emu emulatedHat) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
		emu.Quit()
	}()

	runErr := emu.Run()
	cancel()
	loopErr := <-done
	if errors.Is(loopErr, context.Canceled) {
		loopErr = nil
	}
	return errors.Join(runErr, loopErr)
}
