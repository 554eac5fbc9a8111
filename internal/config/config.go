// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/models"
	"github.com/j-veylop/pihole-sense/internal/render"
)

// Backends that can drive the display.
const (
	BackendAuto     = "auto"
	BackendSenseHat = "sensehat"
	BackendI2C      = "i2c"
	BackendEmulator = "emulator"
	BackendMemory   = "memory"
)

// Backends lists every accepted backend name.
var Backends = []string{BackendAuto, BackendSenseHat, BackendI2C, BackendEmulator, BackendMemory}

// CacheDisabled as the database path turns the snapshot cache off.
const CacheDisabled = "off"

// Config holds the application configuration.
type Config struct {
	Address       string
	Password      string
	SetupVarsPath string
	Display       models.DisplayConfig
	Ripple        time.Duration
	Backend       string
	DatabasePath  string
	Notify        bool
	LogFile       string
	LogLevel      string
}

// Default values
const (
	defaultAddress = "127.0.0.1"
	defaultBackend = BackendAuto
)

// envKeys maps environment variables to setting keys. Flags use the keys
// directly.
var envKeys = []struct{ env, key string }{
	{"PIHOLE_ADDRESS", "address"},
	{"PIHOLE_INTERVAL", "interval"},
	{"PIHOLE_COLOR", "color"},
	{"PIHOLE_ORIENTATION", "orientation"},
	{"PIHOLE_LOWLIGHT", "lowlight"},
	{"PIHOLE_RANDOMIZE", "randomize"},
	{"PIHOLE_CHARTS", "charts"},
	{"PIHOLE_RIPPLE", "ripple"},
	{"PIHOLE_BACKEND", "backend"},
	{"PIHOLE_DB_PATH", "db"},
	{"PIHOLE_NOTIFY", "notify"},
	{"PIHOLE_LOG_FILE", "log-file"},
	{"PIHOLE_LOG_LEVEL", "log-level"},
	{"PIHOLE_SETUP_VARS", "setup-vars"},
	{"WEBPASSWORD", "password"},
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Address:       defaultAddress,
		SetupVarsPath: DefaultSetupVarsPath,
		Display:       models.DefaultDisplayConfig(),
		Ripple:        render.DefaultRipple,
		Backend:       defaultBackend,
		DatabasePath:  getDefaultDatabasePath(),
		LogLevel:      "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, .env files and environment variables, in that order. Flags are
// applied afterwards by the caller with Set.
func Load(path string) (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	for _, ek := range envKeys {
		value := getEnvString(ek.env, "")
		if value == "" {
			continue
		}
		if err := cfg.Set(ek.key, value); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ek.env, err)
		}
	}

	return cfg, nil
}

// Set assigns a single setting by key from its string form.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "address":
		c.Address = value
	case "password":
		c.Password = value
	case "setup-vars":
		c.SetupVarsPath = value
	case "interval":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("interval %q is not a number", value)
		}
		c.Display.Interval = n
	case "color":
		mode, err := models.ParseColorMode(value)
		if err != nil {
			return err
		}
		c.Display.Color = mode
	case "orientation":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("orientation %q is not a number", value)
		}
		c.Display.Orientation = n
	case "lowlight":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("lowlight: %w", err)
		}
		c.Display.LowLight = b
	case "randomize":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("randomize: %w", err)
		}
		c.Display.Randomize = b
	case "charts":
		charts, err := ParseCharts(value)
		if err != nil {
			return err
		}
		c.Display.Charts = charts
	case "ripple":
		d, err := parseDuration(value, time.Millisecond)
		if err != nil {
			return fmt.Errorf("ripple: %w", err)
		}
		c.Ripple = d
	case "backend":
		c.Backend = strings.ToLower(value)
	case "db":
		c.DatabasePath = value
	case "notify":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("notify: %w", err)
		}
		c.Notify = b
	case "log-file":
		c.LogFile = value
	case "log-level":
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// Validate checks every setting against its supported values.
func (c *Config) Validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("address is required"))
	}
	if err := c.Display.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Ripple < 0 {
		errs = append(errs, fmt.Errorf("ripple %v is negative", c.Ripple))
	}
	if !slices.Contains(Backends, c.Backend) {
		errs = append(errs, fmt.Errorf("unknown backend %q: must be one of %v", c.Backend, Backends))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CacheEnabled reports whether snapshots are persisted.
func (c *Config) CacheEnabled() bool {
	return c.DatabasePath != "" && !strings.EqualFold(c.DatabasePath, CacheDisabled)
}

// ParseCharts parses a comma separated list of chart ordinals (1-5) or names.
func ParseCharts(s string) ([]models.ChartMode, error) {
	var charts []models.ChartMode
	for _, field := range strings.Split(s, ",") {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		mode, err := parseChart(field)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(charts, mode) {
			charts = append(charts, mode)
		}
	}
	return charts, nil
}

func parseChart(field string) (models.ChartMode, error) {
	if n, err := strconv.Atoi(field); err == nil {
		return models.ChartFromOrdinal(n)
	}
	for _, mode := range models.AllCharts {
		if mode.String() == field {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown chart %q", field)
}

// fileConfig is the YAML layout of the settings file.
type fileConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	SetupVars string `yaml:"setup_vars"`
	Display   struct {
		Interval    *int     `yaml:"interval"`
		Color       string   `yaml:"color"`
		Orientation *int     `yaml:"orientation"`
		LowLight    *bool    `yaml:"lowlight"`
		Randomize   *bool    `yaml:"randomize"`
		Charts      []string `yaml:"charts"`
		Ripple      string   `yaml:"ripple"`
	} `yaml:"display"`
	Backend string `yaml:"backend"`
	Cache   struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
	Notify  *bool `yaml:"notify"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	set := func(key, value string) {
		if value != "" && err == nil {
			if e := c.Set(key, value); e != nil {
				err = fmt.Errorf("config file %s: %w", path, e)
			}
		}
	}
	set("address", fc.Address)
	set("password", fc.Password)
	set("setup-vars", fc.SetupVars)
	set("color", fc.Display.Color)
	set("charts", strings.Join(fc.Display.Charts, ","))
	set("ripple", fc.Display.Ripple)
	set("backend", fc.Backend)
	set("db", fc.Cache.Path)
	set("log-level", fc.Logging.Level)
	set("log-file", fc.Logging.File)
	if err != nil {
		return err
	}

	if fc.Display.Interval != nil {
		c.Display.Interval = *fc.Display.Interval
	}
	if fc.Display.Orientation != nil {
		c.Display.Orientation = *fc.Display.Orientation
	}
	if fc.Display.LowLight != nil {
		c.Display.LowLight = *fc.Display.LowLight
	}
	if fc.Display.Randomize != nil {
		c.Display.Randomize = *fc.Display.Randomize
	}
	if fc.Notify != nil {
		c.Notify = *fc.Notify
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "pihole-sense", ".env"),
		)
	}

	paths = append(paths, filepath.Join("/etc", "pihole-sense", ".env"))

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite cache.
func getDefaultDatabasePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "pihole-sense.db"
	}
	return filepath.Join(dir, "pihole-sense", "cache.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration accepts values like "30s", "25ms" or a bare number in unit.
func parseDuration(value string, unit time.Duration) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return time.Duration(n) * unit, nil
}
