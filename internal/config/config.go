// Package config reads player settings from the environment. Command-line
// flags override these values in cmd/tworooms.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/tworooms/internal/domain"
)

// Config is the full set of startup options.
type Config struct {
	Screen     string
	Layout     string
	Script     string
	ScriptFile string // empty = built-in deck
	Chime      bool
	ChimeQueue int
	LogFile    string // "stderr" logs to the console

	IntervalSingle  time.Duration
	IntervalCompare time.Duration
	IntervalPaired  time.Duration
}

// DefaultLogFile is where logs go unless told otherwise.
const DefaultLogFile = ".tworooms-logs/tworooms.log"

// Load reads the environment. Unset or malformed values fall back to the
// defaults; Validate catches values that parse but make no sense.
func Load() Config {
	return Config{
		Screen:          envStr("TWOROOMS_SCREEN", "visualizer"),
		Layout:          envStr("TWOROOMS_LAYOUT", "single"),
		Script:          envStr("TWOROOMS_SCRIPT", "ai"),
		ScriptFile:      envStr("TWOROOMS_SCRIPT_FILE", ""),
		Chime:           envBool("TWOROOMS_CHIME", false),
		ChimeQueue:      envInt("TWOROOMS_CHIME_QUEUE", 4),
		LogFile:         envStr("TWOROOMS_LOG_FILE", DefaultLogFile),
		IntervalSingle:  envDuration("TWOROOMS_INTERVAL_SINGLE", 5*time.Second),
		IntervalCompare: envDuration("TWOROOMS_INTERVAL_COMPARE", 5*time.Second),
		IntervalPaired:  envDuration("TWOROOMS_INTERVAL_PAIRED", 8*time.Second),
	}
}

// Validate checks enum values and intervals.
func (c Config) Validate() error {
	if _, err := c.View(); err != nil {
		return err
	}
	for name, d := range map[string]time.Duration{
		"single":  c.IntervalSingle,
		"compare": c.IntervalCompare,
		"paired":  c.IntervalPaired,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s interval must be positive, got %s", domain.ErrInvalidConfig, name, d)
		}
	}
	if c.ChimeQueue <= 0 {
		return fmt.Errorf("%w: chime queue must be positive, got %d", domain.ErrInvalidConfig, c.ChimeQueue)
	}
	return nil
}

// View returns the starting view. The divergence screen always uses the
// paired layout; the visualizer never does.
func (c Config) View() (domain.View, error) {
	screen, err := domain.ParseScreen(c.Screen)
	if err != nil {
		return domain.View{}, err
	}
	layout, err := domain.ParseLayout(c.Layout)
	if err != nil {
		return domain.View{}, err
	}
	active, err := domain.ParseScriptID(c.Script)
	if err != nil {
		return domain.View{}, err
	}

	switch {
	case screen == domain.ScreenDivergence:
		layout = domain.LayoutPaired
	case layout == domain.LayoutPaired:
		screen = domain.ScreenDivergence
	}
	return domain.View{Screen: screen, Layout: layout, Active: active}, nil
}

// IntervalFor returns the autoplay period for a layout.
func (c Config) IntervalFor(l domain.Layout) time.Duration {
	switch l {
	case domain.LayoutCompare:
		return c.IntervalCompare
	case domain.LayoutPaired:
		return c.IntervalPaired
	default:
		return c.IntervalSingle
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// envDuration accepts Go durations ("8s") or plain seconds ("8").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
