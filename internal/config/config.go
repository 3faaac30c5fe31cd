package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/tailpin/internal/scrolllock"
)

// Config represents the complete tailpin configuration
type Config struct {
	Scroll  ScrollConfig  `mapstructure:"scroll" yaml:"scroll"`
	Tail    TailConfig    `mapstructure:"tail" yaml:"tail"`
	TUI     TUIConfig     `mapstructure:"tui" yaml:"tui"`
	Attach  AttachConfig  `mapstructure:"attach" yaml:"attach"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ScrollConfig controls the scroll-lock engine
type ScrollConfig struct {
	// IntervalMs is the poll period used when changes cannot be observed (default: 100)
	IntervalMs int `mapstructure:"interval_ms" yaml:"interval_ms"`
	// Position is the initial placement: "top", "bottom" or a row offset (default: "bottom")
	Position string `mapstructure:"position" yaml:"position"`
	// PixelRatio scales the at-bottom tolerance (default: 1)
	PixelRatio float64 `mapstructure:"pixel_ratio" yaml:"pixel_ratio"`
	// ObserveMutations lets the engine observe structural changes directly.
	// When false the engine polls every IntervalMs. (default: true)
	ObserveMutations bool `mapstructure:"observe_mutations" yaml:"observe_mutations"`
	// TickMs is how often the TUI advances its timers (default: 50)
	TickMs int `mapstructure:"tick_ms" yaml:"tick_ms"`
}

// TailConfig controls which files are followed
type TailConfig struct {
	// Dir is the directory to watch (default: ".")
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Pattern is a glob matched against file names (default: "*.log")
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	// FromStart shows the existing content of files instead of only new lines (default: false)
	FromStart bool `mapstructure:"from_start" yaml:"from_start"`
	// MaxLineBytes splits longer lines (default: 65536)
	MaxLineBytes int `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// MaxLines caps how many lines are kept; the oldest are dropped (default: 5000, 0 = unlimited)
	MaxLines int `mapstructure:"max_lines" yaml:"max_lines"`
	// ShowFileNames prefixes each line with the file it came from when
	// more than one file is followed (default: true)
	ShowFileNames bool `mapstructure:"show_file_names" yaml:"show_file_names"`
	// Mouse enables wheel scrolling (default: true)
	Mouse bool `mapstructure:"mouse" yaml:"mouse"`
}

// AttachConfig controls inline attachments
type AttachConfig struct {
	// Enabled turns "@attach <path>" lines into inline attachments (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// MaxLines caps the lines shown per attachment (default: 200)
	MaxLines int `mapstructure:"max_lines" yaml:"max_lines"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where tailpin.log is written. Empty means StateDir(). (default: "")
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Scroll: ScrollConfig{
			IntervalMs:       int(scrolllock.DefaultInterval / time.Millisecond),
			Position:         "bottom",
			PixelRatio:       1,
			ObserveMutations: true,
			TickMs:           50,
		},
		Tail: TailConfig{
			Dir:          ".",
			Pattern:      "*.log",
			FromStart:    false,
			MaxLineBytes: 64 * 1024,
		},
		TUI: TUIConfig{
			MaxLines:      5000,
			ShowFileNames: true,
			Mouse:         true,
		},
		Attach: AttachConfig{
			Enabled:  true,
			MaxLines: 200,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
	}
}

// Interval returns the poll interval as a time.Duration
func (c *ScrollConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Tick returns the TUI timer resolution as a time.Duration
func (c *ScrollConfig) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// InitialPosition parses Position.
func (c *ScrollConfig) InitialPosition() (scrolllock.Position, error) {
	return scrolllock.ParsePosition(c.Position)
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Scroll defaults
	viper.SetDefault("scroll.interval_ms", defaults.Scroll.IntervalMs)
	viper.SetDefault("scroll.position", defaults.Scroll.Position)
	viper.SetDefault("scroll.pixel_ratio", defaults.Scroll.PixelRatio)
	viper.SetDefault("scroll.observe_mutations", defaults.Scroll.ObserveMutations)
	viper.SetDefault("scroll.tick_ms", defaults.Scroll.TickMs)

	// Tail defaults
	viper.SetDefault("tail.dir", defaults.Tail.Dir)
	viper.SetDefault("tail.pattern", defaults.Tail.Pattern)
	viper.SetDefault("tail.from_start", defaults.Tail.FromStart)
	viper.SetDefault("tail.max_line_bytes", defaults.Tail.MaxLineBytes)

	// TUI defaults
	viper.SetDefault("tui.max_lines", defaults.TUI.MaxLines)
	viper.SetDefault("tui.show_file_names", defaults.TUI.ShowFileNames)
	viper.SetDefault("tui.mouse", defaults.TUI.Mouse)

	// Attach defaults
	viper.SetDefault("attach.enabled", defaults.Attach.Enabled)
	viper.SetDefault("attach.max_lines", defaults.Attach.MaxLines)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tailpin")
	}
	// Fall back to ~/.config/tailpin
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tailpin"
	}
	return filepath.Join(home, ".config", "tailpin")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns where runtime state such as the log file is kept
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tailpin")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tailpin"
	}
	return filepath.Join(home, ".local", "state", "tailpin")
}

// ResolveDir returns the log directory, expanding ~ and defaulting to StateDir().
func (c *LoggingConfig) ResolveDir() string {
	path := c.Dir
	if path == "" {
		return StateDir()
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}
	return path
}
