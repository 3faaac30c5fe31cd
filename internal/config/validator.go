package config

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/tailpin/internal/scrolllock"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "scroll.interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Upper bounds that keep a typo from freezing the UI or exhausting memory.
const (
	maxIntervalMs     = 60_000
	maxTickMs         = 10_000
	maxPixelRatio     = 16
	maxTUILines       = 1_000_000
	maxAttachLines    = 10_000
	maxLineBytesLimit = 16 * 1024 * 1024
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateScroll()...)
	errors = append(errors, c.validateTail()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateAttach()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateScroll validates the ScrollConfig
func (c *Config) validateScroll() []ValidationError {
	var errors []ValidationError

	if c.Scroll.IntervalMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scroll.interval_ms",
			Value:   c.Scroll.IntervalMs,
			Message: "must be positive",
		})
	} else if c.Scroll.IntervalMs > maxIntervalMs {
		errors = append(errors, ValidationError{
			Field:   "scroll.interval_ms",
			Value:   c.Scroll.IntervalMs,
			Message: fmt.Sprintf("exceeds maximum of %d", maxIntervalMs),
		})
	}

	if _, err := scrolllock.ParsePosition(c.Scroll.Position); err != nil {
		errors = append(errors, ValidationError{
			Field:   "scroll.position",
			Value:   c.Scroll.Position,
			Message: "must be \"top\", \"bottom\" or a number",
		})
	}

	if math.IsNaN(c.Scroll.PixelRatio) || c.Scroll.PixelRatio <= 0 || c.Scroll.PixelRatio > maxPixelRatio {
		errors = append(errors, ValidationError{
			Field:   "scroll.pixel_ratio",
			Value:   c.Scroll.PixelRatio,
			Message: fmt.Sprintf("must be greater than 0 and at most %d", maxPixelRatio),
		})
	}

	if c.Scroll.TickMs <= 0 || c.Scroll.TickMs > maxTickMs {
		errors = append(errors, ValidationError{
			Field:   "scroll.tick_ms",
			Value:   c.Scroll.TickMs,
			Message: fmt.Sprintf("must be between 1 and %d", maxTickMs),
		})
	}

	return errors
}

// validateTail validates the TailConfig
func (c *Config) validateTail() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Tail.Dir) == "" {
		errors = append(errors, ValidationError{
			Field:   "tail.dir",
			Value:   c.Tail.Dir,
			Message: "must not be empty",
		})
	}

	if c.Tail.Pattern == "" {
		errors = append(errors, ValidationError{
			Field:   "tail.pattern",
			Value:   c.Tail.Pattern,
			Message: "must not be empty",
		})
	} else if _, err := glob.Compile(c.Tail.Pattern); err != nil {
		errors = append(errors, ValidationError{
			Field:   "tail.pattern",
			Value:   c.Tail.Pattern,
			Message: fmt.Sprintf("invalid glob: %v", err),
		})
	}

	if c.Tail.MaxLineBytes < 0 || c.Tail.MaxLineBytes > maxLineBytesLimit {
		errors = append(errors, ValidationError{
			Field:   "tail.max_line_bytes",
			Value:   c.Tail.MaxLineBytes,
			Message: fmt.Sprintf("must be between 0 and %d", maxLineBytesLimit),
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.MaxLines < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.max_lines",
			Value:   c.TUI.MaxLines,
			Message: "must be non-negative",
		})
	}
	if c.TUI.MaxLines > maxTUILines {
		errors = append(errors, ValidationError{
			Field:   "tui.max_lines",
			Value:   c.TUI.MaxLines,
			Message: fmt.Sprintf("exceeds maximum of %d", maxTUILines),
		})
	}

	return errors
}

// validateAttach validates the AttachConfig
func (c *Config) validateAttach() []ValidationError {
	var errors []ValidationError

	if c.Attach.MaxLines <= 0 || c.Attach.MaxLines > maxAttachLines {
		errors = append(errors, ValidationError{
			Field:   "attach.max_lines",
			Value:   c.Attach.MaxLines,
			Message: fmt.Sprintf("must be between 1 and %d", maxAttachLines),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
