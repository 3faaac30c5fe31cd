// Package attach loads attachments: files referenced from a followed log
// that are shown inline once read, the terminal counterpart of an image.
package attach

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/tailpin/internal/errors"
	"github.com/Iron-Ham/tailpin/internal/logging"
)

// Directive starts a line that references an attachment, followed by
// whitespace and the path.
const Directive = "@attach"

// DefaultMaxLines caps how much of an attachment is shown.
const DefaultMaxLines = 200

// maxLineBytes bounds a single line read from an attachment.
const maxLineBytes = 1024 * 1024

// ParseDirective reports whether line references an attachment and returns
// the referenced path.
func ParseDirective(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), Directive)
	if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	path := strings.TrimSpace(rest)
	return path, path != ""
}

// Result is the outcome of loading one attachment.
type Result struct {
	Path string
	// Lines are the rendered rows, wrapped to the requested width.
	Lines []string
	// Height is len(Lines); a failed load is one row tall.
	Height int
	Err    error
}

// Loader reads attachments relative to a base directory.
type Loader struct {
	// BaseDir resolves relative attachment paths (default: ".").
	BaseDir string
	// MaxLines caps the source lines read (default: DefaultMaxLines).
	MaxLines int
	Logger   *logging.Logger
}

// NewLoader returns a Loader for attachments referenced from files in baseDir.
func NewLoader(baseDir string, maxLines int, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Loader{BaseDir: baseDir, MaxLines: maxLines, Logger: logger.WithComponent("attach")}
}

// Resolve returns the file path an attachment reference points at.
func (l *Loader) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	base := l.BaseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, path)
}

// Load reads the attachment at path and wraps it to width columns. Lines
// beyond MaxLines are summarized in a final row. A failed load still yields
// a one-row Result describing the error.
func (l *Loader) Load(ctx context.Context, path string, width int) Result {
	lines, err := l.read(ctx, path)
	if err != nil {
		if l.Logger != nil {
			l.Logger.Warn("attachment failed", "path", path, "error", err)
		}
		return Result{
			Path:   path,
			Lines:  []string{errorRow(path, err, width)},
			Height: 1,
			Err:    err,
		}
	}

	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		if width > 0 {
			line = ansi.Hardwrap(line, width, true)
		}
		rows = append(rows, strings.Split(line, "\n")...)
	}
	if len(rows) == 0 {
		rows = []string{""}
	}
	return Result{Path: path, Lines: rows, Height: len(rows)}
}

func (l *Loader) read(ctx context.Context, path string) ([]string, error) {
	maxLines := l.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	full := l.Resolve(path)
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open attachment: %w", errors.New("is a directory"))
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	extra := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load attachment: %w", err)
		}
		if len(lines) < maxLines {
			lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
		} else {
			extra++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	if extra > 0 {
		lines = append(lines, fmt.Sprintf("… %d more lines", extra))
	}
	return lines, nil
}

func errorRow(path string, err error, width int) string {
	row := fmt.Sprintf("[attachment %s: %v]", path, errors.Unwrap(err))
	if width <= 0 {
		return row
	}
	return ansi.Truncate(row, width, "…")
}
