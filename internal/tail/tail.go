// Package tail follows the files of one directory and emits the lines
// appended to them.
package tail

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/Iron-Ham/tailpin/internal/errors"
	"github.com/Iron-Ham/tailpin/internal/logging"
)

const (
	// DefaultPattern selects the files a Tailer follows when none is given.
	DefaultPattern = "*.log"
	// DefaultMaxLineBytes bounds a single emitted line.
	DefaultMaxLineBytes = 64 * 1024
	// DefaultDebounce is how long writes are collected before files are read.
	DefaultDebounce = 20 * time.Millisecond
)

// errStopped aborts a read when Close is called while a send is blocked.
var errStopped = errors.New("tailer stopped")

// Line is one line appended to a followed file, without its newline.
type Line struct {
	File string
	Text string
}

// Options configures a Tailer.
type Options struct {
	// Dir is the directory to watch (default: ".").
	Dir string
	// Pattern is a glob matched against file base names (default: DefaultPattern).
	Pattern string
	// FromStart emits the existing content of files present at startup.
	// Otherwise only bytes appended after Run starts are emitted.
	FromStart bool
	// MaxLineBytes splits lines longer than this (default: DefaultMaxLineBytes).
	MaxLineBytes int
	// Debounce is the write coalescing window (default: DefaultDebounce).
	Debounce time.Duration
}

// tracked is the read state of one followed file.
type tracked struct {
	offset  int64
	partial []byte
}

// Tailer watches a directory and emits lines appended to matching files.
type Tailer struct {
	watcher *fsnotify.Watcher
	dir     string
	match   glob.Glob
	opts    Options
	logger  *logging.Logger

	mu    sync.Mutex
	files map[string]*tracked

	lines chan Line
	errs  chan error

	ready    chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New validates opts and sets up the directory watch. It does not read
// anything until Run is called.
func New(opts Options, logger *logging.Logger) (*Tailer, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	match, err := glob.Compile(opts.Pattern)
	if err != nil {
		return nil, errors.NewTailError("cannot compile pattern "+opts.Pattern, errors.Join(errors.ErrInvalidPattern, err)).
			WithRetryable(false)
	}

	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, errors.NewTailError("cannot watch directory", err).WithDir(opts.Dir).WithRetryable(false)
	}
	if !info.IsDir() {
		return nil, errors.NewTailError("not a directory", nil).WithDir(opts.Dir).WithRetryable(false)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewTailError("cannot create watcher", errors.Join(errors.ErrWatcherUnavailable, err)).
			WithSeverity(errors.SeverityCritical)
	}
	if err := watcher.Add(opts.Dir); err != nil {
		_ = watcher.Close()
		return nil, errors.NewTailError("cannot watch directory", errors.Join(errors.ErrWatcherUnavailable, err)).
			WithDir(opts.Dir)
	}

	return &Tailer{
		watcher: watcher,
		dir:     opts.Dir,
		match:   match,
		opts:    opts,
		logger:  logger.WithComponent("tail"),
		files:   make(map[string]*tracked),
		lines:   make(chan Line, 256),
		errs:    make(chan error, 16),
		ready:   make(chan struct{}),
		stopCh:  make(chan struct{}),
	}, nil
}

// Lines returns the channel appended lines are sent on. It is never closed;
// stop reading when Run returns.
func (t *Tailer) Lines() <-chan Line { return t.lines }

// Errors returns the channel read and watch errors are sent on. Errors are
// dropped when nobody keeps up with the channel.
func (t *Tailer) Errors() <-chan error { return t.errs }

// Ready is closed once Run has scanned the files already present. Bytes
// written after that are emitted.
func (t *Tailer) Ready() <-chan struct{} { return t.ready }

// Files returns the base names of the files currently followed, sorted.
func (t *Tailer) Files() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.files))
	for path := range t.files {
		names = append(names, filepath.Base(path))
	}
	sort.Strings(names)
	return names
}

// Run follows the directory until ctx is cancelled or Close is called.
func (t *Tailer) Run(ctx context.Context) error {
	if err := t.scan(ctx); err != nil {
		return err
	}
	close(t.ready)

	// Writes usually arrive in bursts; read each file once per burst.
	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-t.stopCh:
			return nil

		case ev, ok := <-t.watcher.Events:
			if !ok {
				return nil
			}
			if !t.matches(ev.Name) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				t.forget(ev.Name)
				delete(pending, ev.Name)
			case ev.Op&fsnotify.Create != 0:
				t.track(ev.Name, 0)
				pending[ev.Name] = struct{}{}
				debounce.Reset(t.opts.Debounce)
			case ev.Op&fsnotify.Write != 0:
				pending[ev.Name] = struct{}{}
				debounce.Reset(t.opts.Debounce)
			}

		case <-debounce.C:
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			clear(pending)
			sort.Strings(paths)
			for _, path := range paths {
				if err := t.read(ctx, path); err != nil {
					if stop, exit := stopping(ctx, err); stop {
						return exit
					}
					t.report(err)
				}
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return nil
			}
			t.report(errors.NewTailError("watch failed", err).WithDir(t.dir))
		}
	}
}

// Close stops Run and releases the watcher. It is safe to call more than once.
func (t *Tailer) Close() error {
	var err error
	t.stopOnce.Do(func() {
		close(t.stopCh)
		err = t.watcher.Close()
	})
	return err
}

func (t *Tailer) matches(path string) bool {
	if filepath.Dir(path) != filepath.Clean(t.dir) {
		return false
	}
	return t.match.Match(filepath.Base(path))
}

// scan starts tracking the matching files already in the directory.
func (t *Tailer) scan(ctx context.Context) error {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return errors.NewTailError("cannot list directory", err).WithDir(t.dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || !t.match.Match(entry.Name()) {
			continue
		}
		path := filepath.Join(t.dir, entry.Name())
		if t.opts.FromStart {
			t.track(path, 0)
			if err := t.read(ctx, path); err != nil {
				if stop, exit := stopping(ctx, err); stop {
					return exit
				}
				t.report(err)
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			t.report(errors.NewTailError("cannot stat file", err).WithFile(path))
			continue
		}
		t.track(path, info.Size())
	}
	t.logger.Info("following directory", "dir", t.dir, "pattern", t.opts.Pattern, "files", len(t.Files()))
	return nil
}

func (t *Tailer) track(path string, offset int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.files[path]; ok {
		return
	}
	t.files[path] = &tracked{offset: offset}
	t.logger.WithFile(filepath.Base(path)).Debug("tracking file", "offset", offset)
}

func (t *Tailer) forget(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.files[path]; ok {
		delete(t.files, path)
		t.logger.WithFile(filepath.Base(path)).Debug("file gone")
	}
}

func (t *Tailer) state(path string) *tracked {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.files[path]
	if !ok {
		// A write to a file that appeared before the watch was set up.
		st = &tracked{}
		t.files[path] = st
	}
	return st
}

// read emits the complete lines appended to path since the last read. A
// trailing partial line is held until its newline arrives.
func (t *Tailer) read(ctx context.Context, path string) error {
	st := t.state(path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.forget(path)
			return nil
		}
		return errors.NewTailError("cannot open file", err).WithFile(path)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return errors.NewTailError("cannot stat file", err).WithFile(path)
	}
	if info.Size() < st.offset {
		t.logger.WithFile(filepath.Base(path)).Info("file truncated, restarting", "old_offset", st.offset, "size", info.Size())
		st.offset = 0
		st.partial = nil
	}
	if info.Size() == st.offset {
		return nil
	}
	if _, err := f.Seek(st.offset, io.SeekStart); err != nil {
		return errors.NewTailError("cannot seek", err).WithFile(path)
	}

	name := filepath.Base(path)
	r := bufio.NewReader(io.LimitReader(f, info.Size()-st.offset))
	for {
		chunk, err := r.ReadSlice('\n')
		st.offset += int64(len(chunk))
		st.partial = append(st.partial, chunk...)

		for lineLen(st.partial) > t.opts.MaxLineBytes {
			cut := splitPoint(st.partial, t.opts.MaxLineBytes)
			if err := t.emit(ctx, name, st.partial[:cut]); err != nil {
				return err
			}
			st.partial = append(st.partial[:0], st.partial[cut:]...)
		}
		if n := len(st.partial); n > 0 && st.partial[n-1] == '\n' {
			if err := t.emit(ctx, name, trimEOL(st.partial)); err != nil {
				return err
			}
			st.partial = st.partial[:0]
		}

		switch {
		case err == nil, err == bufio.ErrBufferFull:
			continue
		case err == io.EOF:
			return nil
		default:
			return errors.NewTailError("read failed", err).WithFile(path)
		}
	}
}

func (t *Tailer) emit(ctx context.Context, file string, text []byte) error {
	select {
	case t.lines <- Line{File: file, Text: string(text)}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.stopCh:
		return errStopped
	}
}

// stopping reports whether a failed read means Run must exit, and the error
// to exit with.
func stopping(ctx context.Context, err error) (bool, error) {
	if ctx.Err() != nil {
		return true, ctx.Err()
	}
	return errors.Is(err, errStopped), nil
}

func (t *Tailer) report(err error) {
	t.logger.Warn("tail error", "error", err)
	select {
	case t.errs <- err:
	default:
	}
}

// splitPoint returns where to cut b, which is longer than limit, so the
// first piece is at most limit bytes and does not end inside a UTF-8 rune.
func splitPoint(b []byte, limit int) int {
	for cut := limit; cut > 0; cut-- {
		if utf8.RuneStart(b[cut]) {
			return cut
		}
	}
	return limit
}

// lineLen is the length of b without its newline.
func lineLen(b []byte) int {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		return n - 1
	}
	return len(b)
}

func trimEOL(b []byte) []byte {
	b = b[:len(b)-1]
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return b
}
