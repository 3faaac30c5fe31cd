package tui

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/tailpin/internal/attach"
	"github.com/Iron-Ham/tailpin/internal/config"
	"github.com/Iron-Ham/tailpin/internal/logging"
	"github.com/Iron-Ham/tailpin/internal/tail"
	"github.com/Iron-Ham/tailpin/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	tailer  *tail.Tailer
	cfg     *config.Config
	logger  *logging.Logger
}

// New creates a new TUI application following tailer.
func New(cfg *config.Config, tailer *tail.Tailer, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	var loader *attach.Loader
	if cfg.Attach.Enabled {
		loader = attach.NewLoader(cfg.Tail.Dir, cfg.Attach.MaxLines, logger)
	}

	model, err := NewModel(Options{
		Config: cfg,
		Source: tailer,
		Loader: loader,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &App{
		model:  model,
		tailer: tailer,
		cfg:    cfg,
		logger: logger.WithComponent("app"),
	}, nil
}

// Run starts the tailer and the TUI, and blocks until the user quits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if a.cfg.TUI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	a.program = tea.NewProgram(a.model, opts...)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
		}
		// Send quit message to the TUI
		a.program.Send(tea.Quit())
	}()

	go func() {
		err := a.tailer.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("tailer stopped", "error", err)
			a.program.Send(msg.TailClosedMsg{Err: err})
		}
	}()

	a.logger.Info("following", "dir", a.cfg.Tail.Dir, "pattern", a.cfg.Tail.Pattern)
	_, err := a.program.Run()

	// The model closes the tailer on quit; a signal or failure may skip it.
	if cerr := a.tailer.Close(); cerr != nil {
		a.logger.Warn("closing tailer failed", "error", cerr)
	}
	return err
}
