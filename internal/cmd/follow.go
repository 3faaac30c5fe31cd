package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/tailpin/internal/config"
	"github.com/Iron-Ham/tailpin/internal/errors"
	"github.com/Iron-Ham/tailpin/internal/logging"
	"github.com/Iron-Ham/tailpin/internal/tail"
	"github.com/Iron-Ham/tailpin/internal/tui"
)

// isTerminal is replaced in tests.
var isTerminal = term.IsTerminal

var followCmd = &cobra.Command{
	Use:   "follow [dir]",
	Short: "Follow the log files in a directory",
	Long: `Follow the files in dir (default: the current directory) whose names
match the pattern, and show new lines as they are written.

The pane follows the newest line until you scroll away. Scroll back to the
bottom, or press b, to follow again. Press f to keep the current view steady
while lines keep arriving, t to pin the top, and u to release any lock.

A line of the form "@attach <path>" is shown as the contents of that file,
read relative to dir.

Examples:
  # Follow *.log in the current directory
  tailpin follow

  # Follow every .out and .err file from the beginning
  tailpin follow ./logs --pattern '*.{out,err}' --from-start

  # Start at the top and poll instead of observing changes
  tailpin follow --position top --poll --interval 250`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFollow,
}

func init() {
	rootCmd.AddCommand(followCmd)

	followCmd.Flags().String("pattern", "", "glob matched against file names (default: *.log)")
	followCmd.Flags().String("position", "", "initial position: top, bottom or a row offset")
	followCmd.Flags().Int("interval", 0, "fallback poll interval in milliseconds")
	followCmd.Flags().Bool("from-start", false, "show the existing content of files")
	followCmd.Flags().Bool("poll", false, "poll for changes instead of observing them")

	_ = viper.BindPFlag("tail.pattern", followCmd.Flags().Lookup("pattern"))
	_ = viper.BindPFlag("scroll.position", followCmd.Flags().Lookup("position"))
	_ = viper.BindPFlag("scroll.interval_ms", followCmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("tail.from_start", followCmd.Flags().Lookup("from-start"))
}

// followConfig applies the positional dir and --poll, then loads and
// validates the configuration.
func followConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	if len(args) == 1 {
		viper.Set("tail.dir", args[0])
	}
	if poll, _ := cmd.Flags().GetBool("poll"); poll {
		viper.Set("scroll.observe_mutations", false)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runFollow(cmd *cobra.Command, args []string) error {
	cfg, err := followConfig(cmd, args)
	if err != nil {
		return err
	}

	if !isTerminal(int(os.Stdout.Fd())) {
		return errors.Wrap(errors.ErrNotATerminal, "follow needs an interactive terminal")
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to start logging: %w", err)
		}
	}
	defer func() { _ = logger.Close() }()

	tailer, err := tail.New(tail.Options{
		Dir:          cfg.Tail.Dir,
		Pattern:      cfg.Tail.Pattern,
		FromStart:    cfg.Tail.FromStart,
		MaxLineBytes: cfg.Tail.MaxLineBytes,
	}, logger)
	if err != nil {
		return err
	}

	app, err := tui.New(cfg, tailer, logger)
	if err != nil {
		_ = tailer.Close()
		return err
	}
	return app.Run(cmd.Context())
}
