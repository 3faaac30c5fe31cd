// Package logging provides structured logging for tailpin.
//
// It wraps Go's log/slog to write JSON-formatted lines to a log file in the
// state directory. The terminal belongs to the TUI while tailpin runs, so
// logs never go to the screen unless the caller asks for stderr explicitly.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(stateDir, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("following", "dir", dir, "pattern", pattern)
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	engineLog := logger.WithComponent("engine")
//	tailLog := logger.WithComponent("tail").WithFile("app.log")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"file tracked","component":"tail","file":"app.log"}
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewLoggerWithWriter] with a
// bytes.Buffer to assert on what was logged.
package logging
