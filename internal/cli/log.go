// Package cli implements the racktower command-line interface.
//
// Commands load the layout file, apply one change through a
// [planner.Planner] and save it again, so every command is a complete
// edit session. Destructive changes (shrinking past placed modules,
// clearing, importing over a layout) ask for confirmation on the terminal;
// --yes answers for scripts, and a non-interactive stdin declines.
//
// # Configuration
//
// Global flags can also be set in ~/.config/racktower/config.toml or as
// RACKTOWER_<KEY> environment variables:
//
//	state = "/srv/lab/rack.json"
//	height = 12
//	width = "10inch"
//	resolution = "half"
//	listen = "127.0.0.1:7420"
//
// # Logging
//
// Diagnostics go to stderr through charmbracelet/log; --verbose switches to
// debug level, which also traces layout and store events.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered rack.svg (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
