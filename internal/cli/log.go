// Package cli implements the eksdiagrams command-line interface.
//
// Running the binary without a subcommand renders the built-in EKS diagrams
// into the current directory. Subcommands render selected or user-defined
// diagrams, export them as definitions, DOT or Mermaid, validate definition
// files, serve previews over HTTP and manage the artifact cache.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and also handed to the pipeline runner,
// so render, cache and server events share one stream on stderr. User-facing
// status lines go to stdout through the helpers in ui.go.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if cmd, err := c.RootCommand().ExecuteContextC(ctx); err != nil {
//	    cli.PrintFailure(os.Stderr, cmd, err)
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger on w at level with short timestamps
// ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a step took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g.
// "Built 3 diagrams from stack.yaml (4ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx. The root command does this before any
// subcommand runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return log.Default()
}
