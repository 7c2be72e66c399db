// FILE: lixenwraith/stylecheck/internal/app/coordinator.go
package app

import (
	"context"
	"fmt"

	"github.com/lixenwraith/stylecheck/config"
	"github.com/lixenwraith/stylecheck/internal/ctxlog"
	"github.com/lixenwraith/stylecheck/internal/output"
)

// Runner is what the coordinator needs from the application.
type Runner interface {
	CheckerCount() int
	ClearCache(ctx context.Context) error
	Run(ctx context.Context) error
	ProcessedFiles() int
}

// FormatterLookup resolves output formats by name
type FormatterLookup interface {
	GetByName(name string) (output.Formatter, error)
}

// Coordinator runs one check invocation: precondition checks, the run, the report.
type Coordinator struct {
	runner     Runner
	config     *Configuration
	formatters FormatterLookup
}

// NewCoordinator creates a coordinator
func NewCoordinator(runner Runner, cfg *Configuration, formatters FormatterLookup) *Coordinator {
	return &Coordinator{runner: runner, config: cfg, formatters: formatters}
}

// Execute returns the reporter's exit code. Configuration errors abort before
// any file is looked at.
func (c *Coordinator) Execute(ctx context.Context, in Input) (int, error) {
	logger := ctxlog.FromContext(ctx)

	format := in.OutputFormat
	if format == "" {
		format = output.DefaultFormat
	}
	formatter, err := c.formatters.GetByName(format)
	if err != nil {
		return output.ExitFailure, err
	}

	if c.runner.CheckerCount() == 0 {
		return output.ExitFailure, config.NewConfigurationError(
			`No checkers were found. Register them in your config in "services:" section, ` +
				`load them via "--config <file>.yml" or "--level <level>" option.`)
	}

	if err := c.config.ResolveFromInput(in); err != nil {
		return output.ExitFailure, err
	}
	logger.Debug("Run configuration resolved.",
		"sources", c.config.Sources(), "fix", c.config.IsFixer(), "format", formatter.Name())

	if c.config.ShouldClearCache() {
		if err := c.runner.ClearCache(ctx); err != nil {
			return output.ExitFailure, err
		}
	}

	if err := c.runner.Run(ctx); err != nil {
		return output.ExitFailure, fmt.Errorf("check run failed: %w", err)
	}

	return formatter.Report(c.runner.ProcessedFiles()), nil
}
