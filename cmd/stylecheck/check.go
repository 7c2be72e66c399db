// FILE: lixenwraith/stylecheck/cmd/stylecheck/check.go
package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/subcommands"

	"github.com/lixenwraith/stylecheck/internal/app"
	"github.com/lixenwraith/stylecheck/internal/output"
)

type CheckCommand struct {
	configFlags

	Fix           bool
	ClearCache    bool
	NoProgressBar bool
	NoErrorTable  bool
	OutputFormat  string

	stdout io.Writer
	stderr io.Writer
}

func (*CheckCommand) Name() string     { return "check" }
func (*CheckCommand) Synopsis() string { return "check coding standard in one or more directories" }
func (*CheckCommand) Usage() string {
	return `Usage: stylecheck check [-fix] [-clear-cache] [-no-progress-bar] [-no-error-table]
	[-output-format table|json] [-config file]... [-level name] [-set path=value]... <path>...

	Checks the given files and directories with the configured checkers.
	With -fix, fixable violations are written back to the files.

Flags:
`
}

func (cmd *CheckCommand) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.Fix, "fix", false, "fix found violations")
	fs.BoolVar(&cmd.ClearCache, "clear-cache", false, "clear cache for already checked files")
	fs.BoolVar(&cmd.NoProgressBar, "no-progress-bar", false, "hide progress bar, e.g. for nicer CI output")
	fs.BoolVar(&cmd.NoErrorTable, "no-error-table", false, "hide error table, e.g. for a fast check of the error count")
	fs.StringVar(&cmd.OutputFormat, "output-format", output.DefaultFormat, "select output format: json, table")
	cmd.configFlags.register(fs)
}

func (cmd *CheckCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stdout, stderr := cmd.writers()

	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return subcommands.ExitUsageError
	}

	cwd, err := os.Getwd()
	if err != nil {
		printError(stderr, err)
		return subcommands.ExitFailure
	}
	fsys := osfs.New("/")

	registry, factory, err := cmd.configFlags.load(ctx, fsys, cwd)
	if err != nil {
		printError(stderr, err)
		return subcommands.ExitFailure
	}

	cfg := app.NewConfiguration(fsys, cwd)
	collector := output.NewCollector()
	formatters := output.NewRegistry(
		output.NewTableFormatter(collector, cfg, stdout, useColor(stdout)),
		output.NewJSONFormatter(collector, cfg, stdout),
	)
	application := app.NewApplication(fsys, registry, factory, cfg, collector, stderr)

	code, err := app.NewCoordinator(application, cfg, formatters).Execute(ctx, app.Input{
		Sources:       paths,
		Fix:           cmd.Fix,
		ClearCache:    cmd.ClearCache,
		NoProgressBar: cmd.NoProgressBar,
		NoErrorTable:  cmd.NoErrorTable,
		OutputFormat:  cmd.OutputFormat,
	})
	if err != nil {
		printError(stderr, err)
		return subcommands.ExitFailure
	}
	if code != output.ExitSuccess {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (cmd *CheckCommand) writers() (io.Writer, io.Writer) {
	stdout, stderr := cmd.stdout, cmd.stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}
