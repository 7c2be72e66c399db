// FILE: lixenwraith/stylecheck/cmd/stylecheck/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/subcommands"

	"github.com/lixenwraith/stylecheck/internal/ctxlog"
)

const programName = "stylecheck"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.Bool("h", false, "alias for help")
	fs.Bool("help", false, "print usage")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "text", "log format: text or json")

	cdr := subcommands.NewCommander(fs, programName)
	cdr.Register(&CheckCommand{}, "")
	cdr.Register(&ShowCommand{}, "")
	cdr.Register(cdr.HelpCommand(), "help")
	cdr.Register(cdr.FlagsCommand(), "help")
	cdr.Register(cdr.CommandsCommand(), "help")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return int(subcommands.ExitUsageError)
	}

	logger := ctxlog.New(*logLevel, *logFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return int(cdr.Execute(ctx))
}
