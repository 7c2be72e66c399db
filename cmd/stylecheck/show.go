// FILE: lixenwraith/stylecheck/cmd/stylecheck/show.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/subcommands"

	"github.com/lixenwraith/stylecheck/config"
)

type ShowCommand struct {
	configFlags

	Debug bool

	stdout io.Writer
	stderr io.Writer
}

func (*ShowCommand) Name() string     { return "show" }
func (*ShowCommand) Synopsis() string { return "show loaded checkers and merged parameters" }
func (*ShowCommand) Usage() string {
	return `Usage: stylecheck show [-debug] [-config file]... [-level name] [-set path=value]...

	Lists the checkers the configuration registers and prints the merged
	parameters as TOML.

Flags:
`
}

func (cmd *ShowCommand) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.Debug, "debug", false, "print every resource, service and parameter")
	cmd.configFlags.register(fs)
}

func (cmd *ShowCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stdout, stderr := cmd.stdout, cmd.stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cwd, err := os.Getwd()
	if err != nil {
		printError(stderr, err)
		return subcommands.ExitFailure
	}

	registry, _, err := cmd.configFlags.load(ctx, osfs.New("/"), cwd)
	if err != nil {
		printError(stderr, err)
		return subcommands.ExitFailure
	}

	if cmd.Debug {
		fmt.Fprint(stdout, registry.Debug())
		return subcommands.ExitSuccess
	}

	checkers := registry.TaggedServices(config.CheckerTag)
	fmt.Fprintf(stdout, "Loaded checkers: %d\n", len(checkers))
	for _, s := range checkers {
		if s.Name == s.Definition.Class {
			fmt.Fprintf(stdout, "  - %s\n", s.Name)
		} else {
			fmt.Fprintf(stdout, "  - %s (%s)\n", s.Name, s.Definition.Class)
		}
	}

	fmt.Fprintln(stdout, "\nParameters:")
	if err := registry.Dump(stdout); err != nil {
		printError(stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
