// FILE: lixenwraith/stylecheck/cmd/stylecheck/config.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/term"

	"github.com/lixenwraith/stylecheck/config"
	"github.com/lixenwraith/stylecheck/internal/checker"
	"github.com/lixenwraith/stylecheck/internal/checker/builtin"
	"github.com/lixenwraith/stylecheck/internal/ctxlog"
)

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// configFlags are shared by every command that loads configuration.
type configFlags struct {
	files     stringList
	level     string
	levelsDir string
	sets      stringList
}

func (c *configFlags) register(fs *flag.FlagSet) {
	fs.Var(&c.files, "config", "config file to load, repeatable; earlier files win")
	fs.StringVar(&c.level, "level", "", "load the <levels-dir>/<level>.yml preset after the config files")
	fs.StringVar(&c.levelsDir, "levels-dir", defaultLevelsDir(), "directory holding level presets")
	fs.Var(&c.sets, "set", "override a parameter, e.g. -set cache_directory=/tmp/x; repeatable")
}

// load builds the registry. Without -config the config file is discovered.
func (c *configFlags) load(ctx context.Context, fsys billy.Filesystem, baseDir string) (*config.Registry, *checker.Factory, error) {
	factory := builtin.NewFactory()

	builder := config.NewBuilder().
		WithFilesystem(fsys).
		WithBaseDir(baseDir).
		WithCheckerClasses(factory.Known).
		WithLogger(ctxlog.FromContext(ctx)).
		WithFiles(c.files...).
		WithFileDiscovery(config.DefaultDiscoveryOptions(programName)).
		WithOverrides(c.sets...)
	if c.level != "" {
		builder = builder.WithLevel(c.level, c.levelsDir)
	}

	registry, err := builder.Build()
	if err != nil {
		return nil, nil, err
	}

	ctxlog.FromContext(ctx).Debug("Configuration loaded.",
		"resources", registry.Resources(), "checkers", registry.CountTagged(config.CheckerTag))
	return registry, factory, nil
}

func defaultLevelsDir() string {
	if dir := os.Getenv("STYLECHECK_LEVELS_DIR"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, programName, "levels")
	}
	return "levels"
}

// useColor reports whether w is a terminal and NO_COLOR is unset.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	// See https://no-color.org
	_, noColor := os.LookupEnv("NO_COLOR")
	return !noColor
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "[ERROR] %v\n", err)
}
