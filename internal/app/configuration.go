// FILE: lixenwraith/stylecheck/internal/app/configuration.go
package app

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/lixenwraith/stylecheck/config"
	"github.com/lixenwraith/stylecheck/internal/output"
)

// Input is a check invocation as parsed by the command line.
type Input struct {
	Sources       []string
	Fix           bool
	ClearCache    bool
	NoProgressBar bool
	NoErrorTable  bool
	OutputFormat  string
}

// Configuration holds the run options resolved from an Input.
// It is filled in by ResolveFromInput and read by the application and formatters.
type Configuration struct {
	fs      billy.Filesystem
	baseDir string

	sources         []string
	isFixer         bool
	clearCache      bool
	showProgressBar bool
	showErrorTable  bool
	outputFormat    string
}

// NewConfiguration creates an unresolved configuration. Relative sources resolve against baseDir.
func NewConfiguration(fs billy.Filesystem, baseDir string) *Configuration {
	return &Configuration{
		fs:              fs,
		baseDir:         baseDir,
		showProgressBar: true,
		showErrorTable:  true,
		outputFormat:    output.DefaultFormat,
	}
}

// ResolveFromInput copies the invocation options. Every source must exist.
func (c *Configuration) ResolveFromInput(in Input) error {
	if len(in.Sources) == 0 {
		return config.NewConfigurationError("No source to check was given. Pass one or more paths, e.g. \"check src\".")
	}

	sources := make([]string, 0, len(in.Sources))
	for _, source := range in.Sources {
		path := source
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.baseDir, path)
		}
		path = filepath.Clean(path)
		if _, err := c.fs.Stat(path); err != nil {
			return config.NewConfigurationError("Source %q does not exist.", source)
		}
		sources = append(sources, path)
	}

	c.sources = sources
	c.isFixer = in.Fix
	c.clearCache = in.ClearCache
	c.showProgressBar = !in.NoProgressBar
	c.showErrorTable = !in.NoErrorTable
	if in.OutputFormat != "" {
		c.outputFormat = in.OutputFormat
	}
	return nil
}

// Sources returns the absolute paths to check
func (c *Configuration) Sources() []string { return c.sources }

// BaseDir is the directory reported paths are relative to
func (c *Configuration) BaseDir() string { return c.baseDir }

func (c *Configuration) IsFixer() bool              { return c.isFixer }
func (c *Configuration) ShouldClearCache() bool     { return c.clearCache }
func (c *Configuration) ShowProgressBar() bool      { return c.showProgressBar }
func (c *Configuration) ShouldShowErrorTable() bool { return c.showErrorTable }
func (c *Configuration) OutputFormat() string       { return c.outputFormat }
