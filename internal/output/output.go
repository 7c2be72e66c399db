// FILE: lixenwraith/stylecheck/internal/output/output.go

// Package output renders run results and decides the process exit code.
package output

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/diff"

	"github.com/lixenwraith/stylecheck/config"
)

// Exit codes returned by formatters
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// DefaultFormat is used when no output format is requested
const DefaultFormat = "table"

// Formatter renders the collected results of a run.
type Formatter interface {
	Name() string
	// Report renders results and returns the process exit code.
	Report(processedFiles int) int
}

// RunSettings is what formatters read from the resolved run configuration.
// It is resolved after the formatter is picked, so formatters hold it by reference.
type RunSettings interface {
	IsFixer() bool
	ShouldShowErrorTable() bool
}

// Registry is the set of named formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a registry holding formatters
func NewRegistry(formatters ...Formatter) *Registry {
	r := &Registry{formatters: make(map[string]Formatter)}
	for _, f := range formatters {
		r.Register(f)
	}
	return r
}

// Register adds a formatter, replacing one with the same name
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Name()] = f
}

// Names returns the registered names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetByName returns the formatter registered under the exact name.
// An unknown name is a configuration error listing the valid names.
func (r *Registry) GetByName(name string) (Formatter, error) {
	if f, ok := r.formatters[name]; ok {
		return f, nil
	}
	return nil, config.NewConfigurationError(
		"Output format %q was not found. Pick one of: \"%s\".", name, strings.Join(r.Names(), `", "`))
}

// unifiedDiff renders a/ and b/ versions of file as a unified diff.
func unifiedDiff(ctx context.Context, d FileDiff, color bool) (string, error) {
	path := filepath.ToSlash(d.File)
	opts := []diff.WriteOpt{diff.Names("a/"+path, "b/"+path)}
	if color {
		opts = append(opts, diff.TerminalColor())
	}

	pair := diff.Bytes(splitLines(d.Original), splitLines(d.Fixed))
	edit := diff.Myers(ctx, pair).WithContextSize(3)

	var buf bytes.Buffer
	if _, err := edit.WriteUnified(&buf, pair, opts...); err != nil {
		return "", fmt.Errorf("failed to write diff for '%s': %w", d.File, err)
	}
	return buf.String(), nil
}

func splitLines(b []byte) [][]byte {
	return bytes.Split(b, []byte("\n"))
}
