// FILE: lixenwraith/stylecheck/internal/app/application.go
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/lixenwraith/stylecheck/config"
	"github.com/lixenwraith/stylecheck/internal/cache"
	"github.com/lixenwraith/stylecheck/internal/checker"
	"github.com/lixenwraith/stylecheck/internal/ctxlog"
	"github.com/lixenwraith/stylecheck/internal/fsutil"
	"github.com/lixenwraith/stylecheck/internal/output"
)

// Application runs the checkers over the configured sources.
type Application struct {
	fs        billy.Filesystem
	registry  *config.Registry
	factory   *checker.Factory
	config    *Configuration
	collector *output.ErrorAndDiffCollector
	progressW io.Writer

	processed int
}

// NewApplication wires a run. Progress is drawn on progressW when enabled.
func NewApplication(
	fsys billy.Filesystem,
	registry *config.Registry,
	factory *checker.Factory,
	cfg *Configuration,
	collector *output.ErrorAndDiffCollector,
	progressW io.Writer,
) *Application {
	return &Application{
		fs:        fsys,
		registry:  registry,
		factory:   factory,
		config:    cfg,
		collector: collector,
		progressW: progressW,
	}
}

// CheckerCount is the number of checker-tagged services in the registry
func (a *Application) CheckerCount() int {
	return a.registry.CountTagged(config.CheckerTag)
}

// ProcessedFiles is the number of files the last Run looked at
func (a *Application) ProcessedFiles() int {
	return a.processed
}

// ClearCache removes the changed-files cache.
func (a *Application) ClearCache(ctx context.Context) error {
	settings, err := LoadSettings(a.registry.Parameters())
	if err != nil {
		return err
	}
	detector, err := a.detector(ctx, settings)
	if err != nil {
		return err
	}
	return detector.Clear()
}

// Run checks every source file and records results in the collector.
func (a *Application) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	settings, err := LoadSettings(a.registry.Parameters())
	if err != nil {
		return err
	}

	instances, err := a.factory.Build(a.registry.Services())
	if err != nil {
		return err
	}
	logger.Debug("Checkers built.", "count", len(instances))

	files, err := a.findFiles(settings)
	if err != nil {
		return err
	}
	logger.Debug("Files found.", "count", len(files))

	detector, err := a.detector(ctx, settings)
	if err != nil {
		return err
	}
	if err := detector.Load(); err != nil {
		return err
	}

	var bar *progressBar
	if a.config.ShowProgressBar() {
		bar = newProgressBar(a.progressW, len(files))
	}

	rules := settings.skipRules()
	a.processed = 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.processFile(logger, detector, instances, rules, path)
		a.processed++
		if bar != nil {
			bar.Advance()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if err := detector.Save(); err != nil {
		logger.Warn("Failed to save cache.", "error", err)
	}
	return nil
}

func (a *Application) processFile(
	logger *slog.Logger,
	detector *cache.ChangedFilesDetector,
	instances []checker.Instance,
	rules map[string]skipRule,
	path string,
) {
	display := a.displayPath(path)

	content, err := util.ReadFile(a.fs, path)
	if err != nil {
		a.collector.AddSystemError(display, err)
		return
	}

	if !detector.HasChanged(path, content) {
		logger.Debug("Unchanged file skipped.", "file", display)
		return
	}

	skipped := func(inst checker.Instance) bool {
		for _, key := range []string{inst.Class, inst.Service} {
			if rule, ok := rules[key]; ok && rule.matches(display) {
				return true
			}
		}
		return false
	}

	fixed := content
	var applied []string
	for _, inst := range instances {
		fixer, ok := inst.Fixer()
		if !ok || skipped(inst) {
			continue
		}
		if out := fixer.Fix(display, fixed); !bytes.Equal(out, fixed) {
			fixed = out
			applied = append(applied, inst.Class)
		}
	}

	violations := 0
	for _, inst := range instances {
		c, ok := inst.Checker()
		if !ok || skipped(inst) {
			continue
		}
		for _, v := range c.Check(display, fixed) {
			if v.Checker == "" {
				v.Checker = inst.Class
			}
			a.collector.AddViolation(v)
			violations++
		}
	}

	clean := violations == 0
	if len(applied) > 0 {
		a.collector.AddDiff(output.FileDiff{
			File:            display,
			Original:        content,
			Fixed:           fixed,
			AppliedCheckers: applied,
		})

		if a.config.IsFixer() {
			if err := fsutil.WriteFileAtomic(a.fs, path, fixed); err != nil {
				a.collector.AddSystemError(display, err)
				clean = false
			}
		} else {
			clean = false
		}
	}

	if clean {
		detector.Add(path, fixed)
	} else {
		detector.Invalidate(path)
	}
}

// findFiles lists files under the sources with a configured extension,
// minus excluded ones. Explicitly named files skip the extension filter.
func (a *Application) findFiles(settings Settings) ([]string, error) {
	extensions := make(map[string]bool, len(settings.FileExtensions))
	for _, ext := range settings.FileExtensions {
		extensions["."+strings.TrimPrefix(ext, ".")] = true
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if seen[path] || matchesAny(settings.ExcludeFiles, a.displayPath(path)) {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, source := range a.config.Sources() {
		info, err := a.fs.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("failed to stat source '%s': %w", source, err)
		}
		if !info.IsDir() {
			add(source)
			continue
		}

		err = util.Walk(a.fs, source, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && extensions[filepath.Ext(path)] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk source '%s': %w", source, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (a *Application) detector(ctx context.Context, settings Settings) (*cache.ChangedFilesDetector, error) {
	effective := struct {
		Parameters config.ParameterBag
		Services   []config.Service
	}{a.registry.Parameters(), a.registry.Services()}
	fingerprint, err := cache.Fingerprint(a.fs, a.registry.Resources(), effective)
	if err != nil {
		return nil, err
	}

	dir := settings.CacheDirectory
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(a.config.BaseDir(), dir)
	}
	return cache.New(a.fs, dir, fingerprint, ctxlog.FromContext(ctx)), nil
}

// displayPath is path relative to the base directory when it lies below it.
func (a *Application) displayPath(path string) string {
	rel, err := filepath.Rel(a.config.BaseDir(), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
