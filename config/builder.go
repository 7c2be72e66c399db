// File: lixenwraith/stylecheck/config/builder.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// ValidatorFunc validates a fully loaded registry
type ValidatorFunc func(r *Registry) error

// Builder provides a fluent interface for loading a registry
type Builder struct {
	registry    *Registry
	fs          billy.Filesystem
	searchPaths []string
	baseDir     string
	files       []string
	level       string
	levelsDir   string
	overrides   []string
	isChecker   ClassPredicate
	logger      *slog.Logger
	err         error
	validators  []ValidatorFunc
}

// NewBuilder creates a builder reading from the local filesystem relative to the working directory
func NewBuilder() *Builder {
	b := &Builder{
		registry:   NewRegistry(),
		fs:         osfs.New("/"),
		validators: make([]ValidatorFunc, 0),
	}

	cwd, err := os.Getwd()
	if err != nil {
		b.err = fmt.Errorf("failed to determine working directory: %w", err)
	}
	b.baseDir = cwd
	return b
}

// WithFilesystem replaces the filesystem resources are read from
func (b *Builder) WithFilesystem(fs billy.Filesystem) *Builder {
	b.fs = fs
	return b
}

// WithBaseDir sets the directory relative top-level files resolve against
func (b *Builder) WithBaseDir(dir string) *Builder {
	b.baseDir = dir
	return b
}

// WithSearchPaths adds directories the locator falls back to
func (b *Builder) WithSearchPaths(paths ...string) *Builder {
	b.searchPaths = append(b.searchPaths, paths...)
	return b
}

// WithFiles appends configuration files, loaded in the given order. Empty names are skipped.
func (b *Builder) WithFiles(paths ...string) *Builder {
	for _, path := range paths {
		if path != "" {
			b.files = append(b.files, path)
		}
	}
	return b
}

// WithLevel loads the preset <dir>/<level>.yml after the configuration files
func (b *Builder) WithLevel(level, dir string) *Builder {
	b.level = level
	b.levelsDir = dir
	return b
}

// WithOverrides sets "path=value" parameters that win over every file
func (b *Builder) WithOverrides(overrides ...string) *Builder {
	b.overrides = append(b.overrides, overrides...)
	return b
}

// WithCheckerClasses sets how checker services are recognized for tagging
func (b *Builder) WithCheckerClasses(fn ClassPredicate) *Builder {
	b.isChecker = fn
	return b
}

// WithLogger sets the logger passed to the loader
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build loads every configured resource into a new registry.
// Any load error is fatal; no partially loaded registry is returned.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}

	loader := NewLoader(b.registry, NewFileLocator(b.fs, b.searchPaths...), LoaderOptions{
		Normalizer: Normalizer{IsChecker: b.isChecker},
		Logger:     b.logger,
		BaseDir:    b.baseDir,
	})

	if err := loader.LoadAll(b.files...); err != nil {
		return nil, err
	}

	if b.level != "" {
		levelFile := filepath.Join(b.levelsDir, b.level+".yml")
		if !loader.FileExists(levelFile) {
			return nil, NewConfigurationError("Level %q was not found (looked for %s)", b.level, levelFile)
		}
		if err := loader.Load(levelFile); err != nil {
			return nil, err
		}
	}

	for _, override := range b.overrides {
		path, value, err := ParseOverride(override)
		if err != nil {
			return nil, &ConfigurationError{Message: err.Error()}
		}
		b.registry.OverrideParameter(path, value)
	}

	for _, validator := range b.validators {
		if err := validator(b.registry); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return b.registry, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Registry {
	registry, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return registry
}
