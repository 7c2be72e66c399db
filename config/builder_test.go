// FILE: lixenwraith/stylecheck/config/builder_test.go
package config

import (
	"bytes"
	"errors"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builderFixtures(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{
		"/project/stylecheck.yml": `
parameters:
    cache_directory: /tmp/cache
    exclude_files:
        - vendor/*
services:
    whitespace.TrailingWhitespaceFixer: ~
`,
		"/project/extra.yml": `
parameters:
    cache_directory: /var/cache
    line_ending: "\n"
services:
    lines.LineLengthChecker:
        max_length: 80
`,
		"/levels/strict.yml": `
parameters:
    cache_directory: /level/cache
    strict: true
services:
    whitespace.FinalNewlineFixer: ~
`,
	}
}

func TestBuilder(t *testing.T) {
	t.Run("FilesInOrder", func(t *testing.T) {
		fs := writeFiles(t, builderFixtures(t))

		registry, err := NewBuilder().
			WithFilesystem(fs).
			WithBaseDir("/project").
			WithFiles("stylecheck.yml", "", "extra.yml").
			WithCheckerClasses(isTestChecker).
			Build()
		require.NoError(t, err)

		params := registry.Parameters()
		dir, err := params.String("cache_directory")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/cache", dir, "first loaded file wins")
		assert.True(t, params.Has("line_ending"))
		assert.Equal(t, 2, registry.CountTagged(CheckerTag))
		assert.Equal(t, []string{"/project/stylecheck.yml", "/project/extra.yml"}, registry.Resources())
	})

	t.Run("LevelLoadsAfterFiles", func(t *testing.T) {
		fs := writeFiles(t, builderFixtures(t))

		registry, err := NewBuilder().
			WithFilesystem(fs).
			WithBaseDir("/project").
			WithFiles("stylecheck.yml").
			WithLevel("strict", "/levels").
			WithCheckerClasses(isTestChecker).
			Build()
		require.NoError(t, err)

		params := registry.Parameters()
		dir, _ := params.String("cache_directory")
		assert.Equal(t, "/tmp/cache", dir)
		strict, err := params.Bool("strict")
		require.NoError(t, err)
		assert.True(t, strict)

		_, ok := registry.Service("whitespace.FinalNewlineFixer")
		assert.True(t, ok)
	})

	t.Run("LevelKeepsUserService", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/project/stylecheck.yml": `
services:
    lines.LineLengthChecker:
        max_length: 80
`,
			"/levels/strict.yml": `
services:
    lines.LineLengthChecker:
        max_length: 120
    whitespace.FinalNewlineFixer: ~
`,
		})

		registry, err := NewBuilder().
			WithFilesystem(fs).
			WithBaseDir("/project").
			WithFiles("stylecheck.yml").
			WithLevel("strict", "/levels").
			WithCheckerClasses(isTestChecker).
			Build()
		require.NoError(t, err)

		def, ok := registry.Service("lines.LineLengthChecker")
		require.True(t, ok)
		assert.Equal(t, map[string]any{"max_length": 80}, def.Configuration)
		assert.Equal(t, 2, registry.CountTagged(CheckerTag))
	})

	t.Run("UnknownLevel", func(t *testing.T) {
		fs := writeFiles(t, builderFixtures(t))

		_, err := NewBuilder().
			WithFilesystem(fs).
			WithLevel("missing", "/levels").
			Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Contains(t, err.Error(), `Level "missing" was not found`)
	})

	t.Run("OverridesWin", func(t *testing.T) {
		fs := writeFiles(t, builderFixtures(t))

		registry, err := NewBuilder().
			WithFilesystem(fs).
			WithBaseDir("/project").
			WithFiles("stylecheck.yml").
			WithOverrides("cache_directory=/override", "skip.lines.LineLengthChecker=~").
			Build()
		require.NoError(t, err)

		params := registry.Parameters()
		dir, _ := params.String("cache_directory")
		assert.Equal(t, "/override", dir)

		skip, found := params.Get("skip")
		require.True(t, found)
		assert.Equal(t, map[string]any{"lines": map[string]any{"LineLengthChecker": nil}}, skip)
	})

	t.Run("InvalidOverride", func(t *testing.T) {
		_, err := NewBuilder().
			WithFilesystem(writeFiles(t, nil)).
			WithOverrides("no-equals-sign").
			Build()
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewBuilder().
			WithFilesystem(writeFiles(t, nil)).
			WithBaseDir("/project").
			WithFiles("absent.yml").
			Build()
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("SearchPaths", func(t *testing.T) {
		fs := writeFiles(t, builderFixtures(t))

		registry, err := NewBuilder().
			WithFilesystem(fs).
			WithBaseDir("/elsewhere").
			WithSearchPaths("/levels").
			WithFiles("strict.yml").
			Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"/levels/strict.yml"}, registry.Resources())
	})

	t.Run("Validators", func(t *testing.T) {
		fs := writeFiles(t, builderFixtures(t))
		errNoCheckers := errors.New("no checkers")
		var order []string

		_, err := NewBuilder().
			WithFilesystem(fs).
			WithBaseDir("/project").
			WithFiles("stylecheck.yml").
			WithValidator(func(r *Registry) error {
				order = append(order, "first")
				return nil
			}).
			WithValidator(nil).
			WithValidator(func(r *Registry) error {
				order = append(order, "second")
				if r.CountTagged(CheckerTag) == 0 {
					return errNoCheckers
				}
				return nil
			}).
			Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, errNoCheckers)
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().
				WithFilesystem(writeFiles(t, nil)).
				WithFiles("/absent.yml").
				MustBuild()
		})
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	r.AddParameters(map[string]any{"a": 1, "nested": map[string]any{"x": 1}})
	r.AddParameters(map[string]any{"a": 2, "b": 2, "nested": map[string]any{"x": 2, "y": 2}})
	assert.Equal(t, ParameterBag{
		"a":      1,
		"b":      2,
		"nested": map[string]any{"x": 1, "y": 2},
	}, r.Parameters())

	r.AddService("first", ServiceDefinition{Class: "a.Fixer", Tags: []Tag{{Name: CheckerTag}}})
	r.AddService("second", ServiceDefinition{Class: "support.Helper"})
	r.AddService("first", ServiceDefinition{Class: "b.Fixer", Tags: []Tag{{Name: CheckerTag}}})

	services := r.Services()
	require.Len(t, services, 2)
	assert.Equal(t, "first", services[0].Name, "re-registration keeps the original position")
	assert.Equal(t, "b.Fixer", services[0].Definition.Class, "later definition replaces")
	assert.Equal(t, 1, r.CountTagged(CheckerTag))
	assert.Len(t, r.TaggedServices(CheckerTag), 1)

	r.TrackResource("/a.yml")
	r.TrackResource("/b.yml")
	r.TrackResource("/a.yml")
	assert.Equal(t, []string{"/a.yml", "/b.yml"}, r.Resources())

	params := r.Parameters()
	params["a"] = 100
	again := r.Parameters()
	assert.Equal(t, 1, again["a"], "returned bag is a copy")
}

func TestDiscoverFile(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/etc/stylecheck/stylecheck.toml": "[parameters]\n",
		"/home/dev/stylecheck.yml":        "parameters: {}\n",
	})

	t.Run("EnvVarWins", func(t *testing.T) {
		t.Setenv("STYLECHECK_CONFIG", "/explicit.yml")
		opts := DefaultDiscoveryOptions("stylecheck")
		assert.Equal(t, "/explicit.yml", DiscoverFile(fs, opts))
	})

	t.Run("CustomPathsBeforeXDG", func(t *testing.T) {
		t.Setenv("STYLECHECK_CONFIG", "")
		t.Setenv("XDG_CONFIG_DIRS", "/etc")
		opts := DefaultDiscoveryOptions("stylecheck")
		opts.UseCurrentDir = false
		opts.Paths = []string{"/home/dev"}
		assert.Equal(t, "/home/dev/stylecheck.yml", DiscoverFile(fs, opts))

		opts.Paths = nil
		assert.Equal(t, "/etc/stylecheck/stylecheck.toml", DiscoverFile(fs, opts))
	})

	t.Run("NothingFound", func(t *testing.T) {
		t.Setenv("STYLECHECK_CONFIG", "")
		opts := FileDiscoveryOptions{Name: "stylecheck", Extensions: []string{".yml"}, Paths: []string{"/nowhere"}}
		assert.Empty(t, DiscoverFile(fs, opts))
	})

	t.Run("BuilderSkipsDiscoveryWithExplicitFiles", func(t *testing.T) {
		t.Setenv("STYLECHECK_CONFIG", "")
		opts := FileDiscoveryOptions{Name: "stylecheck", Extensions: []string{".yml"}, Paths: []string{"/home/dev"}}

		registry, err := NewBuilder().
			WithFilesystem(fs).
			WithFileDiscovery(opts).
			Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"/home/dev/stylecheck.yml"}, registry.Resources())

		registry, err = NewBuilder().
			WithFilesystem(fs).
			WithFiles("/etc/stylecheck/stylecheck.toml").
			WithFileDiscovery(opts).
			Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"/etc/stylecheck/stylecheck.toml"}, registry.Resources())
	})
}

func TestRegistryDumpAndDebug(t *testing.T) {
	r := NewRegistry()
	r.TrackResource("/cfg/stylecheck.yml")
	r.AddParameters(map[string]any{
		"cache_directory": "/tmp/cache",
		"skip": map[string]any{
			"lines.LineLengthChecker": nil,
			"whitespace.FinalNewlineFixer": []any{"tests/*"},
		},
	})
	r.AddService("lines.LineLengthChecker", ServiceDefinition{
		Class:         "lines.LineLengthChecker",
		Tags:          []Tag{{Name: CheckerTag}},
		Configuration: map[string]any{"max_length": 80},
	})
	r.AddService("long", ServiceDefinition{Alias: "lines.LineLengthChecker"})

	t.Run("Dump", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.Dump(&buf))

		var decoded map[string]any
		_, err := toml.Decode(buf.String(), &decoded)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/cache", decoded["cache_directory"])

		skip, ok := decoded["skip"].(map[string]any)
		require.True(t, ok)
		assert.NotContains(t, skip, "lines.LineLengthChecker", "nulls have no TOML form")
		assert.Equal(t, []any{"tests/*"}, skip["whitespace.FinalNewlineFixer"])
	})

	t.Run("Debug", func(t *testing.T) {
		out := r.Debug()
		assert.Contains(t, out, "/cfg/stylecheck.yml")
		assert.Contains(t, out, "Class: lines.LineLengthChecker")
		assert.Contains(t, out, "Alias: lines.LineLengthChecker")
		assert.Contains(t, out, "Tag: checker")
		assert.Contains(t, out, "cache_directory: /tmp/cache")
	})
}

func TestLoaderFileExists(t *testing.T) {
	fs := writeFiles(t, map[string]string{"/cfg/present.yml": ""})
	loader, registry := newTestLoader(fs)

	assert.True(t, loader.FileExists("present.yml"))
	assert.False(t, loader.FileExists("absent.yml"))
	assert.Equal(t, []string{"/cfg/present.yml"}, registry.Resources())
}
