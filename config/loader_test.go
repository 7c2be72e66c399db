// FILE: lixenwraith/stylecheck/config/loader_test.go
package config

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates fixture files on an in-memory filesystem
func writeFiles(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, util.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func newTestLoader(fs billy.Filesystem) (*Loader, *Registry) {
	registry := NewRegistry()
	loader := NewLoader(registry, NewFileLocator(fs), LoaderOptions{
		Normalizer: Normalizer{IsChecker: isTestChecker},
		BaseDir:    "/cfg",
	})
	return loader, registry
}

// TestParametersMerge covers parameter inheritance across import chains
func TestParametersMerge(t *testing.T) {
	t.Run("ConfigurationImportingParentWithSkipParameters", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/config-skip-with-import.yml": `
imports:
    - { resource: 'included/config-skip.yml' }
parameters:
    skip:
        firstCode: ~
`,
			"/cfg/included/config-skip.yml": `
imports:
    - deeper/config-skip-deep.yml
parameters:
    skip:
        secondCode: false
`,
			"/cfg/included/deeper/config-skip-deep.yml": `
parameters:
    skip:
        firstCode: "x"
        thirdCode: ~
`,
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("config-skip-with-import.yml"))

		assert.Equal(t, ParameterBag{
			"skip": map[string]any{
				"firstCode":  nil,
				"secondCode": false,
				"thirdCode":  nil,
			},
		}, registry.Parameters())
	})

	t.Run("ConfigurationImportingEmptyImport", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/config-skip-with-import-empty.yml": `
imports:
    - { resource: 'empty.yml' }
parameters:
    skip:
        firstCode: ~
        secondCode: ~
`,
			"/cfg/empty.yml": "",
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("config-skip-with-import-empty.yml"))

		assert.Equal(t, ParameterBag{
			"skip": map[string]any{"firstCode": nil, "secondCode": nil},
		}, registry.Parameters())
	})

	t.Run("ImportingFileOverridesImportedString", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/config-string-override.yml": `
imports:
    - config-string.yml
parameters:
    key: new_value
`,
			"/cfg/config-string.yml": `
parameters:
    key: old_value
`,
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("config-string-override.yml"))
		assert.Equal(t, ParameterBag{"key": "new_value"}, registry.Parameters())
	})

	t.Run("FirstLoadedRootConfigWins", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root-config.yml": `
parameters:
    cache_directory: first_value
`,
			"/cfg/root-config-override.yml": `
parameters:
    cache_directory: second_value
    extra: true
`,
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root-config.yml"))
		require.NoError(t, loader.Load("root-config-override.yml"))

		assert.Equal(t, ParameterBag{
			"cache_directory": "first_value",
			"extra":           true,
		}, registry.Parameters())
	})

	t.Run("EarlierSiblingImportWins", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": `
imports:
    - a.yml
    - b.yml
`,
			"/cfg/a.yml": "parameters: { indent: tabs }",
			"/cfg/b.yml": "parameters: { indent: spaces, width: 4 }",
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.yml"))
		assert.Equal(t, ParameterBag{"indent": "tabs", "width": 4}, registry.Parameters())
	})

	t.Run("SequencesAreNotConcatenated", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": `
imports: [base.yml]
parameters:
    exclude_files: [build/*]
`,
			"/cfg/base.yml": `
parameters:
    exclude_files: [vendor/*, cache/*]
`,
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.yml"))
		assert.Equal(t, ParameterBag{"exclude_files": []any{"build/*"}}, registry.Parameters())
	})
}

// TestImports tests import parsing and error handling
func TestImports(t *testing.T) {
	t.Run("BareStringEqualsResourceMapping", func(t *testing.T) {
		bare := writeFiles(t, map[string]string{
			"/cfg/root.yml":  "imports: [child.yml]",
			"/cfg/child.yml": "parameters: { a: 1 }",
		})
		mapped := writeFiles(t, map[string]string{
			"/cfg/root.yml":  "imports: [{ resource: child.yml }]",
			"/cfg/child.yml": "parameters: { a: 1 }",
		})

		l1, r1 := newTestLoader(bare)
		l2, r2 := newTestLoader(mapped)
		require.NoError(t, l1.Load("root.yml"))
		require.NoError(t, l2.Load("root.yml"))
		assert.Equal(t, r1.Parameters(), r2.Parameters())
		assert.Equal(t, ParameterBag{"a": 1}, r1.Parameters())
	})

	t.Run("ImportsNotASequence", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": "imports: child.yml",
		})

		loader, _ := newTestLoader(fs)
		err := loader.Load("root.yml")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedDocument)
		assert.Contains(t, err.Error(), `The "imports" key should contain an array`)
		assert.Contains(t, err.Error(), "/cfg/root.yml")
	})

	t.Run("ImportWithoutResource", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": "imports: [{ type: yaml }]",
		})

		loader, _ := newTestLoader(fs)
		err := loader.Load("root.yml")

		var malformedErr *MalformedDocumentError
		require.ErrorAs(t, err, &malformedErr)
		assert.Equal(t, "/cfg/root.yml", malformedErr.File)
		assert.Contains(t, err.Error(), "An import should provide a resource")
	})

	t.Run("MissingImportPropagatesNotFound", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": "imports: [missing.yml]",
		})

		loader, _ := newTestLoader(fs)
		err := loader.Load("root.yml")

		var notFound *ResourceNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing.yml", notFound.Resource)
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("MissingRootFile", func(t *testing.T) {
		loader, _ := newTestLoader(memfs.New())
		err := loader.Load("nope.yml")
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("IgnoreErrorsNotFound", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": `
imports:
    - { resource: missing.yml, ignore_errors: not_found }
parameters: { a: 1 }
`,
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.yml"))
		assert.Equal(t, ParameterBag{"a": 1}, registry.Parameters())
	})

	t.Run("IgnoreErrorsNotFoundKeepsMalformedFatal", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml":   "imports: [{ resource: broken.yml, ignore_errors: not_found }]",
			"/cfg/broken.yml": "imports: 42",
		})

		loader, _ := newTestLoader(fs)
		assert.ErrorIs(t, loader.Load("root.yml"), ErrMalformedDocument)
	})

	t.Run("IgnoreErrorsTrue", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml":   "imports: [{ resource: broken.yml, ignore_errors: true }]",
			"/cfg/broken.yml": "imports: 42",
		})

		loader, _ := newTestLoader(fs)
		assert.NoError(t, loader.Load("root.yml"))
	})

	t.Run("RelativeToImportingFile", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml":        "imports: [sets/psr.yml]",
			"/cfg/sets/psr.yml":    "imports: [common.yml]",
			"/cfg/sets/common.yml": "parameters: { from: sets }",
			"/cfg/common.yml":      "parameters: { from: root }",
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.yml"))
		assert.Equal(t, ParameterBag{"from": "sets"}, registry.Parameters())
	})

	t.Run("CycleDetected", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/a.yml": "imports: [b.yml]",
			"/cfg/b.yml": "imports: [a.yml]",
		})

		loader, _ := newTestLoader(fs)
		err := loader.Load("a.yml")

		var cycle *ImportCycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []string{"/cfg/a.yml", "/cfg/b.yml", "/cfg/a.yml"}, cycle.Chain)
	})

	t.Run("CycleDetectedDespiteIgnoreErrors", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/a.yml": "imports: [{ resource: b.yml, ignore_errors: true }]\nparameters: { k: a }",
			"/cfg/b.yml": "imports: [a.yml]",
		})

		loader, registry := newTestLoader(fs)
		err := loader.Load("a.yml")
		assert.ErrorIs(t, err, ErrImportCycle)
		assert.Empty(t, registry.Parameters())
	})

	t.Run("IgnoredImportContributesNoServices", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/a.yml": "imports: [{ resource: b.yml, ignore_errors: true }]",
			"/cfg/b.yml": "imports: [c.yml, missing.yml]",
			"/cfg/c.yml": "services: { lines.LineLengthChecker: ~ }\nparameters: { from: c }",
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("a.yml"))
		assert.Empty(t, registry.Services())
		assert.Empty(t, registry.Parameters())
	})

	t.Run("DiamondIsNotACycle", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml":   "imports: [left.yml, right.yml]",
			"/cfg/left.yml":   "imports: [shared.yml]",
			"/cfg/right.yml":  "imports: [shared.yml]",
			"/cfg/shared.yml": "parameters: { shared: true }",
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.yml"))
		assert.Equal(t, ParameterBag{"shared": true}, registry.Parameters())
	})
}

// TestServicesLoading tests that services reach the registry normalized
func TestServicesLoading(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/cfg/root.yml": `
imports: [base.yml]
services:
    lines.LineLengthChecker:
        max_length: 100
    whitespace.TrailingWhitespaceFixer: ~
`,
		"/cfg/base.yml": `
services:
    lines.LineLengthChecker:
        max_length: 80
    support.Helper: ~
`,
	})

	loader, registry := newTestLoader(fs)
	require.NoError(t, loader.Load("root.yml"))

	def, ok := registry.Service("lines.LineLengthChecker")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"max_length": 100}, def.Configuration, "importing file replaces imported service")

	assert.Equal(t, 2, registry.CountTagged(CheckerTag))
	assert.Equal(t, []string{"/cfg/root.yml", "/cfg/base.yml"}, registry.Resources())

	names := make([]string, 0)
	for _, s := range registry.Services() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"lines.LineLengthChecker", "support.Helper", "whitespace.TrailingWhitespaceFixer"}, names)
}

func TestServicesFirstLoadedWins(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"/cfg/user.yml": `
services:
    lines.LineLengthChecker:
        max_length: 80
`,
		"/cfg/preset.yml": `
services:
    lines.LineLengthChecker:
        max_length: 120
    whitespace.FinalNewlineFixer: ~
`,
	})

	loader, registry := newTestLoader(fs)
	require.NoError(t, loader.LoadAll("user.yml", "preset.yml"))

	def, ok := registry.Service("lines.LineLengthChecker")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"max_length": 80}, def.Configuration)
	assert.Equal(t, 2, registry.CountTagged(CheckerTag))
}

// TestDocumentFormats tests TOML and JSON documents and format hints
func TestDocumentFormats(t *testing.T) {
	t.Run("TOMLImport", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": `
imports: [base.toml]
parameters: { a: yaml }
`,
			"/cfg/base.toml": `
[parameters]
a = "toml"
b = 2

[services."whitespace.FinalNewlineFixer"]

[services."lines.LineLengthChecker"]
max_length = 90
`,
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.yml"))
		assert.Equal(t, ParameterBag{"a": "yaml", "b": int64(2)}, registry.Parameters())

		services := registry.Services()
		require.Len(t, services, 2)
		assert.Equal(t, "whitespace.FinalNewlineFixer", services[0].Name)
		assert.Equal(t, "lines.LineLengthChecker", services[1].Name)
		assert.Equal(t, map[string]any{"max_length": int64(90)}, services[1].Definition.Configuration)
	})

	t.Run("TOMLImportsArrayOfTables", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.toml": `
[[imports]]
resource = "child.yml"
`,
			"/cfg/child.yml": "parameters: { a: 1 }",
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.toml"))
		assert.Equal(t, ParameterBag{"a": 1}, registry.Parameters())
	})

	t.Run("JSONDocument", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.json": `{"parameters": {"a": [1, 2]}, "services": {"b.Fixer": null, "a.Fixer": null}}`,
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.json"))
		assert.Equal(t, ParameterBag{"a": []any{1, 2}}, registry.Parameters())

		services := registry.Services()
		require.Len(t, services, 2)
		assert.Equal(t, "b.Fixer", services[0].Name)
	})

	t.Run("TypeHintOverridesExtension", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml":  "imports: [{ resource: base.conf, type: toml }]",
			"/cfg/base.conf": "[parameters]\nkey = \"value\"\n",
		})

		loader, registry := newTestLoader(fs)
		require.NoError(t, loader.Load("root.yml"))
		assert.Equal(t, ParameterBag{"key": "value"}, registry.Parameters())
	})

	t.Run("UnknownTopLevelKey", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": "paramters: { a: 1 }",
		})

		loader, _ := newTestLoader(fs)
		err := loader.Load("root.yml")
		assert.ErrorIs(t, err, ErrMalformedDocument)
		assert.Contains(t, err.Error(), "paramters")
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": "parameters: [unclosed",
		})

		loader, _ := newTestLoader(fs)
		err := loader.Load("root.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})

	t.Run("ParametersNotAMapping", func(t *testing.T) {
		fs := writeFiles(t, map[string]string{
			"/cfg/root.yml": "parameters: [a, b]",
		})

		loader, _ := newTestLoader(fs)
		assert.ErrorIs(t, loader.Load("root.yml"), ErrMalformedDocument)
	})
}
