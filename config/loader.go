// FILE: lixenwraith/stylecheck/config/loader.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"
)

// IgnoreMode controls which failures of an import are tolerated
type IgnoreMode int

const (
	// IgnoreNone fails the load on any import error (default)
	IgnoreNone IgnoreMode = iota
	// IgnoreNotFound tolerates a missing import only
	IgnoreNotFound
	// IgnoreAll tolerates any failure of the import
	IgnoreAll
)

// ImportSpec is one normalized entry of an "imports" section
type ImportSpec struct {
	Resource     string
	Type         string
	IgnoreErrors IgnoreMode
}

// tolerates reports whether err may be skipped. Import cycles never are.
func (s ImportSpec) tolerates(err error) bool {
	if errors.Is(err, ErrImportCycle) {
		return false
	}
	switch s.IgnoreErrors {
	case IgnoreAll:
		return true
	case IgnoreNotFound:
		return errors.Is(err, ErrResourceNotFound)
	default:
		return false
	}
}

// LoaderOptions configures a Loader
type LoaderOptions struct {
	// Normalizer rewrites service shorthand before services reach the sink
	Normalizer Normalizer

	// Logger receives debug output; nil discards it
	Logger *slog.Logger

	// BaseDir resolves relative top-level resources
	BaseDir string
}

// Loader resolves configuration files with their import chains into a ServiceSink.
// Within one chain a file's parameters win over the files it imports, and an earlier
// import wins over a later sibling. A file's services replace same-named services of
// its imports. Across Load calls the first loaded parameter or service wins.
type Loader struct {
	locator *FileLocator
	sink    ServiceSink
	opts    LoaderOptions
	logger  *slog.Logger
}

// NewLoader creates a loader reading through locator and writing into sink
func NewLoader(sink ServiceSink, locator *FileLocator, opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		locator: locator,
		sink:    sink,
		opts:    opts,
		logger:  logger,
	}
}

// Load resolves one top-level resource and adds its merged parameters and services
// to the sink. Parameters and services already in the sink are kept.
func (l *Loader) Load(resource string) error {
	return l.LoadTyped(resource, "")
}

// LoadTyped is Load with an explicit format hint ("yaml", "toml", "json")
func (l *Loader) LoadTyped(resource, typeHint string) error {
	bag, services, err := l.load(resource, typeHint, l.opts.BaseDir, nil)
	if err != nil {
		return err
	}

	l.sink.AddParameters(bag)
	for _, service := range services {
		if _, exists := l.sink.Service(service.Name); exists {
			l.logger.Debug("Service already defined, keeping it.", "resource", resource, "service", service.Name)
			continue
		}
		l.sink.AddService(service.Name, service.Definition)
	}
	return nil
}

// LoadAll loads resources in order; the first failure aborts.
func (l *Loader) LoadAll(resources ...string) error {
	for _, resource := range resources {
		if err := l.Load(resource); err != nil {
			return err
		}
	}
	return nil
}

// FileExists probes for a file and tracks it as a resource when present.
// Probe failures only mean the file is absent.
func (l *Loader) FileExists(path string) bool {
	located, err := l.locator.Locate(path, l.opts.BaseDir)
	if err != nil {
		return false
	}
	l.sink.TrackResource(located)
	return true
}

// load resolves one file and its imports depth-first and returns the merged
// parameters and services of that subtree. Nothing reaches the sink but tracked
// resources until the top-level file succeeds, so a tolerated failed import
// contributes nothing.
func (l *Loader) load(resource, typeHint, currentDir string, chain []string) (map[string]any, []Service, error) {
	path, err := l.locator.Locate(resource, currentDir)
	if err != nil {
		return nil, nil, err
	}

	for _, seen := range chain {
		if seen == path {
			cycle := append(append([]string(nil), chain...), path)
			return nil, nil, &ImportCycleError{Chain: cycle}
		}
	}
	chain = append(chain[:len(chain):len(chain)], path)

	data, err := util.ReadFile(l.locator.Filesystem(), path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	l.sink.TrackResource(path)

	doc, err := decodeDocument(path, resolveFormat(typeHint, path, data), data)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		l.logger.Debug("Empty configuration file.", "file", path)
		return map[string]any{}, nil, nil
	}

	imports, err := parseImports(path, doc.imports)
	if err != nil {
		return nil, nil, err
	}

	imported := make(map[string]any)
	var services []Service
	importDir := filepath.Dir(path)
	for _, spec := range imports {
		sub, subServices, err := l.load(spec.Resource, spec.Type, importDir, chain)
		if err != nil {
			if spec.tolerates(err) {
				l.logger.Debug("Ignoring failed import.", "file", path, "resource", spec.Resource, "error", err)
				continue
			}
			return nil, nil, err
		}
		l.logger.Debug("Import resolved.", "file", path, "resource", spec.Resource)
		imported = MergeKeepExisting(sub, imported)
		services = replaceServices(services, subServices)
	}

	own, err := l.opts.Normalizer.Normalize(doc.services)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid services in '%s': %w", path, err)
	}

	return MergeKeepExisting(imported, doc.parameters), replaceServices(services, own), nil
}

// replaceServices adds incoming to services. A same-named service is replaced
// in place, so registration order follows first appearance.
func replaceServices(services, incoming []Service) []Service {
	for _, in := range incoming {
		replaced := false
		for i := range services {
			if services[i].Name == in.Name {
				services[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			services = append(services, in)
		}
	}
	return services
}

// parseImports normalizes the raw "imports" value of a document.
func parseImports(file string, raw any) ([]ImportSpec, error) {
	if raw == nil {
		return nil, nil
	}

	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case []map[string]any:
		// TOML arrays of tables
		for _, m := range v {
			entries = append(entries, m)
		}
	default:
		return nil, malformed(file, `The "imports" key should contain an array`)
	}

	specs := make([]ImportSpec, 0, len(entries))
	for _, entry := range entries {
		spec, err := parseImportSpec(file, entry)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseImportSpec(file string, entry any) (ImportSpec, error) {
	if resource, ok := entry.(string); ok {
		entry = map[string]any{"resource": resource}
	}

	fields, ok := asStringMap(entry)
	if !ok {
		return ImportSpec{}, malformed(file, "An import should provide a resource")
	}

	resource, _ := fields["resource"].(string)
	if resource == "" {
		return ImportSpec{}, malformed(file, "An import should provide a resource")
	}

	spec := ImportSpec{Resource: resource}
	if typeHint, ok := fields["type"].(string); ok {
		spec.Type = typeHint
	}

	switch v := fields["ignore_errors"].(type) {
	case nil:
	case bool:
		if v {
			spec.IgnoreErrors = IgnoreAll
		}
	case string:
		if v != "not_found" {
			return ImportSpec{}, malformed(file, `"ignore_errors" accepts a boolean or "not_found", got %q`, v)
		}
		spec.IgnoreErrors = IgnoreNotFound
	default:
		return ImportSpec{}, malformed(file, `"ignore_errors" accepts a boolean or "not_found", got %T`, v)
	}

	return spec, nil
}
