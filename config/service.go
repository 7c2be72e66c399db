// FILE: lixenwraith/stylecheck/config/service.go
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// CheckerTag marks services the run coordinator counts as checkers
const CheckerTag = "checker"

// canonicalKeys are the keys a canonical service declaration may use.
// A mapping using any other key is shorthand checker configuration.
var canonicalKeys = map[string]bool{
	"alias":         true,
	"class":         true,
	"arguments":     true,
	"tags":          true,
	"calls":         true,
	"configuration": true,
	"public":        true,
	"shared":        true,
	"lazy":          true,
	"autowire":      true,
	"abstract":      true,
	"parent":        true,
	"decorates":     true,
	"factory":       true,
	"properties":    true,
}

// Tag is a named label on a service with optional attributes
type Tag struct {
	Name       string         `yaml:"name"`
	Attributes map[string]any `yaml:",remain"`
}

// ServiceDefinition is the canonical form of a service declaration
type ServiceDefinition struct {
	Class         string         `yaml:"class"`
	Alias         string         `yaml:"alias"`
	Arguments     any            `yaml:"arguments"`
	Tags          []Tag          `yaml:"tags"`
	Calls         []any          `yaml:"calls"`
	Configuration map[string]any `yaml:"configuration"`
	Properties    map[string]any `yaml:"properties"`
	Public        *bool          `yaml:"public"`
	Shared        *bool          `yaml:"shared"`
	Lazy          bool           `yaml:"lazy"`
	Autowire      bool           `yaml:"autowire"`
	Abstract      bool           `yaml:"abstract"`
	Parent        string         `yaml:"parent"`
	Decorates     string         `yaml:"decorates"`
	Factory       any            `yaml:"factory"`
}

// HasTag reports whether the definition carries a tag with the given name
func (d ServiceDefinition) HasTag(name string) bool {
	for _, t := range d.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Service is a named canonical definition
type Service struct {
	Name       string
	Definition ServiceDefinition
}

// Declaration is a raw service declaration as written in a document.
// It is either Shorthand or Canonical.
type Declaration interface {
	declaration()
}

// Shorthand is a compact declaration: null, a class or "@alias" string,
// or a mapping holding checker configuration next to canonical keys.
type Shorthand struct {
	Value any
}

// Canonical is a mapping that only uses canonical keys
type Canonical struct {
	Fields map[string]any
}

func (Shorthand) declaration() {}
func (Canonical) declaration() {}

// RawService is one entry of a document's services section
type RawService struct {
	Name        string
	Declaration Declaration
}

// RawServices keeps document order
type RawServices []RawService

// classifyDeclaration decides the declaration shape once, at decode time.
func classifyDeclaration(file, name string, value any) (Declaration, error) {
	switch v := value.(type) {
	case nil, string:
		return Shorthand{Value: v}, nil
	}

	fields, isMap := asStringMap(value)
	if !isMap {
		return nil, malformed(file, "service %q must be null, a string or a mapping, got %T", name, value)
	}

	for key := range fields {
		if !canonicalKeys[key] {
			return Shorthand{Value: fields}, nil
		}
	}
	return Canonical{Fields: fields}, nil
}

// ClassPredicate reports whether a class name is a checker implementation
type ClassPredicate func(class string) bool

// Normalizer rewrites raw declarations into canonical definitions
type Normalizer struct {
	// IsChecker tags matching services with CheckerTag; nil tags nothing
	IsChecker ClassPredicate
}

// Normalize converts every raw declaration into canonical form, keeping order.
func (n Normalizer) Normalize(raw RawServices) ([]Service, error) {
	services := make([]Service, 0, len(raw))

	for _, entry := range raw {
		var fields map[string]any

		switch d := entry.Declaration.(type) {
		case Shorthand:
			fields = expandShorthand(d.Value)
		case Canonical:
			fields = d.Fields
		default:
			return nil, fmt.Errorf("service %q: unknown declaration type %T", entry.Name, entry.Declaration)
		}

		def, err := decodeDefinition(fields)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", entry.Name, err)
		}

		if def.Class == "" && def.Alias == "" {
			def.Class = entry.Name
		}
		if n.IsChecker != nil && def.Class != "" && n.IsChecker(def.Class) && !def.HasTag(CheckerTag) {
			def.Tags = append(def.Tags, Tag{Name: CheckerTag})
		}

		services = append(services, Service{Name: entry.Name, Definition: def})
	}

	return services, nil
}

// expandShorthand builds canonical fields from a shorthand value.
func expandShorthand(value any) map[string]any {
	fields := make(map[string]any)

	switch v := value.(type) {
	case nil:
	case string:
		if alias, ok := strings.CutPrefix(v, "@"); ok {
			fields["alias"] = alias
		} else {
			fields["class"] = v
		}
	default:
		m, _ := asStringMap(v)
		shifted := make(map[string]any)
		for key, val := range m {
			if canonicalKeys[key] {
				fields[key] = val
			} else {
				shifted[key] = val
			}
		}
		if existing, ok := asStringMap(fields["configuration"]); ok {
			// Explicit configuration wins over shifted keys
			shifted = MergeKeepExisting(shifted, existing)
		}
		fields["configuration"] = shifted
	}

	return fields
}

// decodeDefinition decodes canonical fields with the same decoder settings used for parameters.
func decodeDefinition(fields map[string]any) (ServiceDefinition, error) {
	var def ServiceDefinition

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTagHookFunc(),
		),
	})
	if err != nil {
		return def, fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(fields); err != nil {
		return def, fmt.Errorf("invalid service definition: %w", err)
	}
	return def, nil
}

// stringToTagHookFunc accepts "tags: [checker]" as well as "tags: [{name: checker}]"
func stringToTagHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(Tag{}) {
			return data, nil
		}
		return Tag{Name: data.(string)}, nil
	}
}
