// File: lixenwraith/stylecheck/config/convenience.go
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// Debug returns a formatted listing of resources, services and parameters
func (r *Registry) Debug() string {
	var b strings.Builder

	b.WriteString("Configuration Debug Info:\n")
	b.WriteString("Resources:\n")
	for _, path := range r.Resources() {
		b.WriteString(fmt.Sprintf("  %s\n", path))
	}

	b.WriteString("Services:\n")
	for _, s := range r.Services() {
		b.WriteString(fmt.Sprintf("  %s:\n", s.Name))
		if s.Definition.Alias != "" {
			b.WriteString(fmt.Sprintf("    Alias: %s\n", s.Definition.Alias))
		} else {
			b.WriteString(fmt.Sprintf("    Class: %s\n", s.Definition.Class))
		}
		for _, tag := range s.Definition.Tags {
			b.WriteString(fmt.Sprintf("    Tag: %s\n", tag.Name))
		}
		if len(s.Definition.Configuration) > 0 {
			b.WriteString(fmt.Sprintf("    Configuration: %v\n", s.Definition.Configuration))
		}
	}

	b.WriteString("Parameters:\n")
	paths, flat := r.Parameters().Flatten()
	for _, path := range paths {
		b.WriteString(fmt.Sprintf("  %s: %v\n", path, flat[path]))
	}

	return b.String()
}

// Dump writes the merged parameters to w in TOML format.
// Null parameters have no TOML representation and are left out.
func (r *Registry) Dump(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(dropNulls(r.Parameters())); err != nil {
		return fmt.Errorf("failed to marshal parameters to TOML: %w", err)
	}
	return nil
}

func dropNulls(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		if value == nil {
			continue
		}
		if nested, ok := asStringMap(value); ok {
			out[key] = dropNulls(nested)
			continue
		}
		out[key] = value
	}
	return out
}
