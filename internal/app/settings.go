// FILE: lixenwraith/stylecheck/internal/app/settings.go
package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/stylecheck/config"
	"github.com/lixenwraith/stylecheck/internal/cache"
)

// Settings are the run parameters read from the merged configuration.
type Settings struct {
	CacheDirectory string         `yaml:"cache_directory"`
	FileExtensions []string       `yaml:"file_extensions"`
	ExcludeFiles   []string       `yaml:"exclude_files"`
	Skip           map[string]any `yaml:"skip"`
}

// DefaultSettings are used for anything the configuration leaves out
func DefaultSettings() Settings {
	return Settings{
		CacheDirectory: cache.DefaultDirectory(),
		FileExtensions: []string{"php"},
	}
}

// LoadSettings scans the top-level parameters over the defaults.
func LoadSettings(params config.ParameterBag) (Settings, error) {
	settings := DefaultSettings()
	if err := params.Scan("", &settings); err != nil {
		return Settings{}, fmt.Errorf("invalid parameters: %w", err)
	}

	for class, value := range settings.Skip {
		if value == nil {
			continue
		}
		if _, err := skipGlobs(value); err != nil {
			return Settings{}, config.NewConfigurationError("Invalid skip entry for %q: %v", class, err)
		}
	}
	return settings, nil
}

// skipRule tells whether a checker is skipped for a file
type skipRule struct {
	everywhere bool
	globs      []string
}

func (s Settings) skipRules() map[string]skipRule {
	rules := make(map[string]skipRule, len(s.Skip))
	for class, value := range s.Skip {
		if value == nil {
			rules[class] = skipRule{everywhere: true}
			continue
		}
		globs, _ := skipGlobs(value)
		rules[class] = skipRule{globs: globs}
	}
	return rules
}

func skipGlobs(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		globs := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of paths, got %T", item)
			}
			globs = append(globs, s)
		}
		return globs, nil
	}
	return nil, fmt.Errorf("expected null or a list of paths, got %T", value)
}

func (r skipRule) matches(path string) bool {
	return r.everywhere || matchesAny(r.globs, path)
}

// matchesAny reports whether a glob matches path, any trailing part of it,
// or any directory containing it.
func matchesAny(globs []string, path string) bool {
	path = filepath.ToSlash(path)
	segments := strings.Split(path, "/")

	for _, glob := range globs {
		glob = strings.TrimSuffix(filepath.ToSlash(glob), "/")
		for start := range segments {
			for end := len(segments); end > start; end-- {
				candidate := strings.Join(segments[start:end], "/")
				if ok, _ := filepath.Match(glob, candidate); ok {
					return true
				}
			}
		}
	}
	return false
}
