// FILE: lixenwraith/stylecheck/config/decode.go
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the parameters under basePath into target.
// The target must be a non-nil pointer to a struct or map; fields use the "yaml" tag.
// A missing section decodes as empty.
func (p ParameterBag) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	sectionData, found := navigateToPath(p, basePath)
	if !found || sectionData == nil {
		sectionData = map[string]any{}
	}

	sectionMap, ok := asStringMap(sectionData)
	if !ok {
		return fmt.Errorf("parameter %q refers to non-map value (type %T)", basePath, sectionData)
	}

	return Decode(sectionMap, target)
}

// Decode decodes a generic map into target with the package decode hooks.
// Checkers use it for their configuration sections.
func Decode(input map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// parseValue attempts to parse a command-line string into a typed value
func parseValue(s string) any {
	switch s {
	case "null", "~":
		return nil
	}

	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}

// ParseOverride splits a "path=value" command-line override.
func ParseOverride(arg string) (string, any, error) {
	path, raw, ok := strings.Cut(arg, "=")
	if !ok || path == "" {
		return "", nil, fmt.Errorf("invalid parameter override %q, expected path=value", arg)
	}
	for _, segment := range strings.Split(path, ".") {
		if !isValidKeySegment(segment) {
			return "", nil, fmt.Errorf("invalid parameter key segment %q in path %q", segment, path)
		}
	}
	return path, parseValue(raw), nil
}
