// FILE: lixenwraith/stylecheck/config/document.go
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	importsKey    = "imports"
	parametersKey = "parameters"
	servicesKey   = "services"
)

// document is the decoded content of one configuration file
type document struct {
	imports    any
	parameters map[string]any
	services   RawServices
}

// decodeDocument parses data in the given format. A nil document means the file is empty.
func decodeDocument(file, format string, data []byte) (*document, error) {
	switch format {
	case "yaml", "json":
		// JSON is decoded as YAML so service order survives
		return decodeYAML(file, data)
	case "toml":
		return decodeTOML(file, data)
	default:
		return nil, fmt.Errorf("%w %q for file '%s'", ErrUnsupportedFormat, format, file)
	}
}

func decodeYAML(file string, data []byte) (*document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", file, err)
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}
	body := resolveAlias(root.Content[0])
	if body.Kind == yaml.ScalarNode && body.Tag == "!!null" {
		return nil, nil
	}
	if body.Kind != yaml.MappingNode {
		return nil, malformed(file, "The configuration should contain a mapping")
	}

	doc := &document{}
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i].Value
		value := resolveAlias(body.Content[i+1])

		switch key {
		case importsKey:
			if err := value.Decode(&doc.imports); err != nil {
				return nil, fmt.Errorf("failed to decode imports in '%s': %w", file, err)
			}

		case parametersKey:
			var params any
			if err := value.Decode(&params); err != nil {
				return nil, fmt.Errorf("failed to decode parameters in '%s': %w", file, err)
			}
			bag, err := parametersOf(file, params)
			if err != nil {
				return nil, err
			}
			doc.parameters = bag

		case servicesKey:
			services, err := servicesFromNode(file, value)
			if err != nil {
				return nil, err
			}
			doc.services = services

		default:
			return nil, unknownKeyError(file, key)
		}
	}

	return doc, nil
}

// servicesFromNode walks the mapping node so declaration order is kept.
func servicesFromNode(file string, node *yaml.Node) (RawServices, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, malformed(file, `The "services" key should contain a mapping`)
	}

	services := make(RawServices, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value

		var value any
		if err := resolveAlias(node.Content[i+1]).Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode service %q in '%s': %w", name, file, err)
		}

		decl, err := classifyDeclaration(file, name, value)
		if err != nil {
			return nil, err
		}
		services = append(services, RawService{Name: name, Declaration: decl})
	}
	return services, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func decodeTOML(file string, data []byte) (*document, error) {
	raw := make(map[string]any)
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML config file '%s': %w", file, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	doc := &document{}
	for key, value := range raw {
		switch key {
		case importsKey:
			doc.imports = value
		case parametersKey:
			bag, err := parametersOf(file, value)
			if err != nil {
				return nil, err
			}
			doc.parameters = bag
		case servicesKey:
		default:
			return nil, unknownKeyError(file, key)
		}
	}

	declared, _ := raw[servicesKey].(map[string]any)
	if _, present := raw[servicesKey]; present && declared == nil {
		return nil, malformed(file, `The "services" key should contain a mapping`)
	}

	// TOML maps are unordered, the metadata keeps declaration order
	seen := make(map[string]bool, len(declared))
	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != servicesKey || seen[key[1]] {
			continue
		}
		name := key[1]
		seen[name] = true

		decl, err := classifyDeclaration(file, name, declared[name])
		if err != nil {
			return nil, err
		}
		doc.services = append(doc.services, RawService{Name: name, Declaration: decl})
	}

	return doc, nil
}

func parametersOf(file string, value any) (map[string]any, error) {
	if value == nil {
		return nil, nil
	}
	bag, ok := asStringMap(value)
	if !ok {
		return nil, malformed(file, `The "parameters" key should contain a mapping`)
	}
	return bag, nil
}

func unknownKeyError(file, key string) error {
	return malformed(file, "There is no extension able to load the configuration for %q (valid keys are %q, %q and %q)",
		key, importsKey, parametersKey, servicesKey)
}

// resolveFormat picks the decoder: explicit type hint, then extension, then content sniffing.
func resolveFormat(typeHint, path string, data []byte) string {
	switch strings.ToLower(typeHint) {
	case "":
	case "yml", "yaml":
		return "yaml"
	default:
		return strings.ToLower(typeHint)
	}

	if format := detectFileFormat(path); format != "" {
		return format
	}
	return detectFormatFromContent(data)
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// TOML before YAML: most TOML parses as a YAML scalar
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil && len(tomlTest) > 0 {
		return "toml"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}
