// File: lixenwraith/stylecheck/config/doc.go

// Package config loads stylecheck configuration: YAML, TOML or JSON documents with
// "imports", "parameters" and "services" sections, merged into a single Registry.
//
// Features:
//   - Recursive imports resolved depth-first relative to the importing file
//   - Parameter inheritance where already defined values are never overridden
//   - Shorthand service declarations normalized into canonical definitions
//   - Import cycle detection
//   - Typed parameter access and struct scanning via mapstructure
//   - Config file discovery: env var, current directory, XDG directories
//
// Quick Start:
//
//	registry, err := config.NewBuilder().
//	    WithFiles("stylecheck.yml").
//	    WithCheckerClasses(factory.Known).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dir, _ := registry.Parameters().String("cache_directory")
//
// Precedence (highest to lowest):
//  1. Command-line overrides (-set path=value)
//  2. Earlier loaded top-level files
//  3. Within one file: its own parameters, then its imports in document order
//
// A document looks like:
//
//	imports:
//	    - common.yml
//	    - { resource: optional.yml, ignore_errors: not_found }
//	parameters:
//	    skip:
//	        lines.LineLengthChecker: ~
//	services:
//	    whitespace.TrailingWhitespaceFixer: ~
//	    lines.LineLengthChecker:
//	        max_length: 100
package config
