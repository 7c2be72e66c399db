// FILE: lixenwraith/stylecheck/internal/checker/builtin/builtin.go

// Package builtin holds the rules shipped with stylecheck.
package builtin

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/lixenwraith/stylecheck/config"
	"github.com/lixenwraith/stylecheck/internal/checker"
)

const (
	TrailingWhitespaceFixer = "whitespace.TrailingWhitespaceFixer"
	FinalNewlineFixer       = "whitespace.FinalNewlineFixer"
	LineLengthChecker       = "lines.LineLengthChecker"
)

// Register adds the built-in classes to f
func Register(f *checker.Factory) {
	f.Register(TrailingWhitespaceFixer, func() any { return &trailingWhitespace{} })
	f.Register(FinalNewlineFixer, func() any { return &finalNewline{} })
	f.Register(LineLengthChecker, func() any { return &lineLength{MaxLength: 120} })
}

// NewFactory returns a factory with every built-in registered
func NewFactory() *checker.Factory {
	f := checker.NewFactory()
	Register(f)
	return f
}

// trailingWhitespace strips spaces and tabs at line ends.
type trailingWhitespace struct{}

func (*trailingWhitespace) Fix(_ string, content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	changed := false
	for i, line := range lines {
		body, eol := line, []byte(nil)
		// keep CR of CRLF endings
		if len(line) > 0 && line[len(line)-1] == '\r' {
			body, eol = line[:len(line)-1], []byte("\r")
		}
		trimmed := bytes.TrimRight(body, " \t")
		if len(trimmed) == len(body) {
			continue
		}
		lines[i] = append(append([]byte(nil), trimmed...), eol...)
		changed = true
	}
	if !changed {
		return content
	}
	return bytes.Join(lines, []byte("\n"))
}

// finalNewline makes non-empty content end with exactly one newline.
type finalNewline struct{}

func (*finalNewline) Fix(_ string, content []byte) []byte {
	if len(content) == 0 {
		return content
	}
	trimmed := bytes.TrimRight(content, "\n")
	if len(trimmed) == len(content)-1 {
		return content
	}
	fixed := make([]byte, 0, len(trimmed)+1)
	fixed = append(fixed, trimmed...)
	return append(fixed, '\n')
}

type lineLength struct {
	MaxLength int `yaml:"max_length"`
}

func (l *lineLength) Configure(options map[string]any) error {
	if err := config.Decode(options, l); err != nil {
		return err
	}
	if l.MaxLength <= 0 {
		return fmt.Errorf("max_length must be positive, got %d", l.MaxLength)
	}
	return nil
}

func (l *lineLength) Check(path string, content []byte) []checker.Violation {
	var violations []checker.Violation
	for i, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if n := utf8.RuneCount(line); n > l.MaxLength {
			violations = append(violations, checker.Violation{
				File:    path,
				Line:    i + 1,
				Checker: LineLengthChecker,
				Message: fmt.Sprintf("Line exceeds %d characters; contains %d characters", l.MaxLength, n),
			})
		}
	}
	return violations
}
