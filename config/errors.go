// FILE: lixenwraith/stylecheck/config/errors.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedDocument is returned when a configuration document has an invalid shape
	ErrMalformedDocument = errors.New("malformed configuration document")

	// ErrResourceNotFound is returned by the locator when a resource cannot be found
	ErrResourceNotFound = errors.New("configuration resource not found")

	// ErrImportCycle is returned when an import chain revisits a file
	ErrImportCycle = errors.New("configuration import cycle")

	// ErrConfiguration marks errors the user fixes by changing configuration or flags
	ErrConfiguration = errors.New("configuration error")

	// ErrUnsupportedFormat is returned when no decoder exists for a document format
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// MalformedDocumentError identifies the offending file and what is wrong with it.
type MalformedDocumentError struct {
	File   string
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s in %s. Check your YAML syntax.", e.Reason, e.File)
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// ResourceNotFoundError lists where the locator looked.
type ResourceNotFoundError struct {
	Resource string
	Paths    []string
}

func (e *ResourceNotFoundError) Error() string {
	if len(e.Paths) == 0 {
		return fmt.Sprintf("the file %q does not exist", e.Resource)
	}
	return fmt.Sprintf("the file %q does not exist (in: %s)", e.Resource, strings.Join(e.Paths, ", "))
}

func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// ImportCycleError carries the chain of files ending in the repeated one.
type ImportCycleError struct {
	Chain []string
}

func (e *ImportCycleError) Error() string {
	return fmt.Sprintf("circular import detected: %s", strings.Join(e.Chain, " -> "))
}

func (e *ImportCycleError) Is(target error) bool {
	return target == ErrImportCycle
}

// ConfigurationError is shown to the user as is, it should say how to fix the problem.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError formats a ConfigurationError
func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

func malformed(file, format string, args ...any) error {
	return &MalformedDocumentError{File: file, Reason: fmt.Sprintf(format, args...)}
}
