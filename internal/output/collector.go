// FILE: lixenwraith/stylecheck/internal/output/collector.go
package output

import (
	"sort"
	"sync"

	"github.com/lixenwraith/stylecheck/internal/checker"
)

// FileDiff is the change fixers made, or would make, to one file
type FileDiff struct {
	File            string
	Original        []byte
	Fixed           []byte
	AppliedCheckers []string
}

// SystemError is a failure unrelated to style, e.g. an unreadable file
type SystemError struct {
	File    string
	Message string
}

// ErrorAndDiffCollector gathers run results for the formatters.
type ErrorAndDiffCollector struct {
	violations   []checker.Violation
	diffs        []FileDiff
	systemErrors []SystemError
	mutex        sync.Mutex
}

// NewCollector creates an empty collector
func NewCollector() *ErrorAndDiffCollector {
	return &ErrorAndDiffCollector{}
}

// AddViolation records a finding that needs a manual fix
func (c *ErrorAndDiffCollector) AddViolation(v checker.Violation) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.violations = append(c.violations, v)
}

// AddDiff records a fixable change
func (c *ErrorAndDiffCollector) AddDiff(d FileDiff) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.diffs = append(c.diffs, d)
}

// AddSystemError records a failure that prevented checking a file
func (c *ErrorAndDiffCollector) AddSystemError(file string, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.systemErrors = append(c.systemErrors, SystemError{File: file, Message: err.Error()})
}

// Violations returns findings sorted by file and line
func (c *ErrorAndDiffCollector) Violations() []checker.Violation {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	out := append([]checker.Violation(nil), c.violations...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// Diffs returns fixable changes sorted by file
func (c *ErrorAndDiffCollector) Diffs() []FileDiff {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	out := append([]FileDiff(nil), c.diffs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// SystemErrors returns failures in the order they happened
func (c *ErrorAndDiffCollector) SystemErrors() []SystemError {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]SystemError(nil), c.systemErrors...)
}

// ErrorCount is the number of violations
func (c *ErrorAndDiffCollector) ErrorCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.violations)
}

// FileDiffCount is the number of files with fixable changes
func (c *ErrorAndDiffCollector) FileDiffCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.diffs)
}
