// FILE: lixenwraith/stylecheck/internal/output/json.go
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

type jsonDiff struct {
	Diff            string   `json:"diff"`
	AppliedCheckers []string `json:"applied_checkers"`
}

type jsonError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
	Checker string `json:"checker"`
}

type jsonFile struct {
	Errors       []jsonError `json:"errors,omitempty"`
	Diffs        []jsonDiff  `json:"diffs,omitempty"`
	SystemErrors []string    `json:"system_errors,omitempty"`
}

type jsonTotals struct {
	Files        int `json:"files"`
	Errors       int `json:"errors"`
	Diffs        int `json:"diffs"`
	SystemErrors int `json:"system_errors"`
}

type jsonReport struct {
	Totals jsonTotals           `json:"totals"`
	Files  map[string]*jsonFile `json:"files"`
}

// JSONFormatter writes the results as a single JSON document.
type JSONFormatter struct {
	collector *ErrorAndDiffCollector
	settings  RunSettings
	w         io.Writer
}

// NewJSONFormatter creates a formatter writing JSON to w
func NewJSONFormatter(collector *ErrorAndDiffCollector, settings RunSettings, w io.Writer) *JSONFormatter {
	return &JSONFormatter{collector: collector, settings: settings, w: w}
}

func (*JSONFormatter) Name() string { return "json" }

// Report uses the same exit code rules as the table formatter.
func (f *JSONFormatter) Report(processedFiles int) int {
	report := jsonReport{Files: make(map[string]*jsonFile)}
	file := func(path string) *jsonFile {
		if report.Files[path] == nil {
			report.Files[path] = &jsonFile{}
		}
		return report.Files[path]
	}

	violations := f.collector.Violations()
	for _, v := range violations {
		entry := file(v.File)
		entry.Errors = append(entry.Errors, jsonError{Line: v.Line, Message: v.Message, Checker: v.Checker})
	}

	diffs := f.collector.Diffs()
	for _, d := range diffs {
		text, err := unifiedDiff(context.Background(), d, false)
		if err != nil {
			text = err.Error()
		}
		entry := file(d.File)
		entry.Diffs = append(entry.Diffs, jsonDiff{Diff: text, AppliedCheckers: d.AppliedCheckers})
	}

	systemErrors := f.collector.SystemErrors()
	for _, se := range systemErrors {
		entry := file(se.File)
		entry.SystemErrors = append(entry.SystemErrors, se.Message)
	}

	report.Totals = jsonTotals{
		Files:        processedFiles,
		Errors:       len(violations),
		Diffs:        len(diffs),
		SystemErrors: len(systemErrors),
	}

	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		fmt.Fprintf(f.w, `{"error": %q}`+"\n", err.Error())
		return ExitFailure
	}
	fmt.Fprintf(f.w, "%s\n", data)

	if len(violations) > 0 || len(systemErrors) > 0 {
		return ExitFailure
	}
	if len(diffs) > 0 && !f.settings.IsFixer() {
		return ExitFailure
	}
	return ExitSuccess
}
