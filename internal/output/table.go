// FILE: lixenwraith/stylecheck/internal/output/table.go
package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TableFormatter prints diffs of fixable files, a per-file error table and a summary.
type TableFormatter struct {
	collector *ErrorAndDiffCollector
	settings  RunSettings
	w         io.Writer
	color     bool
}

// NewTableFormatter creates the default formatter writing to w
func NewTableFormatter(collector *ErrorAndDiffCollector, settings RunSettings, w io.Writer, color bool) *TableFormatter {
	return &TableFormatter{collector: collector, settings: settings, w: w, color: color}
}

func (*TableFormatter) Name() string { return "table" }

// Report prints the results. It fails on any violation or system error, and in
// check mode also on fixable diffs.
func (f *TableFormatter) Report(processedFiles int) int {
	errorCount := f.collector.ErrorCount()
	diffCount := f.collector.FileDiffCount()
	systemErrors := f.collector.SystemErrors()

	if errorCount == 0 && diffCount == 0 && len(systemErrors) == 0 {
		f.printf("[OK] %d files checked, no errors found.\n", processedFiles)
		return ExitSuccess
	}

	f.printDiffs()

	if f.settings.ShouldShowErrorTable() {
		f.printErrorTable()
	}

	for _, se := range systemErrors {
		f.printf("[ERROR] System error in %s: %s\n", se.File, se.Message)
	}

	if f.settings.IsFixer() {
		if errorCount == 0 && len(systemErrors) == 0 {
			f.printf("[OK] %d files checked, %d %s fixed and no other errors found.\n",
				processedFiles, diffCount, plural(diffCount, "file", "files"))
			return ExitSuccess
		}
		f.printf("[ERROR] Found %d %s that must be fixed manually.\n", errorCount, plural(errorCount, "error", "errors"))
		return ExitFailure
	}

	if errorCount > 0 {
		f.printf("[ERROR] Found %d %s that must be fixed manually.\n", errorCount, plural(errorCount, "error", "errors"))
	}
	if diffCount > 0 {
		f.printf("[WARNING] %d %s can be fixed automatically. Run with \"--fix\" to apply.\n",
			diffCount, plural(diffCount, "file", "files"))
	}
	return ExitFailure
}

func (f *TableFormatter) printDiffs() {
	for i, d := range f.collector.Diffs() {
		text, err := unifiedDiff(context.Background(), d, f.color)
		if err != nil {
			f.printf("[ERROR] %v\n", err)
			continue
		}
		f.printf("%d) %s\n\n", i+1, d.File)
		f.printf("%s\n", text)
		f.printf("    Applied checkers:\n\n")
		for _, c := range d.AppliedCheckers {
			f.printf("     * %s\n", c)
		}
		f.printf("\n")
	}
}

func (f *TableFormatter) printErrorTable() {
	violations := f.collector.Violations()
	if len(violations) == 0 {
		return
	}

	tw := tabwriter.NewWriter(f.w, 0, 0, 2, ' ', 0)
	current := ""
	for _, v := range violations {
		if v.File != current {
			if current != "" {
				fmt.Fprintln(tw)
			}
			current = v.File
			fmt.Fprintf(tw, "%s\n", v.File)
			fmt.Fprintf(tw, "%s\n", strings.Repeat("-", len(v.File)))
			fmt.Fprintf(tw, "Line\tChecker\tMessage\n")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", v.Line, v.Checker, v.Message)
	}
	fmt.Fprintln(tw)
	tw.Flush()
}

func (f *TableFormatter) printf(format string, args ...any) {
	fmt.Fprintf(f.w, format, args...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
