package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, srcDir string) error
}

// NewFormatter returns the formatter for a --format value.
func NewFormatter(format string, useColor bool) (Formatter, error) {
	switch format {
	case "", "text":
		return &TextFormatter{useColor: useColor}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct {
	useColor bool
}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, result *Result, srcDir string) error {
	errorTag := color.New(color.FgRed, color.Bold)
	warnTag := color.New(color.FgYellow)
	if !f.useColor {
		errorTag.DisableColor()
		warnTag.DisableColor()
	}

	if _, err := fmt.Fprintf(w, "Checking documentation in: %s\n", srcDir); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}

	for _, issue := range result.Issues {
		tag := warnTag
		if issue.Severity == SeverityError {
			tag = errorTag
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s\n",
			tag.Sprintf("[%s]", issue.Severity), issue.FilePath, issue.Message); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Results:\n  %d files scanned\n", result.FilesTotal); err != nil {
		return err
	}

	errorCount := result.ErrorCount()
	warningCount := result.WarningCount()
	if errorCount > 0 {
		if _, err := fmt.Fprintf(w, "  %d error%s (blocks build)\n", errorCount, pluralize(errorCount)); err != nil {
			return err
		}
	}
	if warningCount > 0 {
		if _, err := fmt.Fprintf(w, "  %d warning%s (should fix)\n", warningCount, pluralize(warningCount)); err != nil {
			return err
		}
	}
	if errorCount == 0 && warningCount == 0 {
		if _, err := fmt.Fprintln(w, "  no issues found"); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter emits the raw result for tooling.
type JSONFormatter struct{}

// Format outputs results as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, srcDir string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
