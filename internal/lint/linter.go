// Package lint validates a documentation tree without writing output.
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tweedjs/docs/internal/header"
	"github.com/tweedjs/docs/internal/render"
	"github.com/tweedjs/docs/internal/toc"
)

// Severity classifies an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding against a source file.
type Issue struct {
	FilePath string   `json:"file"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result aggregates a lint run.
type Result struct {
	FilesTotal int     `json:"files_total"`
	Issues     []Issue `json:"issues"`
}

// ErrorCount returns the number of error-severity issues.
func (r *Result) ErrorCount() int { return r.count(SeverityError) }

// WarningCount returns the number of warning-severity issues.
func (r *Result) WarningCount() int { return r.count(SeverityWarning) }

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

func (r *Result) add(path, message string, severity Severity) {
	r.Issues = append(r.Issues, Issue{FilePath: path, Message: message, Severity: severity})
}

// Run checks the whole documentation tree: table of contents integrity,
// header blocks, Markdown rendering, fence languages, and dual-language
// example shape. Orphaned Markdown files not referenced by the table of
// contents are warnings.
func Run(srcDir string) (*Result, error) {
	result := &Result{}

	contents, err := toc.Load(srcDir)
	if err != nil {
		result.add(filepath.Join(srcDir, toc.RootFileName), err.Error(), SeverityError)
		return result, nil
	}

	referenced := map[string]bool{}
	for _, doc := range contents.AllDocuments() {
		referenced[doc.SourcePath] = true
		result.FilesTotal++
		lintDocument(result, doc)
	}

	if err := findOrphans(result, srcDir, referenced); err != nil {
		return nil, err
	}
	return result, nil
}

func lintDocument(result *Result, doc toc.Document) {
	source, err := os.ReadFile(doc.SourcePath)
	if err != nil {
		result.add(doc.SourcePath, fmt.Sprintf("unreadable: %v", err), SeverityError)
		return
	}

	hdr, body, had, _, err := header.Split(source)
	if err != nil {
		result.add(doc.SourcePath, err.Error(), SeverityError)
		return
	}
	if !had || hdr.Title() == "" {
		result.add(doc.SourcePath, "missing title in metadata block", SeverityWarning)
	}

	if _, err := render.Body(body); err != nil {
		result.add(doc.SourcePath, err.Error(), SeverityError)
	}
}

// findOrphans reports Markdown files present on disk but absent from the
// table of contents.
func findOrphans(result *Result, srcDir string, referenced map[string]bool) error {
	return filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if !referenced[path] {
			result.add(path, "not referenced by the table of contents", SeverityWarning)
		}
		return nil
	})
}
