// Package output serializes compiled documents and the manifest to the
// deployment directory.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tweedjs/docs/internal/manifest"
	"github.com/tweedjs/docs/internal/render"
)

// Document is the per-page JSON fragment consumed by the site frontend.
type Document struct {
	ID           string            `json:"id"`
	Section      string            `json:"section"`
	Title        string            `json:"title"`
	URL          string            `json:"url"`
	Header       map[string]string `json:"header,omitempty"`
	HTML         string            `json:"html"`
	Summary      string            `json:"summary,omitempty"`
	Examples     []render.Example  `json:"examples"`
	Commit       string            `json:"commit,omitempty"`
	LastModified *time.Time        `json:"last_modified,omitempty"`
}

// Writer writes JSON fragments under a single output directory.
//
// All writes are atomic (temp file + rename) so a crashed build never leaves
// a half-written fragment for the static host to pick up.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Prepare creates the output directory, optionally removing previous output.
func (w *Writer) Prepare(clean bool) error {
	if clean {
		if err := os.RemoveAll(w.dir); err != nil {
			return fmt.Errorf("clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// WriteDocument writes one document fragment to <dir>/<section>/<id>.json.
func (w *Writer) WriteDocument(doc *Document) (string, error) {
	if doc.Examples == nil {
		// The frontend iterates examples unconditionally; emit [] not null.
		doc.Examples = []render.Example{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document %s/%s: %w", doc.Section, doc.ID, err)
	}

	path := filepath.Join(w.dir, doc.Section, doc.ID+".json")
	if err := w.writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteManifest writes the aggregate manifest to <dir>/manifest.json.
func (w *Writer) WriteManifest(m *manifest.Manifest) (string, error) {
	data, err := m.ToJSON()
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.dir, "manifest.json")
	if err := w.writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadDocument loads a previously written fragment.
func ReadDocument(dir, section, id string) (*Document, error) {
	path := filepath.Join(dir, section, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fragment: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal fragment %s: %w", path, err)
	}
	return &doc, nil
}

// DocumentExists reports whether a fragment for section/id is already on disk.
func (w *Writer) DocumentExists(section, id string) bool {
	_, err := os.Stat(filepath.Join(w.dir, section, id+".json"))
	return err == nil
}

// Dir returns the output root.
func (w *Writer) Dir() string { return w.dir }

func (w *Writer) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
