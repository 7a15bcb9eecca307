// Package toc loads the table of contents describing the documentation tree.
//
// The source directory contains a root `toc.yaml` listing section ids in
// display order. Each section is a directory holding a `section.yaml` with
// the section title and an ordered list of document ids. Document sources
// live next to the section file as `<id>.md`.
package toc

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RootFileName is the table-of-contents file expected in the source root.
const RootFileName = "toc.yaml"

// SectionFileName is the per-section metadata file.
const SectionFileName = "section.yaml"

// TOC is the fully resolved table of contents. Section and document order is
// exactly the declaration order in the YAML files.
type TOC struct {
	Sections []Section
}

// Section is one top-level navigation entry.
type Section struct {
	ID        string
	Title     string
	Documents []Document
}

// Document is one page within a section.
type Document struct {
	ID         string
	SectionID  string
	SourcePath string // absolute path to the Markdown source
}

// URL returns the site-relative URL for the document.
func (d Document) URL() string {
	return "/" + d.SectionID + "/" + d.ID
}

type rootFile struct {
	Sections []string `yaml:"sections"`
}

type sectionFile struct {
	Title     string   `yaml:"title"`
	Documents []string `yaml:"documents"`
}

// Load reads toc.yaml and every referenced section.yaml under srcDir.
//
// Every document id must resolve to an existing Markdown file; duplicate ids
// within a section (and duplicate section ids) are rejected so generated
// output paths stay unambiguous.
func Load(srcDir string) (*TOC, error) {
	rootPath := filepath.Join(srcDir, RootFileName)
	root, err := readRoot(rootPath)
	if err != nil {
		return nil, err
	}
	if len(root.Sections) == 0 {
		return nil, fmt.Errorf("%s: no sections declared", rootPath)
	}

	t := &TOC{}
	seenSections := map[string]bool{}
	for _, sectionID := range root.Sections {
		if sectionID == "" {
			return nil, fmt.Errorf("%s: empty section id", rootPath)
		}
		if seenSections[sectionID] {
			return nil, fmt.Errorf("%s: duplicate section %q", rootPath, sectionID)
		}
		seenSections[sectionID] = true

		section, err := loadSection(srcDir, sectionID)
		if err != nil {
			return nil, err
		}
		t.Sections = append(t.Sections, section)
	}
	return t, nil
}

// AllDocuments returns every document in TOC order.
func (t *TOC) AllDocuments() []Document {
	var docs []Document
	for _, s := range t.Sections {
		docs = append(docs, s.Documents...)
	}
	return docs
}

func readRoot(path string) (*rootFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table of contents: %w", err)
	}
	var root rootFile
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &root, nil
}

func loadSection(srcDir, sectionID string) (Section, error) {
	sectionPath := filepath.Join(srcDir, sectionID, SectionFileName)
	data, err := os.ReadFile(sectionPath)
	if err != nil {
		return Section{}, fmt.Errorf("read section %q: %w", sectionID, err)
	}

	var sf sectionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return Section{}, fmt.Errorf("parse %s: %w", sectionPath, err)
	}
	if sf.Title == "" {
		return Section{}, fmt.Errorf("%s: missing title", sectionPath)
	}
	if len(sf.Documents) == 0 {
		return Section{}, fmt.Errorf("%s: no documents declared", sectionPath)
	}

	section := Section{ID: sectionID, Title: sf.Title}
	seen := map[string]bool{}
	for _, docID := range sf.Documents {
		if docID == "" {
			return Section{}, fmt.Errorf("%s: empty document id", sectionPath)
		}
		if seen[docID] {
			return Section{}, fmt.Errorf("%s: duplicate document %q", sectionPath, docID)
		}
		seen[docID] = true

		sourcePath := filepath.Join(srcDir, sectionID, docID+".md")
		if _, err := os.Stat(sourcePath); err != nil {
			return Section{}, fmt.Errorf("section %q references %q: %w", sectionID, docID, err)
		}
		section.Documents = append(section.Documents, Document{
			ID:         docID,
			SectionID:  sectionID,
			SourcePath: sourcePath,
		})
	}
	return section, nil
}
