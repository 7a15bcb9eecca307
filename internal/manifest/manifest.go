// Package manifest defines the generated site index: the navigation tree of
// sections and documents plus enough build metadata to make deployments
// reproducible and comparable.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Manifest is the top-level JSON index describing the compiled site.
//
// Sections and documents appear in the order declared by the table of
// contents; consumers must not sort them.
type Manifest struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	BaseURL     string    `json:"base_url,omitempty"`
	Sections    []Section `json:"sections"`
	ConfigHash  string    `json:"config_hash,omitempty"`
	Hash        string    `json:"hash,omitempty"`
}

// Section is one navigation group.
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Documents []Document `json:"documents"`
}

// Document is one page entry in the navigation tree.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary,omitempty"`
}

// New creates an empty manifest with a fresh build id.
func New(title, description, baseURL string) *Manifest {
	return &Manifest{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Title:       title,
		Description: description,
		BaseURL:     baseURL,
	}
}

// ToJSON serializes the manifest to indented JSON.
func (m *Manifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// ComputeHash fills in the manifest's content hash: a deterministic sha256 of
// the navigation tree and config hash, excluding the per-build id and
// timestamp so identical content compares equal across builds.
func (m *Manifest) ComputeHash() error {
	hashInput := struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		BaseURL     string    `json:"base_url"`
		Sections    []Section `json:"sections"`
		ConfigHash  string    `json:"config_hash"`
	}{
		Title:       m.Title,
		Description: m.Description,
		BaseURL:     m.BaseURL,
		Sections:    m.Sections,
		ConfigHash:  m.ConfigHash,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	m.Hash = fmt.Sprintf("%x", hash)
	return nil
}
