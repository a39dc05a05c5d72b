package instancetab

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// TabDefinition is deployment-supplied metadata for a tab code. Non-empty fields
// override what the provider reports.
type TabDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name,omitempty" yaml:"name,omitempty"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Section              TabSection        `json:"section,omitempty" yaml:"section,omitempty"`
	Template             string            `json:"template,omitempty" yaml:"template,omitempty"`
}

// TabManifestDocument models a YAML manifest of tab definitions.
type TabManifestDocument struct {
	Version string          `json:"version" yaml:"version"`
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Tabs    []TabDefinition `json:"tabs" yaml:"tabs"`
	Source  string          `json:"-" yaml:"-"`
}

// LoadManifestFile reads a manifest from disk and registers its definitions.
func (r *Registry) LoadManifestFile(path string) (*TabManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *TabManifestDocument) error {
	if doc == nil {
		return errors.New("instancetab: manifest document is nil")
	}
	for _, def := range doc.Tabs {
		if err := r.RegisterDefinition(def); err != nil {
			return fmt.Errorf("instancetab: register tab %s from %s: %w", def.Code, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*TabManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("instancetab: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("instancetab: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*TabManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc TabManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("instancetab: manifest is empty")
		}
		return nil, fmt.Errorf("instancetab: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *TabManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("instancetab: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Tabs))
	for idx, def := range doc.Tabs {
		if def.Code == "" {
			return fmt.Errorf("instancetab: manifest tab at index %d is missing code", idx)
		}
		if _, exists := seen[def.Code]; exists {
			return fmt.Errorf("instancetab: manifest duplicates tab code %s", def.Code)
		}
		switch def.Section {
		case "", SectionInstance, SectionOverview:
		default:
			return fmt.Errorf("instancetab: manifest tab %s has unknown section %q", def.Code, def.Section)
		}
		seen[def.Code] = struct{}{}
	}
	return nil
}
