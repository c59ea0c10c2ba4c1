// Package pymanifest parses pyproject-style project manifests and checks
// the declared metadata for well-formedness.
package pymanifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dkoosis/confkit/pkg/ruleset"
	"github.com/dkoosis/confkit/pkg/typecheck"
)

// Manifest is the decoded manifest file plus enough bookkeeping to tell
// which tables were actually present.
type Manifest struct {
	Path    string
	Project Project
	Tool    ToolTables

	hasProject bool
}

// Project mirrors the [project] table.
type Project struct {
	Name           string            `toml:"name"`
	Version        string            `toml:"version"`
	Description    string            `toml:"description"`
	Readme         Readme            `toml:"readme"`
	License        License           `toml:"license"`
	RequiresPython string            `toml:"requires-python"`
	Authors        []Author          `toml:"authors"`
	URLs           map[string]string `toml:"urls"`
}

// Author is a single author or maintainer record.
type Author struct {
	Name  string `toml:"name" validate:"required"`
	Email string `toml:"email" validate:"omitempty,email"`
}

// ToolTables holds the tool configuration tables confkit understands.
// Unknown [tool.*] tables are ignored; other tools own them.
type ToolTables struct {
	Ruff    ruleset.Config   `toml:"ruff"`
	Pyright typecheck.Config `toml:"pyright"`
}

// License accepts both the modern string form and the legacy
// { text = "..." } / { file = "..." } table form.
type License struct {
	Text string
	File string
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *License) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		l.Text = val
		return nil
	case map[string]any:
		if s, ok := val["text"].(string); ok {
			l.Text = s
		}
		if s, ok := val["file"].(string); ok {
			l.File = s
		}
		return nil
	default:
		return fmt.Errorf("license must be a string or a table, got %T", v)
	}
}

// Readme accepts a bare path or the { file = "...", content-type = "..." }
// table form.
type Readme struct {
	File        string
	ContentType string
}

// UnmarshalTOML implements toml.Unmarshaler.
func (r *Readme) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		r.File = val
		return nil
	case map[string]any:
		if s, ok := val["file"].(string); ok {
			r.File = s
		}
		if s, ok := val["content-type"].(string); ok {
			r.ContentType = s
		}
		return nil
	default:
		return fmt.Errorf("readme must be a string or a table, got %T", v)
	}
}

// rawManifest is the on-disk shape.
type rawManifest struct {
	Project Project    `toml:"project"`
	Tool    ToolTables `toml:"tool"`
}

// Load reads and decodes a manifest file. Syntax errors are returned as Go
// errors; semantic problems are reported by Check.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes manifest content. The path is recorded for SARIF locations.
func Parse(path string, data []byte) (*Manifest, error) {
	var raw rawManifest
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return &Manifest{
		Path:       path,
		Project:    raw.Project,
		Tool:       raw.Tool,
		hasProject: md.IsDefined("project"),
	}, nil
}

// HasProject reports whether the [project] table was present at all.
func (m *Manifest) HasProject() bool {
	return m.hasProject
}
