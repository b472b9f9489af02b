package model

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultEmptyMessage is shown for empty datasets when the manifest does
// not set one.
const DefaultEmptyMessage = "No records to show"

// ErrInvalidManifest wraps every manifest validation failure.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is the caller-supplied description of a dataset view: which
// fields to show, how, and which layout to prefer per breakpoint.
type Manifest struct {
	Title        string      `json:"title,omitempty" yaml:"title,omitempty"`
	Columns      []Column    `json:"columns" yaml:"columns"`
	Layout       Preferences `json:"layout,omitempty" yaml:"layout,omitempty"`
	Grid         GridSpec    `json:"grid,omitempty" yaml:"grid,omitempty"`
	Chart        *ChartSpec  `json:"chart,omitempty" yaml:"chart,omitempty"`
	EmptyMessage string      `json:"empty_message,omitempty" yaml:"empty_message,omitempty"`
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads a YAML manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// Validate checks column keys, formats and layout modes.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Columns))
	for i, c := range m.Columns {
		if c.Key == "" {
			return fmt.Errorf("%w: column %d has no key", ErrInvalidManifest, i)
		}
		if seen[c.Key] {
			return fmt.Errorf("%w: duplicate column key %q", ErrInvalidManifest, c.Key)
		}
		seen[c.Key] = true
		if !c.Format.IsValid() {
			return fmt.Errorf("%w: column %q: unknown format %q", ErrInvalidManifest, c.Key, c.Format)
		}
		if !c.Align.IsValid() {
			return fmt.Errorf("%w: column %q: unknown align %q", ErrInvalidManifest, c.Key, c.Align)
		}
		if c.Width < 0 {
			return fmt.Errorf("%w: column %q: negative width", ErrInvalidManifest, c.Key)
		}
	}
	for _, l := range []struct {
		name string
		mode Mode
	}{
		{"mobile", m.Layout.Mobile},
		{"tablet", m.Layout.Tablet},
		{"desktop", m.Layout.Desktop},
	} {
		if l.mode != "" && !l.mode.IsValid() {
			return fmt.Errorf("%w: layout.%s: unknown mode %q", ErrInvalidManifest, l.name, l.mode)
		}
	}
	if m.Chart != nil && !m.Chart.Kind.IsValid() {
		return fmt.Errorf("%w: chart: unknown kind %q", ErrInvalidManifest, m.Chart.Kind)
	}
	if m.Grid.MinItemWidth < 0 || m.Grid.MaxColumns < 0 {
		return fmt.Errorf("%w: grid sizes must not be negative", ErrInvalidManifest)
	}
	return nil
}

// Empty returns the empty-state message.
func (m *Manifest) Empty() string {
	if m == nil || m.EmptyMessage == "" {
		return DefaultEmptyMessage
	}
	return m.EmptyMessage
}

// HasChart reports whether the manifest configures a drawable chart.
func (m *Manifest) HasChart() bool {
	return m != nil && m.Chart.Usable()
}

// WithInferredColumns returns a copy of m whose columns are inferred from
// rs when m declares none. A nil m yields a bare manifest.
func (m *Manifest) WithInferredColumns(rs Records) *Manifest {
	var out Manifest
	if m != nil {
		out = *m
	}
	if len(out.Columns) == 0 {
		out.Columns = InferColumns(rs)
	}
	return &out
}
