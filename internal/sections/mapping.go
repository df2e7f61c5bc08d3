// Package sections detects song sections (verse, chorus, bridge, ...) in
// cleaned lyric text. Markers are plain-text lines such as "Refräng" or
// "Vers 2"; a mapping table translates source-language marker terms to the
// canonical labels ProPresenter groups are named after.
package sections

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// NumberRules controls how a trailing marker number ("vers 2") is carried
// into the canonical label.
type NumberRules struct {
	PreserveNumbers bool   `json:"preserve_numbers"`
	StartFromOne    bool   `json:"start_from_one"`
	Format          string `json:"format"`
}

// DefaultNumberFormat renders "Verse 2" from label "Verse" and number "2".
const DefaultNumberFormat = "{section_name} {number}"

// Table maps lowercase source marker terms to canonical target labels.
// Lookups are case-insensitive; keys are stored lowercased. A Table is
// treated as read-only for the duration of a batch export — callers wanting
// fresh mappings load a new snapshot rather than mutating one in flight.
type Table struct {
	mappings map[string]string
	rules    NumberRules
}

// NewTable builds a table from the given term mappings, lowercasing keys.
func NewTable(mappings map[string]string, rules NumberRules) *Table {
	t := &Table{
		mappings: make(map[string]string, len(mappings)),
		rules:    rules,
	}
	for k, v := range mappings {
		t.mappings[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return t
}

// DefaultTable returns the built-in Swedish/English mapping set.
func DefaultTable() *Table {
	return NewTable(map[string]string{
		"vers":       "Verse",
		"verse":      "Verse",
		"refräng":    "Chorus",
		"chorus":     "Chorus",
		"brygga":     "Bridge",
		"bridge":     "Bridge",
		"förrefräng": "Pre-Chorus",
		"pre-chorus": "Pre-Chorus",
		"prechorus":  "Pre-Chorus",
		"intro":      "Intro",
		"outro":      "Outro",
		"slut":       "Outro",
		"tag":        "Tag",
		"ending":     "Ending",
	}, NumberRules{
		PreserveNumbers: true,
		StartFromOne:    true,
		Format:          DefaultNumberFormat,
	})
}

// Lookup returns the canonical label for a source term.
func (t *Table) Lookup(term string) (string, bool) {
	label, ok := t.mappings[strings.ToLower(strings.TrimSpace(term))]
	return label, ok
}

// Keys returns all source terms, longest first so that prefix matching
// against marker lines is deterministic ("verse" wins over "vers").
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.mappings))
	for k := range t.mappings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Mappings returns a copy of the term map.
func (t *Table) Mappings() map[string]string {
	m := make(map[string]string, len(t.mappings))
	for k, v := range t.mappings {
		m[k] = v
	}
	return m
}

// Rules returns the number formatting rules.
func (t *Table) Rules() NumberRules {
	return t.rules
}

// Len returns the number of mapped terms.
func (t *Table) Len() int {
	return len(t.mappings)
}

// Clone returns an independent copy, used to snapshot the table at batch
// start.
func (t *Table) Clone() *Table {
	return NewTable(t.mappings, t.rules)
}

// FormatLabel renders the display form of a canonical label with an optional
// number per the table's rules.
func (t *Table) FormatLabel(label, number string) string {
	if number == "" || !t.rules.PreserveNumbers {
		return label
	}
	format := t.rules.Format
	if format == "" {
		format = DefaultNumberFormat
	}
	out := strings.ReplaceAll(format, "{section_name}", label)
	out = strings.ReplaceAll(out, "{number}", number)
	return out
}

// tableDocument is the on-disk JSON shape, shared with the settings UI of
// the original desktop application so existing mapping files keep working.
type tableDocument struct {
	SectionMappings map[string]string `json:"section_mappings"`
	NumberRules     NumberRules       `json:"number_mapping_rules"`
	Description     string            `json:"description,omitempty"`
}

// LoadTable reads a mapping table document. A missing file yields the
// default table, mirroring the config loader's behavior.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTable(), nil
		}
		return nil, fmt.Errorf("failed to read mapping table: %w", err)
	}

	var doc tableDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse mapping table: %w", err)
	}
	if doc.NumberRules.Format == "" {
		doc.NumberRules = NumberRules{
			PreserveNumbers: true,
			StartFromOne:    true,
			Format:          DefaultNumberFormat,
		}
	}
	return NewTable(doc.SectionMappings, doc.NumberRules), nil
}

// SaveTable writes the table as a mapping document.
func SaveTable(t *Table, path string) error {
	doc := tableDocument{
		SectionMappings: t.Mappings(),
		NumberRules:     t.rules,
		Description:     "Section name mappings for ProPresenter export",
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mapping table: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create mapping table directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping table: %w", err)
	}
	return nil
}
