// Package i18n loads the engine's user-facing string table from a TOML
// resource file, following the TOML-via-BurntSushi loading style of the
// teacher's internal/tqw package (itself loading TOML-formatted game data
// files) but applied to a flat message-template table instead of a world
// definition.
package i18n

import (
	"embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultFS embed.FS

// Table is a flat map of message key to template string. Templates may
// contain fmt.Sprintf-style verbs; callers format with Lookup.
type Table struct {
	Messages map[string]string `toml:"messages"`
}

// Default loads the engine's built-in string table.
func Default() (*Table, error) {
	data, err := defaultFS.ReadFile("default.toml")
	if err != nil {
		return nil, fmt.Errorf("read embedded default string table: %w", err)
	}
	return Load(data)
}

// Load parses TOML-formatted string table data.
func Load(data []byte) (*Table, error) {
	var t Table
	if _, err := toml.Decode(string(data), &t); err != nil {
		return nil, fmt.Errorf("parse string table: %w", err)
	}
	return &t, nil
}

// Lookup formats the message registered under key with args, falling back
// to the bare key (so a missing translation is visible rather than silently
// blank) when key is not present.
func (t *Table) Lookup(key string, args ...interface{}) string {
	if t == nil {
		return key
	}
	tmpl, ok := t.Messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Merge overlays other's entries on top of t, returning a new Table. Used to
// apply a user-supplied locale file on top of the embedded defaults.
func (t *Table) Merge(other *Table) *Table {
	merged := &Table{Messages: map[string]string{}}
	for k, v := range t.Messages {
		merged.Messages[k] = v
	}
	if other != nil {
		for k, v := range other.Messages {
			merged.Messages[k] = v
		}
	}
	return merged
}
