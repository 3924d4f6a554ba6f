// Package catalog loads the practice word catalog.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/phonicpal/internal/model"
)

//go:embed catalog.toml
var builtin string

// Catalog is an immutable table of practice words.
type Catalog struct {
	entries []model.WordEntry
}

type fileCatalog struct {
	Words []fileEntry `toml:"words"`
}

type fileEntry struct {
	Word       string `toml:"word"`
	Definition string `toml:"definition"`
	Level      string `toml:"level"`
	Topic      string `toml:"topic"`
}

// Default returns the built-in catalog.
func Default() (Catalog, error) {
	return Parse(builtin)
}

// Load reads a catalog from a TOML file with the built-in schema.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	return Parse(string(data))
}

// Parse decodes and validates a TOML catalog document.
func Parse(doc string) (Catalog, error) {
	var raw fileCatalog
	if _, err := toml.Decode(doc, &raw); err != nil {
		return Catalog{}, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(raw.Words) == 0 {
		return Catalog{}, fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]struct{}, len(raw.Words))
	entries := make([]model.WordEntry, 0, len(raw.Words))
	for i, w := range raw.Words {
		word := strings.TrimSpace(w.Word)
		def := strings.TrimSpace(w.Definition)
		if word == "" {
			return Catalog{}, fmt.Errorf("catalog entry %d: word is empty", i+1)
		}
		if def == "" {
			return Catalog{}, fmt.Errorf("catalog entry %d (%s): definition is empty", i+1, word)
		}
		level, err := model.ParseAgeGroup(w.Level)
		if err != nil {
			return Catalog{}, fmt.Errorf("catalog entry %d (%s): %w", i+1, word, err)
		}
		topic, err := model.ParseTopic(w.Topic)
		if err != nil {
			return Catalog{}, fmt.Errorf("catalog entry %d (%s): %w", i+1, word, err)
		}
		key := strings.ToLower(word) + "|" + level.Slug() + "|" + topic.Slug()
		if _, dup := seen[key]; dup {
			return Catalog{}, fmt.Errorf("catalog entry %d: duplicate %q for %s / %s", i+1, word, level, topic)
		}
		seen[key] = struct{}{}
		entries = append(entries, model.WordEntry{
			Word:       word,
			Definition: def,
			Level:      level,
			Topic:      topic,
		})
	}
	return Catalog{entries: entries}, nil
}

// New builds a catalog from entries without validation. Intended for tests.
func New(entries []model.WordEntry) Catalog {
	return Catalog{entries: append([]model.WordEntry(nil), entries...)}
}

// Entries returns a copy of all entries in catalog order.
func (c Catalog) Entries() []model.WordEntry {
	return append([]model.WordEntry(nil), c.entries...)
}

// Len returns the number of entries.
func (c Catalog) Len() int {
	return len(c.entries)
}

// Lookup finds the first entry whose word matches case-insensitively.
func (c Catalog) Lookup(word string) (model.WordEntry, bool) {
	for _, e := range c.entries {
		if strings.EqualFold(e.Word, word) {
			return e, true
		}
	}
	return model.WordEntry{}, false
}
