package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/phonicpal/internal/model"
)

func TestDefaultCoversEveryLevelAndTopic(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	for _, age := range model.AgeGroups {
		for _, topic := range model.Topics {
			if cat.Count(age, topic) == 0 {
				t.Fatalf("no words for %s / %s", age, topic)
			}
		}
	}
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"empty":        `words = []`,
		"no word":      `words = [{ word = "", definition = "x", level = "grade1", topic = "arts" }]`,
		"no def":       `words = [{ word = "a", definition = " ", level = "grade1", topic = "arts" }]`,
		"bad level":    `words = [{ word = "a", definition = "x", level = "grade9", topic = "arts" }]`,
		"bad topic":    `words = [{ word = "a", definition = "x", level = "grade1", topic = "cooking" }]`,
		"duplicate":    `words = [{ word = "a", definition = "x", level = "grade1", topic = "arts" }, { word = "A", definition = "y", level = "Grade 1", topic = "Arts & Sports" }]`,
		"invalid toml": `words = [`,
	}
	for name, doc := range cases {
		if _, err := Parse(doc); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.toml")
	doc := `words = [{ word = " Comet ", definition = "A snowball in space.", level = "Grade 3", topic = "science" }]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	entry, ok := cat.Lookup("comet")
	if !ok {
		t.Fatalf("expected comet entry")
	}
	if entry.Word != "Comet" || entry.Level != model.Grade3 || entry.Topic != model.ScienceSpace {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !strings.HasPrefix(entry.Definition, "A snowball") {
		t.Fatalf("unexpected definition: %q", entry.Definition)
	}
}
