package catalog

import (
	"testing"

	"github.com/verte-zerg/phonicpal/internal/model"
)

func TestFilterExactMatch(t *testing.T) {
	cat := New([]model.WordEntry{
		{Word: "cat", Definition: "pet", Level: model.Preschool, Topic: model.NatureAnimals},
		{Word: "moon", Definition: "sky", Level: model.Preschool, Topic: model.ScienceSpace},
		{Word: "rabbit", Definition: "hops", Level: model.Grade1, Topic: model.NatureAnimals},
		{Word: "duck", Definition: "quack", Level: model.Preschool, Topic: model.NatureAnimals},
	})
	got := cat.Filter(model.Preschool, model.NatureAnimals)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Word != "cat" || got[1].Word != "duck" {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if cat.Count(model.Grade1, model.NatureAnimals) != 1 {
		t.Fatalf("expected count 1 for grade1 nature")
	}
	if len(cat.Filter(model.Grade6, model.DailyLife)) != 0 {
		t.Fatalf("expected no entries for grade6 life")
	}
}

func TestDescribeFallback(t *testing.T) {
	d := Describe(model.ScienceSpace)
	if d.BadgeName != "Science Star" {
		t.Fatalf("unexpected badge: %q", d.BadgeName)
	}
	unknown := Describe(model.Topic("Cooking"))
	if unknown.Name != "Phonic Pal" || unknown.Topic != "Cooking" {
		t.Fatalf("unexpected fallback: %+v", unknown)
	}
	for _, topic := range model.Topics {
		if Describe(topic).Name == "Phonic Pal" {
			t.Fatalf("topic %q has no descriptor", topic)
		}
	}
}
