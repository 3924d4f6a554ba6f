package stats

import (
	"testing"

	"github.com/verte-zerg/phonicpal/internal/model"
)

func TestSelectWeakWords(t *testing.T) {
	aggs := []model.WordAggregate{
		{Word: "tiger", Attempts: 2, Struggled: 1, ScoreSum: 150},
		{Word: "volcano", Attempts: 1, Struggled: 1, ScoreSum: 40},
		{Word: "cat", Attempts: 3, ScoreSum: 60},
		{Word: "astronaut", Attempts: 2, Struggled: 2, ScoreSum: 140},
	}
	got := SelectWeakWords(aggs, 2)
	if len(got) != 2 || got[0] != "volcano" || got[1] != "astronaut" {
		t.Fatalf("unexpected weak words: %v", got)
	}
	all := SelectWeakWords(aggs, 0)
	if len(all) != 3 {
		t.Fatalf("expected all 3 struggled words, got %v", all)
	}
	for _, w := range all {
		if w == "cat" {
			t.Fatalf("word without struggles selected: %v", all)
		}
	}
}

func TestSelectWeakWordsEmpty(t *testing.T) {
	if got := SelectWeakWords(nil, 5); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	mastered := []model.WordAggregate{{Word: "cat", Attempts: 1, ScoreSum: 99}}
	if got := SelectWeakWords(mastered, 5); got != nil {
		t.Fatalf("expected nil for mastered words, got %v", got)
	}
}
