package stats

import (
	"testing"

	"github.com/verte-zerg/phonicpal/internal/model"
)

func TestTopWordsByAttempts(t *testing.T) {
	aggs := []model.WordAggregate{
		{Word: "owl", Attempts: 2},
		{Word: "bee", Attempts: 4},
		{Word: "ant", Attempts: 4},
		{Word: "cat", Attempts: 1},
	}
	top := TopWordsByAttempts(aggs, 3)
	want := []string{"ant", "bee", "owl"}
	if len(top) != len(want) {
		t.Fatalf("expected %d words, got %v", len(want), top)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("unexpected order: %v", top)
		}
	}
	if got := TopWordsByAttempts(aggs, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
