package stats

import (
	"sort"

	"github.com/verte-zerg/phonicpal/internal/model"
)

// TopWordsByAttempts returns the n most practiced words. Ties keep
// alphabetical order.
func TopWordsByAttempts(aggs []model.WordAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.WordAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Attempts == sorted[j].Attempts {
			return sorted[i].Word < sorted[j].Word
		}
		return sorted[i].Attempts > sorted[j].Attempts
	})
	n = min(n, len(sorted))
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Word
	}
	return out
}
