package stats

import "github.com/verte-zerg/phonicpal/internal/model"

// SelectWeakWords returns up to top words with at least one struggled
// attempt, lowest average score first. A non-positive top returns all.
func SelectWeakWords(aggs []model.WordAggregate, top int) []string {
	var candidates []model.WordAggregate
	for _, agg := range aggs {
		if agg.Struggled > 0 {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	candidates = SortByDifficulty(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	words := make([]string, top)
	for i := range words {
		words[i] = candidates[i].Word
	}
	return words
}
