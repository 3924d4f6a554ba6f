// Package deck builds practice decks from the word catalog.
package deck

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/phonicpal/internal/catalog"
	"github.com/verte-zerg/phonicpal/internal/model"
)

// Builder produces shuffled decks.
type Builder struct {
	rnd *rand.Rand
}

// New returns a Builder seeded with the current time.
func New() *Builder {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Builder with a fixed seed.
func NewWithSeed(seed int64) *Builder {
	return &Builder{rnd: rand.New(rand.NewSource(seed))}
}

// Build filters the catalog by exact level and topic and shuffles the result.
// An empty deck is valid.
func (b *Builder) Build(cat catalog.Catalog, level model.AgeGroup, topic model.Topic) []model.WordEntry {
	entries := cat.Filter(level, topic)
	b.shuffle(entries)
	return entries
}

// BuildReview returns the struggled words as the next deck, in the order they
// were struggled with.
func BuildReview(struggled []model.WordEntry) []model.WordEntry {
	if len(struggled) == 0 {
		return nil
	}
	return append([]model.WordEntry(nil), struggled...)
}

// BuildFromWords resolves words against the catalog and shuffles the matches.
// Unknown words and repeats are dropped.
func (b *Builder) BuildFromWords(cat catalog.Catalog, words []string) []model.WordEntry {
	seen := make(map[string]struct{}, len(words))
	var entries []model.WordEntry
	for _, w := range words {
		entry, ok := cat.Lookup(w)
		if !ok {
			continue
		}
		if _, dup := seen[entry.Word]; dup {
			continue
		}
		seen[entry.Word] = struct{}{}
		entries = append(entries, entry)
	}
	b.shuffle(entries)
	return entries
}

// Fisher-Yates; every permutation is reachable.
func (b *Builder) shuffle(entries []model.WordEntry) {
	for i := len(entries) - 1; i > 0; i-- {
		j := b.rnd.Intn(i + 1)
		entries[i], entries[j] = entries[j], entries[i]
	}
}
