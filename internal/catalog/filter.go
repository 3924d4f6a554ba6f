package catalog

import "github.com/verte-zerg/phonicpal/internal/model"

// FilterFunc returns true when an entry should be kept.
type FilterFunc func(model.WordEntry) bool

// ForLevelTopic matches entries whose level and topic both equal the inputs.
func ForLevelTopic(level model.AgeGroup, topic model.Topic) FilterFunc {
	return func(e model.WordEntry) bool {
		return e.Level == level && e.Topic == topic
	}
}

// Filter returns the entries matching level and topic, in catalog order.
func (c Catalog) Filter(level model.AgeGroup, topic model.Topic) []model.WordEntry {
	return c.Select(ForLevelTopic(level, topic))
}

// Select returns the entries accepted by keep, in catalog order.
func (c Catalog) Select(keep FilterFunc) []model.WordEntry {
	var out []model.WordEntry
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match level and topic.
func (c Catalog) Count(level model.AgeGroup, topic model.Topic) int {
	n := 0
	for _, e := range c.entries {
		if e.Level == level && e.Topic == topic {
			n++
		}
	}
	return n
}
