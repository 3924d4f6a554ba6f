package catalog

import "github.com/verte-zerg/phonicpal/internal/model"

// TopicDescriptor holds the presentation details of a topic.
type TopicDescriptor struct {
	Topic     model.Topic
	Name      string
	Icon      string
	Color     string
	Accent    string
	BadgeName string
	BadgeIcon string
}

var descriptors = map[model.Topic]TopicDescriptor{
	model.NatureAnimals: {
		Topic: model.NatureAnimals, Name: "Nature", Icon: "🌿",
		Color: "#10B981", Accent: "#047857",
		BadgeName: "Nature Hero", BadgeIcon: "🐼",
	},
	model.ScienceSpace: {
		Topic: model.ScienceSpace, Name: "Science", Icon: "🚀",
		Color: "#6366F1", Accent: "#4338CA",
		BadgeName: "Science Star", BadgeIcon: "🧪",
	},
	model.HistoryAdventure: {
		Topic: model.HistoryAdventure, Name: "History", Icon: "🏰",
		Color: "#F97316", Accent: "#C2410C",
		BadgeName: "Time Traveler", BadgeIcon: "🏛️",
	},
	model.ArtsSports: {
		Topic: model.ArtsSports, Name: "Arts", Icon: "🎨",
		Color: "#EC4899", Accent: "#BE185D",
		BadgeName: "Melody Maker", BadgeIcon: "🎸",
	},
	model.DailyLife: {
		Topic: model.DailyLife, Name: "Life", Icon: "🏠",
		Color: "#F59E0B", Accent: "#B45309",
		BadgeName: "Life Hero", BadgeIcon: "🏠",
	},
}

var fallbackDescriptor = TopicDescriptor{
	Name: "Phonic Pal", Icon: "🌟",
	Color: "#3B82F6", Accent: "#1D4ED8",
	BadgeName: "Phonic Pal", BadgeIcon: "🌟",
}

// Describe returns the descriptor for topic, or the generic one.
func Describe(topic model.Topic) TopicDescriptor {
	if d, ok := descriptors[topic]; ok {
		return d
	}
	d := fallbackDescriptor
	d.Topic = topic
	return d
}
