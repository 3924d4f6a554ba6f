// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// AgeGroup is one of the ordered age tiers of the catalog.
type AgeGroup int

// Age tiers, youngest first.
const (
	Preschool AgeGroup = iota + 1
	Grade1
	Grade2
	Grade3
	Grade4
	Grade5
	Grade6
)

// AgeGroups lists every tier in order.
var AgeGroups = []AgeGroup{Preschool, Grade1, Grade2, Grade3, Grade4, Grade5, Grade6}

var ageLabels = map[AgeGroup]string{
	Preschool: "Preschool",
	Grade1:    "Grade 1",
	Grade2:    "Grade 2",
	Grade3:    "Grade 3",
	Grade4:    "Grade 4",
	Grade5:    "Grade 5",
	Grade6:    "Grade 6",
}

var ageSlugs = map[AgeGroup]string{
	Preschool: "preschool",
	Grade1:    "grade1",
	Grade2:    "grade2",
	Grade3:    "grade3",
	Grade4:    "grade4",
	Grade5:    "grade5",
	Grade6:    "grade6",
}

// String returns the display label.
func (a AgeGroup) String() string {
	if label, ok := ageLabels[a]; ok {
		return label
	}
	return "Unknown"
}

// Slug returns the short identifier used in flags and config.
func (a AgeGroup) Slug() string {
	return ageSlugs[a]
}

// Valid reports whether a is a known tier.
func (a AgeGroup) Valid() bool {
	_, ok := ageLabels[a]
	return ok
}

// ParseAgeGroup accepts a display label or a slug, case-insensitively.
func ParseAgeGroup(s string) (AgeGroup, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	compact := strings.ReplaceAll(norm, " ", "")
	for _, a := range AgeGroups {
		if norm == strings.ToLower(ageLabels[a]) || compact == ageSlugs[a] {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown age group %q", s)
}

// Topic is a catalog category tag.
type Topic string

// Catalog topics.
const (
	NatureAnimals    Topic = "Nature & Animals"
	ScienceSpace     Topic = "Science & Space"
	HistoryAdventure Topic = "History & Adventure"
	ArtsSports       Topic = "Arts & Sports"
	DailyLife        Topic = "Daily Life"
)

// Topics lists every topic in picker order.
var Topics = []Topic{NatureAnimals, ScienceSpace, HistoryAdventure, ArtsSports, DailyLife}

var topicSlugs = map[Topic]string{
	NatureAnimals:    "nature",
	ScienceSpace:     "science",
	HistoryAdventure: "history",
	ArtsSports:       "arts",
	DailyLife:        "life",
}

// Slug returns the short identifier used in flags and config.
func (t Topic) Slug() string {
	return topicSlugs[t]
}

// Valid reports whether t is a known topic.
func (t Topic) Valid() bool {
	_, ok := topicSlugs[t]
	return ok
}

// ParseTopic accepts a display label or a slug, case-insensitively.
func ParseTopic(s string) (Topic, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Topics {
		if norm == strings.ToLower(string(t)) || norm == topicSlugs[t] {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", s)
}

// WordEntry is an immutable catalog record.
type WordEntry struct {
	Word       string
	Definition string
	Level      AgeGroup
	Topic      Topic
}

// AssessmentResult is the remote score for one recording attempt.
type AssessmentResult struct {
	PronunciationScore float64 `json:"pronunciationScore"`
	FluencyScore       float64 `json:"fluencyScore"`
	Feedback           string  `json:"feedback"`
	CoachingTip        string  `json:"coachingTip"`
}

// WordAttempt records a scored word that was advanced past.
type WordAttempt struct {
	Word      string
	Score     float64
	Fluency   float64
	Stars     float64
	Struggled bool
}

// Config defines practice settings.
type Config struct {
	Age        AgeGroup
	Topic      Topic
	Catalog    string
	FocusWeak  bool
	WeakTop    int
	WeakWindow int
	NoAudio    bool
}

// StatsConfig defines filters and options for history output.
type StatsConfig struct {
	Age         AgeGroup
	Topic       Topic
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a finished practice session.
type SessionRecord struct {
	StartedAt time.Time
	EndedAt   time.Time
	Age       AgeGroup
	Topic     Topic
	Review    bool
	DeckSize  int
	Completed int
	Skipped   int
	Stars     float64
	Quit      bool
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID int64
	EndedAt   time.Time
	DeckSize  int
	Completed int
	Stars     float64
	AvgScore  float64
}

// WordAggregate aggregates attempts of one word across sessions.
type WordAggregate struct {
	Word      string
	Attempts  int
	Struggled int
	ScoreSum  float64
	BestScore float64
}
