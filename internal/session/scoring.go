package session

// MasteryThreshold separates mastered words from struggled ones.
const MasteryThreshold = 88.0

// RecordSeconds caps a single recording.
const RecordSeconds = 3

// Stars maps a pronunciation score to the stars it earns. Every scored
// attempt earns at least one star.
func Stars(score float64) float64 {
	switch {
	case score >= 94:
		return 3
	case score >= MasteryThreshold:
		return 2.5
	case score >= 78:
		return 2
	default:
		return 1
	}
}

// Struggled reports whether a score sends the word to the review round.
func Struggled(score float64) bool {
	return score < MasteryThreshold
}

// MaxStarsPerWord is the most a single word can earn.
const MaxStarsPerWord = 3
