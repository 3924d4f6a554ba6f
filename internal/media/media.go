// Package media defines the boundary to the remote illustration, narration
// and pronunciation scoring service.
package media

import (
	"context"
	"errors"
	"strings"

	"github.com/verte-zerg/phonicpal/internal/model"
)

// Failure classes returned (wrapped) by Service implementations.
var (
	ErrIllustration = errors.New("media: illustration failed")
	ErrNarration    = errors.New("media: narration failed")
	ErrScoring      = errors.New("media: scoring failed")
	// ErrCacheFull is returned by Cache.Set when the storage quota is exceeded.
	ErrCacheFull = errors.New("media: cache full")
)

// Service is the remote media collaborator.
type Service interface {
	// Illustrate returns PNG bytes picturing the word.
	Illustrate(ctx context.Context, word, definition string) ([]byte, error)
	// Narrate returns raw PCM (s16le, 24 kHz, mono) speaking text.
	Narrate(ctx context.Context, text, instruction, voice string) ([]byte, error)
	// ScorePronunciation grades a WAV recording of the child saying word.
	ScorePronunciation(ctx context.Context, word string, wav []byte) (model.AssessmentResult, error)
}

// Cache is a persistent key-value store for illustrations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	EvictPrefix(ctx context.Context, prefix string) (int, error)
}

// KeyPrefix prefixes every illustration cache key.
const KeyPrefix = "img_"

// NormalizeWord lowercases and trims word and joins inner whitespace with '_'.
func NormalizeWord(word string) string {
	return strings.Join(strings.Fields(strings.ToLower(word)), "_")
}

// CacheKey returns the illustration cache key for word.
func CacheKey(word string) string {
	return KeyPrefix + NormalizeWord(word)
}

// Voices names the two narration voices.
type Voices struct {
	Teacher string
	Coach   string
}

// DefaultVoices are used when no voices are configured.
var DefaultVoices = Voices{Teacher: "coral", Coach: "shimmer"}
