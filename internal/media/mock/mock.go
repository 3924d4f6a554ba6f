// Package mock provides a scriptable in-memory media.Service for tests.
//
// Set the exported Result and Err fields before use and inspect the call
// records afterwards:
//
//	svc := &mock.Service{Scores: []model.AssessmentResult{{PronunciationScore: 95}}}
//	res, err := svc.ScorePronunciation(ctx, "cat", wav)
package mock

import (
	"context"
	"sync"

	"github.com/verte-zerg/phonicpal/internal/media"
	"github.com/verte-zerg/phonicpal/internal/model"
)

// NarrateCall records the arguments of one Narrate call.
type NarrateCall struct {
	Text        string
	Instruction string
	Voice       string
}

// Service is a mock implementation of media.Service. It is safe for
// concurrent use.
type Service struct {
	mu sync.Mutex

	// IllustrateResult is returned by Illustrate.
	IllustrateResult []byte
	// IllustrateErr, if set, is returned by Illustrate.
	IllustrateErr error
	// IllustrateGate, if non-nil, blocks Illustrate until it is closed or the
	// context ends.
	IllustrateGate chan struct{}

	// NarrateResult is returned by Narrate.
	NarrateResult []byte
	// NarrateErr, if set, is returned by Narrate.
	NarrateErr error

	// Scores are returned by successive ScorePronunciation calls. The last one
	// repeats once the list is exhausted.
	Scores []model.AssessmentResult
	// ScoreErr, if set, is returned by ScorePronunciation.
	ScoreErr error
	// ScoreGate, if non-nil, blocks ScorePronunciation until it is closed or
	// the context ends.
	ScoreGate chan struct{}

	// IllustrateWords records the word of every Illustrate call.
	IllustrateWords []string
	// NarrateCalls records every Narrate call in order.
	NarrateCalls []NarrateCall
	// ScoreWords records the word of every ScorePronunciation call.
	ScoreWords []string
}

// Illustrate implements media.Service.
func (s *Service) Illustrate(ctx context.Context, word, _ string) ([]byte, error) {
	s.mu.Lock()
	s.IllustrateWords = append(s.IllustrateWords, word)
	gate := s.IllustrateGate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.IllustrateErr != nil {
		return nil, s.IllustrateErr
	}
	return s.IllustrateResult, nil
}

// Narrate implements media.Service.
func (s *Service) Narrate(_ context.Context, text, instruction, voice string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NarrateCalls = append(s.NarrateCalls, NarrateCall{Text: text, Instruction: instruction, Voice: voice})
	if s.NarrateErr != nil {
		return nil, s.NarrateErr
	}
	return s.NarrateResult, nil
}

// ScorePronunciation implements media.Service.
func (s *Service) ScorePronunciation(ctx context.Context, word string, _ []byte) (model.AssessmentResult, error) {
	s.mu.Lock()
	s.ScoreWords = append(s.ScoreWords, word)
	gate := s.ScoreGate
	call := len(s.ScoreWords) - 1
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.AssessmentResult{}, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ScoreErr != nil {
		return model.AssessmentResult{}, s.ScoreErr
	}
	if len(s.Scores) == 0 {
		return model.AssessmentResult{}, media.ErrScoring
	}
	if call >= len(s.Scores) {
		call = len(s.Scores) - 1
	}
	return s.Scores[call], nil
}

// CallCounts returns the number of Illustrate, Narrate and ScorePronunciation
// calls.
func (s *Service) CallCounts() (illustrate, narrate, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.IllustrateWords), len(s.NarrateCalls), len(s.ScoreWords)
}

// Cache is an in-memory media.Cache with an optional entry limit.
type Cache struct {
	mu sync.Mutex

	// MaxEntries, if positive, makes Set fail with media.ErrCacheFull when the
	// cache already holds that many other keys.
	MaxEntries int
	// SetErr, if set, is returned by every Set call.
	SetErr error

	entries map[string][]byte

	// CallCountSet records how many times Set was called.
	CallCountSet int
	// CallCountEvict records how many times EvictPrefix was called.
	CallCountEvict int
}

// Get implements media.Cache.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

// Set implements media.Cache.
func (c *Cache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCountSet++
	if c.SetErr != nil {
		return c.SetErr
	}
	if c.entries == nil {
		c.entries = map[string][]byte{}
	}
	if _, exists := c.entries[key]; !exists && c.MaxEntries > 0 && len(c.entries) >= c.MaxEntries {
		return media.ErrCacheFull
	}
	c.entries[key] = value
	return nil
}

// EvictPrefix implements media.Cache.
func (c *Cache) EvictPrefix(_ context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCountEvict++
	n := 0
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var (
	_ media.Service = (*Service)(nil)
	_ media.Cache   = (*Cache)(nil)
)
