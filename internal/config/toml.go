// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Media    MediaConfig    `toml:"media"`
	Audio    AudioConfig    `toml:"audio"`
	Cache    CacheConfig    `toml:"cache"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Age        *string `toml:"age"`
	Topic      *string `toml:"topic"`
	Catalog    *string `toml:"catalog"`
	FocusWeak  *bool   `toml:"focus-weak"`
	WeakTop    *int    `toml:"weak-top"`
	WeakWindow *int    `toml:"weak-window"`
	NoAudio    *bool   `toml:"no-audio"`
}

// MediaConfig maps the remote media service settings.
type MediaConfig struct {
	BaseURL      *string `toml:"base-url"`
	Timeout      *string `toml:"timeout"`
	ImageModel   *string `toml:"image-model"`
	SpeechModel  *string `toml:"speech-model"`
	ScoreModel   *string `toml:"score-model"`
	TeacherVoice *string `toml:"teacher-voice"`
	CoachVoice   *string `toml:"coach-voice"`
}

// AudioConfig maps capture and playback commands.
type AudioConfig struct {
	RecordCmd *string `toml:"record-cmd"`
	PlayCmd   *string `toml:"play-cmd"`
}

// CacheConfig maps illustration cache limits.
type CacheConfig struct {
	MaxBytes      *int64 `toml:"max-bytes"`
	MemoryEntries *int   `toml:"memory-entries"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
