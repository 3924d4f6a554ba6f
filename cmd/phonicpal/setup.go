package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/verte-zerg/phonicpal/internal/audio"
	"github.com/verte-zerg/phonicpal/internal/config"
	"github.com/verte-zerg/phonicpal/internal/media"
	"github.com/verte-zerg/phonicpal/internal/media/openai"
	"github.com/verte-zerg/phonicpal/internal/store"
)

const (
	apiKeyEnv            = "OPENAI_API_KEY"
	defaultMediaTimeout  = 60 * time.Second
	defaultMemoryEntries = 64
)

// mediaSettings are the resolved [media], [audio] and [cache] sections.
type mediaSettings struct {
	baseURL       string
	timeout       time.Duration
	imageModel    string
	speechModel   string
	scoreModel    string
	voices        media.Voices
	recordCmd     []string
	playCmd       []string
	maxBytes      int64
	memoryEntries int
}

func resolveMediaSettings(fileCfg config.FileConfig) (mediaSettings, error) {
	s := mediaSettings{
		timeout:       defaultMediaTimeout,
		imageModel:    string(openai.DefaultImageModel),
		speechModel:   string(openai.DefaultSpeechModel),
		scoreModel:    string(openai.DefaultScoreModel),
		voices:        media.DefaultVoices,
		maxBytes:      store.DefaultCacheBytes,
		memoryEntries: defaultMemoryEntries,
	}
	m := fileCfg.Media
	setString(&s.baseURL, m.BaseURL)
	setString(&s.imageModel, m.ImageModel)
	setString(&s.speechModel, m.SpeechModel)
	setString(&s.scoreModel, m.ScoreModel)
	setString(&s.voices.Teacher, m.TeacherVoice)
	setString(&s.voices.Coach, m.CoachVoice)
	if m.Timeout != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*m.Timeout))
		if err != nil {
			return mediaSettings{}, fmt.Errorf("invalid media timeout: %w", err)
		}
		if d <= 0 {
			return mediaSettings{}, fmt.Errorf("media timeout must be greater than 0")
		}
		s.timeout = d
	}
	if fileCfg.Audio.RecordCmd != nil {
		s.recordCmd = audio.ParseCommand(*fileCfg.Audio.RecordCmd)
	}
	if fileCfg.Audio.PlayCmd != nil {
		s.playCmd = audio.ParseCommand(*fileCfg.Audio.PlayCmd)
	}
	if v := fileCfg.Cache.MaxBytes; v != nil {
		if *v <= 0 {
			return mediaSettings{}, fmt.Errorf("cache max-bytes must be greater than 0")
		}
		s.maxBytes = *v
	}
	if v := fileCfg.Cache.MemoryEntries; v != nil {
		if *v <= 0 {
			return mediaSettings{}, fmt.Errorf("cache memory-entries must be greater than 0")
		}
		s.memoryEntries = *v
	}
	return s, nil
}

func setString(target, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	*target = strings.TrimSpace(*value)
}

// newMediaService builds the remote service behind the persistent
// illustration cache.
func newMediaService(st *store.Store, s mediaSettings, logger *slog.Logger) (*media.CachedService, error) {
	apiKey := strings.TrimSpace(os.Getenv(apiKeyEnv))
	if apiKey == "" {
		return nil, fmt.Errorf("%s is not set (export it or add it to %s)", apiKeyEnv, config.DefaultEnvPath())
	}
	opts := []openai.Option{
		openai.WithTimeout(s.timeout),
		openai.WithImageModel(s.imageModel),
		openai.WithSpeechModel(s.speechModel),
		openai.WithScoreModel(s.scoreModel),
	}
	if s.baseURL != "" {
		opts = append(opts, openai.WithBaseURL(s.baseURL))
	}
	remote, err := openai.New(apiKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create media service: %w", err)
	}
	cached, err := media.NewCachedService(remote, st.ImageCache(s.maxBytes),
		media.WithMemoryEntries(s.memoryEntries),
		media.WithLogger(logger.With("component", "image_cache")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	return cached, nil
}

// loadEnv reads .env from the working directory and the config directory.
// Variables already in the environment win.
func loadEnv() {
	for _, path := range []string{".env", config.DefaultEnvPath()} {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			logErrf("failed to read %s: %v\n", path, err)
		}
	}
}

// openLogger sends structured records to the log file; the terminal belongs
// to the TUI. Every record carries the run id.
func openLogger(path string, debug bool) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())
	slog.SetDefault(logger)
	closeLog := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}
	return logger, closeLog, nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# phonicpal configuration
# Uncomment a value to enable it. CLI flags override config values.
# OPENAI_API_KEY is read from the environment or from %s.

[practice]
# age = "grade2"          # preschool, grade1 ... grade6
# topic = "nature"        # nature, science, history, arts, life
# catalog = ""            # Path to a custom word catalog
# focus-weak = false      # Build the deck from recently struggled words
# weak-top = %d            # Number of weak words to practice
# weak-window = %d        # Number of recent sessions to find weak words in
# no-audio = false        # Disable narration and sound effects

[media]
# base-url = ""           # OpenAI-compatible endpoint
# timeout = %q         # Per-request timeout
# image-model = %q
# speech-model = %q
# score-model = %q
# teacher-voice = %q
# coach-voice = %q

[audio]
# record-cmd = %q
# play-cmd = %q

[cache]
# max-bytes = %d      # Illustration cache quota
# memory-entries = %d     # Illustrations kept in memory
`,
		config.DefaultEnvPath(),
		defaultWeakTop,
		defaultWeakWindow,
		defaultMediaTimeout.String(),
		string(openai.DefaultImageModel),
		string(openai.DefaultSpeechModel),
		string(openai.DefaultScoreModel),
		media.DefaultVoices.Teacher,
		media.DefaultVoices.Coach,
		strings.Join(audio.DefaultRecordCommand, " "),
		strings.Join(audio.DefaultPlayCommand, " "),
		store.DefaultCacheBytes,
		defaultMemoryEntries,
	)
}
