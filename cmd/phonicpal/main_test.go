package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/phonicpal/internal/catalog"
	"github.com/verte-zerg/phonicpal/internal/config"
	"github.com/verte-zerg/phonicpal/internal/deck"
	"github.com/verte-zerg/phonicpal/internal/media"
	"github.com/verte-zerg/phonicpal/internal/model"
	"github.com/verte-zerg/phonicpal/internal/nav"
	"github.com/verte-zerg/phonicpal/internal/stats"
	"github.com/verte-zerg/phonicpal/internal/store"
)

func TestDefaultConfigTemplateIsInert(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if cfg.Practice.Age != nil || cfg.Media.Timeout != nil || cfg.Cache.MaxBytes != nil {
		t.Fatalf("expected every value commented out")
	}
}

func TestDefaultConfigTemplateUncommented(t *testing.T) {
	var b strings.Builder
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	var cfg config.FileConfig
	if _, err := toml.Decode(b.String(), &cfg); err != nil {
		t.Fatalf("decode uncommented template: %v", err)
	}
	if cfg.Practice.Age == nil || *cfg.Practice.Age != "grade2" {
		t.Fatalf("expected age grade2, got %v", cfg.Practice.Age)
	}
	if cfg.Practice.WeakTop == nil || *cfg.Practice.WeakTop != defaultWeakTop {
		t.Fatalf("expected weak-top %d", defaultWeakTop)
	}

	settings, err := resolveMediaSettings(cfg)
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	if settings.timeout != defaultMediaTimeout {
		t.Fatalf("expected timeout %s, got %s", defaultMediaTimeout, settings.timeout)
	}
	if settings.voices != media.DefaultVoices {
		t.Fatalf("expected default voices, got %+v", settings.voices)
	}
	if settings.baseURL != "" {
		t.Fatalf("expected empty base url, got %q", settings.baseURL)
	}
	if len(settings.recordCmd) == 0 || settings.recordCmd[0] != "arecord" {
		t.Fatalf("unexpected record command %v", settings.recordCmd)
	}
	if settings.maxBytes != store.DefaultCacheBytes {
		t.Fatalf("expected default quota, got %d", settings.maxBytes)
	}
}

func TestResolveMediaSettingsRejectsBadValues(t *testing.T) {
	bad := "soon"
	zero := int64(0)
	cases := map[string]config.FileConfig{
		"timeout":   {Media: config.MediaConfig{Timeout: &bad}},
		"max-bytes": {Cache: config.CacheConfig{MaxBytes: &zero}},
	}
	for name, cfg := range cases {
		if _, err := resolveMediaSettings(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestResolveMediaSettingsOverrides(t *testing.T) {
	timeout := "15s"
	voice := " alloy "
	play := "paplay --raw"
	cfg := config.FileConfig{
		Media: config.MediaConfig{Timeout: &timeout, CoachVoice: &voice},
		Audio: config.AudioConfig{PlayCmd: &play},
	}
	settings, err := resolveMediaSettings(cfg)
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	if settings.timeout != 15*time.Second {
		t.Fatalf("expected 15s, got %s", settings.timeout)
	}
	if settings.voices.Coach != "alloy" || settings.voices.Teacher != media.DefaultVoices.Teacher {
		t.Fatalf("unexpected voices %+v", settings.voices)
	}
	if strings.Join(settings.playCmd, " ") != "paplay --raw" {
		t.Fatalf("unexpected play command %v", settings.playCmd)
	}
}

func TestApplyConfigKeepsChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var top, window int
	cmd.Flags().IntVar(&top, "weak-top", defaultWeakTop, "")
	cmd.Flags().IntVar(&window, "weak-window", defaultWeakWindow, "")
	if err := cmd.Flags().Set("weak-top", "3"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	fileTop, fileWindow := 12, 40
	applyIntConfig(cmd, "weak-top", &top, &fileTop)
	applyIntConfig(cmd, "weak-window", &window, &fileWindow)
	applyIntConfig(cmd, "weak-window", &window, nil)

	if top != 3 {
		t.Fatalf("expected flag value to win, got %d", top)
	}
	if window != 40 {
		t.Fatalf("expected config value, got %d", window)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(model.Config{WeakTop: 8, WeakWindow: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateConfig(model.Config{WeakTop: 0, WeakWindow: 20}); err == nil {
		t.Fatalf("expected weak-top error")
	}
	if err := validateConfig(model.Config{WeakTop: 8, WeakWindow: -1}); err == nil {
		t.Fatalf("expected weak-window error")
	}
}

func TestBuildConfigParsesAgeAndTopic(t *testing.T) {
	cfg, err := buildConfig("Grade 2", "science")
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Age != model.Grade2 || cfg.Topic != model.ScienceSpace {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := buildConfig("grade9", ""); err == nil {
		t.Fatalf("expected age error")
	}
	if _, err := buildConfig("", "cooking"); err == nil {
		t.Fatalf("expected topic error")
	}
}

func TestBuildStatsConfig(t *testing.T) {
	cfg, err := buildStatsConfig("preschool", "", "2026-01-02", 5, 10)
	if err != nil {
		t.Fatalf("build stats config: %v", err)
	}
	if cfg.Age != model.Preschool || cfg.Topic != "" || cfg.Last != 5 || cfg.CurveWindow != 10 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Day() != 2 {
		t.Fatalf("expected since date, got %v", cfg.Since)
	}
	if _, err := buildStatsConfig("", "", "yesterday", 0, 10); err == nil {
		t.Fatalf("expected since error")
	}
	if _, err := buildStatsConfig("", "", "", 0, 0); err == nil {
		t.Fatalf("expected curve window error")
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "phonicpal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestPreselectAgeAndTopic(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	builder := deck.NewWithSeed(1)
	controller := nav.New(cat, builder, deck.BuildReview)
	cfg := model.Config{Age: model.Grade1, Topic: model.DailyLife, WeakTop: 8, WeakWindow: 20}
	if err := preselect(context.Background(), controller, openTestStore(t), builder, cfg); err != nil {
		t.Fatalf("preselect: %v", err)
	}
	if controller.Screen() != nav.PreGame {
		t.Fatalf("expected pre-game, got %s", controller.Screen())
	}
	if len(controller.Deck()) != cat.Count(model.Grade1, model.DailyLife) {
		t.Fatalf("expected full topic deck, got %d words", len(controller.Deck()))
	}
}

func TestPreselectAgeOnly(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	builder := deck.NewWithSeed(1)
	controller := nav.New(cat, builder, deck.BuildReview)
	cfg := model.Config{Age: model.Grade3, WeakTop: 8, WeakWindow: 20}
	if err := preselect(context.Background(), controller, openTestStore(t), builder, cfg); err != nil {
		t.Fatalf("preselect: %v", err)
	}
	if controller.Screen() != nav.TopicSelection {
		t.Fatalf("expected topic selection, got %s", controller.Screen())
	}
}

func TestPreselectWeakWords(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	entries := cat.Filter(model.Grade2, model.NatureAnimals)
	if len(entries) < 3 {
		t.Fatalf("catalog too small: %d", len(entries))
	}

	st := openTestStore(t)
	now := time.Now()
	rec := model.SessionRecord{
		StartedAt: now.Add(-time.Minute),
		EndedAt:   now,
		Age:       model.Grade2,
		Topic:     model.NatureAnimals,
		DeckSize:  3,
		Completed: 3,
		Stars:     5,
	}
	attempts := []model.WordAttempt{
		{Word: entries[0].Word, Score: 40, Stars: 1, Struggled: true},
		{Word: entries[1].Word, Score: 55, Stars: 1, Struggled: true},
		{Word: entries[2].Word, Score: 97, Stars: 3},
	}
	if _, err := st.InsertSession(context.Background(), rec, attempts); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	builder := deck.NewWithSeed(1)
	controller := nav.New(cat, builder, deck.BuildReview)
	cfg := model.Config{Age: model.Grade2, FocusWeak: true, WeakTop: 8, WeakWindow: 20}
	if err := preselect(context.Background(), controller, st, builder, cfg); err != nil {
		t.Fatalf("preselect: %v", err)
	}
	if controller.Screen() != nav.PreGame {
		t.Fatalf("expected pre-game, got %s", controller.Screen())
	}
	got := map[string]bool{}
	for _, e := range controller.Deck() {
		got[e.Word] = true
	}
	if len(got) != 2 || !got[entries[0].Word] || !got[entries[1].Word] {
		t.Fatalf("expected the two struggled words, got %v", got)
	}
}

func TestPreselectWeakWordsWithoutHistory(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	builder := deck.NewWithSeed(1)
	controller := nav.New(cat, builder, deck.BuildReview)
	cfg := model.Config{FocusWeak: true, WeakTop: 8, WeakWindow: 20}
	if err := preselect(context.Background(), controller, openTestStore(t), builder, cfg); err != nil {
		t.Fatalf("preselect: %v", err)
	}
	if controller.Screen() != nav.Landing {
		t.Fatalf("expected landing, got %s", controller.Screen())
	}
}

func TestTopicLines(t *testing.T) {
	cat := catalog.New([]model.WordEntry{
		{Word: "cat", Definition: "a pet", Level: model.Preschool, Topic: model.NatureAnimals},
		{Word: "dog", Definition: "a pet", Level: model.Preschool, Topic: model.NatureAnimals},
		{Word: "moon", Definition: "night light", Level: model.Grade1, Topic: model.ScienceSpace},
	})
	lines := topicLines(cat, []model.AgeGroup{model.Preschool, model.Grade1})
	if len(lines) != len(model.Topics)+1 {
		t.Fatalf("expected header plus one line per topic, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "preschool") || !strings.Contains(lines[0], "grade1") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	nature := strings.Fields(lines[1])
	if nature[0] != "nature" || nature[len(nature)-2] != "2" || nature[len(nature)-1] != "0" {
		t.Fatalf("unexpected nature line %q", lines[1])
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		512:      "512 B",
		2048:     "2.0 KiB",
		64 << 20: "64.0 MiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestWritePlainReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writePlainReport(&buf, stats.Report{}, model.StatsConfig{CurveWindow: 5}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
