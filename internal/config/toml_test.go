package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Age != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
age = "grade2"
focus-weak = true
weak-top = 5

[media]
coach-voice = "coral"
timeout = "20s"

[audio]
play-cmd = "play -q -"

[cache]
max-bytes = 1024
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Age == nil || *cfg.Practice.Age != "grade2" {
		t.Fatalf("unexpected age: %v", cfg.Practice.Age)
	}
	if cfg.Practice.FocusWeak == nil || !*cfg.Practice.FocusWeak {
		t.Fatalf("expected focus-weak")
	}
	if cfg.Practice.WeakTop == nil || *cfg.Practice.WeakTop != 5 {
		t.Fatalf("unexpected weak-top")
	}
	if cfg.Media.CoachVoice == nil || *cfg.Media.CoachVoice != "coral" {
		t.Fatalf("unexpected coach voice")
	}
	if cfg.Audio.PlayCmd == nil || *cfg.Audio.PlayCmd != "play -q -" {
		t.Fatalf("unexpected play cmd")
	}
	if cfg.Cache.MaxBytes == nil || *cfg.Cache.MaxBytes != 1024 {
		t.Fatalf("unexpected max bytes")
	}
	if cfg.Practice.Topic != nil {
		t.Fatalf("expected unset topic")
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice\nage ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
