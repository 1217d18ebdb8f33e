package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Round.Count != 10 || cfg.Scores.Backend != BackendJSON || cfg.UI.Lang != "fr" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
questions:
  dir: data/questions
scores:
  backend: sqlite
round:
  count: 5
  time_limit: 20s
  balanced: true
ui:
  lang: en
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Questions.Dir != "data/questions" || cfg.Questions.File != "questions.json" {
		t.Fatalf("unexpected questions section %+v", cfg.Questions)
	}
	if cfg.Scores.Backend != BackendSQLite || cfg.Scores.SQLitePath != "scores.db" {
		t.Fatalf("unexpected scores section %+v", cfg.Scores)
	}
	if cfg.Round.Count != 5 || !cfg.Round.Balanced || Duration(cfg.Round.TimeLimit, 0) != 20*time.Second {
		t.Fatalf("unexpected round section %+v", cfg.Round)
	}
	if cfg.UI.Lang != "en" {
		t.Fatalf("unexpected lang %q", cfg.UI.Lang)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("round: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", time.Minute},
		{"15s", 15 * time.Second},
		{"1m30s", 90 * time.Second},
		{"30", 30 * time.Second},
		{"0", 0},
		{"soon", time.Minute},
	}
	for _, tc := range cases {
		if got := Duration(tc.raw, time.Minute); got != tc.want {
			t.Errorf("Duration(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
