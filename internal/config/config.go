package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Questions struct {
		Dir        string `yaml:"dir"`
		File       string `yaml:"file"`
		CustomFile string `yaml:"custom_file"`
	} `yaml:"questions"`
	Scores struct {
		Backend    string `yaml:"backend"`
		Path       string `yaml:"path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"scores"`
	Round struct {
		Count     int    `yaml:"count"`
		TimeLimit string `yaml:"time_limit"`
		Balanced  bool   `yaml:"balanced"`
	} `yaml:"round"`
	UI struct {
		Lang string `yaml:"lang"`
	} `yaml:"ui"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Questions.Dir = "questions"
	cfg.Questions.File = "questions.json"
	cfg.Questions.CustomFile = "questions_custom.json"
	cfg.Scores.Backend = BackendJSON
	cfg.Scores.Path = "scores.json"
	cfg.Scores.SQLitePath = "scores.db"
	cfg.Round.Count = 10
	cfg.UI.Lang = "fr"
	cfg.Log.Level = "warn"
	cfg.Log.Format = "text"
	return cfg
}

// Load reads YAML config from path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or malformed.
// A bare number is read as seconds.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
