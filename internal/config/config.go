// Package config provides configuration loading and structs for the Virtual TA server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Assistant AssistantConfig `yaml:"assistant"`
	Storage   StorageConfig   `yaml:"storage"`
	Search    SearchConfig    `yaml:"search"`
	Scraper   ScraperConfig   `yaml:"scraper"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// AssistantConfig holds question handling settings.
type AssistantConfig struct {
	// SimulatedLatency is waited before every answer. An unset or zero value in
	// YAML means the 2s default; "-1s" disables the delay. VTA_SIMULATED_LATENCY=0
	// also disables it.
	SimulatedLatency  time.Duration `yaml:"simulated_latency"`
	MinQuestionLength int           `yaml:"min_question_length"`
	MaxImageBytes     int64         `yaml:"max_image_bytes"`
	// CorpusPath is an optional YAML corpus; empty uses the built-in corpus.
	CorpusPath string `yaml:"corpus_path"`
}

// StorageConfig holds paths for the post archive.
type StorageConfig struct {
	// Disabled turns the post archive off; post search then answers 501.
	Disabled       bool   `yaml:"disabled"`
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// SearchConfig holds post search ranking settings. Zero values take the
// ranking package defaults.
type SearchConfig struct {
	RankingEnabled        bool          `yaml:"ranking_enabled"`
	TitlePhraseMultiplier float64       `yaml:"title_phrase_multiplier"`
	EngagementWeight      float64       `yaml:"engagement_weight"`
	RecencyHalfLife       time.Duration `yaml:"recency_half_life"`
}

// ScraperConfig holds Discourse scraper settings.
type ScraperConfig struct {
	BaseURL  string `yaml:"base_url"`
	Category string `yaml:"category"`
}

// Load reads and parses the config file at path, applies .env and environment
// overrides, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	configDir := filepath.Dir(path)
	// A missing .env is normal; variables already set in the environment win.
	_ = godotenv.Load(filepath.Join(configDir, ".env"))
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Assistant.CorpusPath = expandPath(cfg.Assistant.CorpusPath, configDir)

	return &cfg, nil
}

// FromEnv builds a config without a file: .env in dir, then VTA_* variables,
// then defaults. Relative paths resolve against dir.
func FromEnv(dir string) (*Config, error) {
	var cfg Config
	_ = godotenv.Load(filepath.Join(dir, ".env"))
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, dir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, dir)
	cfg.Assistant.CorpusPath = expandPath(cfg.Assistant.CorpusPath, dir)
	return &cfg, nil
}

// Save writes the config to path. A zero latency is written as "-1s" so it
// reloads as no delay.
func Save(path string, cfg *Config) error {
	out := *cfg
	if out.Assistant.SimulatedLatency == 0 {
		out.Assistant.SimulatedLatency = noLatency
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with VTA_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("VTA_HOST"); ok {
		cfg.Server.Host = v
	}
	if v, ok := os.LookupEnv("VTA_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid VTA_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v, ok := os.LookupEnv("VTA_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid VTA_DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}
	if v, ok := os.LookupEnv("VTA_SIMULATED_LATENCY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VTA_SIMULATED_LATENCY %q: %w", v, err)
		}
		if d == 0 {
			d = noLatency
		}
		cfg.Assistant.SimulatedLatency = d
	}
	if v, ok := os.LookupEnv("VTA_CORPUS_PATH"); ok {
		cfg.Assistant.CorpusPath = v
	}
	if v, ok := os.LookupEnv("VTA_DATABASE_PATH"); ok {
		cfg.Storage.DatabasePath = v
	}
	if v, ok := os.LookupEnv("VTA_BLEVE_INDEX_PATH"); ok {
		cfg.Storage.BleveIndexPath = v
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty stays empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
