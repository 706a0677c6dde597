package config

import "time"

const (
	// DefaultSimulatedLatency matches the widget's fixed two second "Processing..." state.
	DefaultSimulatedLatency = 2 * time.Second
	// DefaultMaxImageBytes is the 5MB upload limit.
	DefaultMaxImageBytes = 5 * 1024 * 1024

	// noLatency is the stored form of "no delay"; zero means use the default.
	noLatency = -time.Second
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	// Negative latency is an explicit "no delay".
	if cfg.Assistant.SimulatedLatency == 0 {
		cfg.Assistant.SimulatedLatency = DefaultSimulatedLatency
	} else if cfg.Assistant.SimulatedLatency < 0 {
		cfg.Assistant.SimulatedLatency = 0
	}
	if cfg.Assistant.MinQuestionLength == 0 {
		cfg.Assistant.MinQuestionLength = 5
	}
	if cfg.Assistant.MaxImageBytes == 0 {
		cfg.Assistant.MaxImageBytes = DefaultMaxImageBytes
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/vta/data/db/posts.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/vta/data/indices/bleve"
	}
	if cfg.Scraper.BaseURL == "" {
		cfg.Scraper.BaseURL = "https://discourse.onlinedegree.iitm.ac.in"
	}
	if cfg.Scraper.Category == "" {
		cfg.Scraper.Category = "tds"
	}
}
