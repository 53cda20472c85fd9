// Package config loads the engine's tunables from a YAML file, falling
// back to the frozen defaults named in the external-interfaces contract
// when the file is absent.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every numeric knob the engine consults. Field names mirror
// the external-interfaces constants so a reviewer can check either source
// against the other directly.
type Config struct {
	Limits struct {
		MaxMessageChars   int `yaml:"max_message_chars"`
		MaxBulkBytes      int `yaml:"max_bulk_bytes"`
		MinCharsForImport int `yaml:"min_chars_for_import"`
	} `yaml:"limits"`
	Classifier struct {
		TimeoutMs int `yaml:"timeout_ms"`
	} `yaml:"classifier"`
	Conversation struct {
		GapHours         float64 `yaml:"gap_hours"`
		ResponseCapHours float64 `yaml:"response_time_cap_hours"`
	} `yaml:"conversation"`
	RedFlags struct {
		MessageImbalanceRatio   float64 `yaml:"message_imbalance_ratio"`
		SlowResponseMinutes     float64 `yaml:"slow_response_minutes"`
		FrequencyDropRatio      float64 `yaml:"frequency_drop_ratio"`
		OneSidedInitiationRatio float64 `yaml:"one_sided_initiation_ratio"`
		LowEngagementAvgChars   float64 `yaml:"low_engagement_avg_chars"`
	} `yaml:"red_flags"`
	Cache struct {
		ClassifierLRUSize int    `yaml:"classifier_lru_size"`
		RedisURL          string `yaml:"redis_url"`
		RedisPrefix       string `yaml:"redis_prefix"`
	} `yaml:"cache"`
	Sink struct {
		SurrealHost     string `yaml:"surreal_host"`
		SurrealUser     string `yaml:"surreal_user"`
		SurrealPass     string `yaml:"surreal_pass"`
		SurrealNS       string `yaml:"surreal_namespace"`
		SurrealDatabase string `yaml:"surreal_database"`
	} `yaml:"sink"`
}

// Load reads path and unmarshals it into a Config. When path does not
// exist, Load returns the frozen defaults from the external-interfaces
// contract instead of an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		applyDefaults(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.Limits.MaxMessageChars = 5000
	cfg.Limits.MaxBulkBytes = 5 * 1024 * 1024
	cfg.Limits.MinCharsForImport = 10
	cfg.Classifier.TimeoutMs = 2000
	cfg.Conversation.GapHours = 6
	cfg.Conversation.ResponseCapHours = 24
	cfg.RedFlags.MessageImbalanceRatio = 3.0
	cfg.RedFlags.SlowResponseMinutes = 180
	cfg.RedFlags.FrequencyDropRatio = 0.5
	cfg.RedFlags.OneSidedInitiationRatio = 4.0
	cfg.RedFlags.LowEngagementAvgChars = 20
	cfg.Cache.ClassifierLRUSize = 1000
	cfg.Cache.RedisPrefix = "cae"
}
