// Package config loads the application configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the fixed relative path the entry point reads.
const DefaultPath = "config/scrapers.yaml"

// Config represents the structure of config/scrapers.yaml.
type Config struct {
	// ChannelsFile is the path to the plain-text channel list.
	ChannelsFile string `yaml:"channels_file"`
	// MaxResultsPerChannel bounds how many recent videos are fetched per
	// channel.
	MaxResultsPerChannel int `yaml:"max_results_per_channel"`
	// TranscriptLanguages are tried in order when fetching transcripts.
	TranscriptLanguages []string `yaml:"transcript_languages"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		ChannelsFile:         "config/channels.txt",
		MaxResultsPerChannel: 3,
		TranscriptLanguages:  []string{"en"},
		LogLevel:             "info",
	}
}

// Load reads configuration from the given path. A missing file is not an
// error and yields the defaults; a file that exists but cannot be parsed is.
// Fields left unset in the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if len(cfg.TranscriptLanguages) == 0 {
		cfg.TranscriptLanguages = Default().TranscriptLanguages
	}
	return cfg, nil
}
