// Package config loads the top-level run configuration for a pktsdr
// invocation: input/output paths, logging, and the optional metrics/MQTT
// diagnostic surfaces.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is the top-level YAML-configured run description.
type RunConfig struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	MetricsAddr string      `yaml:"metrics_addr,omitempty"` // empty disables the /metrics server
	MQTT        MQTTConfig  `yaml:"mqtt"`

	CorrelationWindowDivisor float64 `yaml:"correlation_window_divisor,omitempty"` // default 4, window = sample_rate / this
}

// InputConfig describes the audio and chain-plan inputs.
type InputConfig struct {
	WAVPath       string `yaml:"wav_path"`
	ChainPlanPath string `yaml:"chain_plan_path"`
}

// OutputConfig describes report destinations.
type OutputConfig struct {
	ReportStyle string `yaml:"report_style"` // "raw" or "decoded_headers"
	ArchivePath string `yaml:"archive_path,omitempty"` // optional .jsonl.zst archive of every decoded packet
	PrintRawBad bool   `yaml:"print_raw_bad"`
}

// LoggingConfig selects slog's level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // "tint" (default, colorized) or "json"
}

// MQTTConfig optionally publishes unique decoded packets.
type MQTTConfig struct {
	Broker string `yaml:"broker,omitempty"` // empty disables publishing
	Topic  string `yaml:"topic,omitempty"`
}

// Load reads and validates a RunConfig from filename, applying the same
// zero-value-field defaulting convention used elsewhere in this
// repository's YAML configuration.
func Load(filename string) (*RunConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Input.WAVPath == "" {
		return nil, fmt.Errorf("input.wav_path is required")
	}
	if cfg.Input.ChainPlanPath == "" {
		return nil, fmt.Errorf("input.chain_plan_path is required")
	}
	if cfg.Output.ReportStyle == "" {
		cfg.Output.ReportStyle = "decoded_headers"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "tint"
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "pktsdr"
	}
	if cfg.CorrelationWindowDivisor == 0 {
		cfg.CorrelationWindowDivisor = 4
	}

	return &cfg, nil
}
