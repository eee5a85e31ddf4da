package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Audio   AudioConfig   `yaml:"audio"`
	Mix     MixConfig     `yaml:"mix"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig contains HTTP API server configuration.
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
	Enabled bool   `yaml:"enabled"`
}

// AudioConfig describes the incoming speech audio contract.
type AudioConfig struct {
	VoiceSampleRate int `yaml:"voice_sample_rate"`
	Channels        int `yaml:"channels"`
	BitDepth        int `yaml:"bit_depth"`
}

// MixConfig contains render and music-bed parameters.
type MixConfig struct {
	RenderSampleRate int     `yaml:"render_sample_rate"`
	MusicGain        float64 `yaml:"music_gain"`
	FadeInSeconds    float64 `yaml:"fade_in_seconds"`
	FadeOutSeconds   float64 `yaml:"fade_out_seconds"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with sensible defaults, used by the
// CLI where no config file is involved.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:    8080,
			Address: "0.0.0.0",
			Enabled: true,
		},
		Audio: AudioConfig{
			VoiceSampleRate: 24000,
			Channels:        1,
			BitDepth:        16,
		},
		Mix: MixConfig{
			RenderSampleRate: 44100,
			MusicGain:        0.6,
			FadeInSeconds:    0.5,
			FadeOutSeconds:   1.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Validate performs comprehensive validation of the configuration.
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Mix.Validate(); err != nil {
		return fmt.Errorf("mix config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates HTTP configuration.
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates audio configuration. The incoming speech contract
// is fixed: 16-bit mono PCM at 24 kHz.
func (a *AudioConfig) Validate() error {
	if a.VoiceSampleRate != 24000 {
		return fmt.Errorf("voice_sample_rate must be 24000 Hz for the speech contract, got %d", a.VoiceSampleRate)
	}

	if a.Channels != 1 {
		return fmt.Errorf("channels must be 1 (mono) for the speech contract, got %d", a.Channels)
	}

	if a.BitDepth != 16 {
		return fmt.Errorf("bit_depth must be 16 for the speech contract, got %d", a.BitDepth)
	}

	return nil
}

// Validate validates mix configuration.
func (m *MixConfig) Validate() error {
	if m.RenderSampleRate < 8000 {
		return fmt.Errorf("render_sample_rate must be at least 8000 Hz, got %d", m.RenderSampleRate)
	}

	if m.MusicGain <= 0 || m.MusicGain > 1 {
		return fmt.Errorf("music_gain must be in (0, 1], got %f", m.MusicGain)
	}

	if m.FadeInSeconds <= 0 {
		return fmt.Errorf("fade_in_seconds must be positive, got %f", m.FadeInSeconds)
	}

	if m.FadeOutSeconds <= 0 {
		return fmt.Errorf("fade_out_seconds must be positive, got %f", m.FadeOutSeconds)
	}

	return nil
}

// Validate validates logging configuration.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}
