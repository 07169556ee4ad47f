package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AudioConfig stores engine-wide audio settings.
type AudioConfig struct {
	MaxChannels int `yaml:"max_channels"`
	SampleRate  int `yaml:"sample_rate"`
	BufferSize  int `yaml:"buffer_size"`
	BitDepth    int `yaml:"bit_depth"`
}

// DevicesConfig stores interface detection settings.
type DevicesConfig struct {
	ScanIntervalSeconds int `yaml:"scan_interval_seconds"`
	ScanTimeoutSeconds  int `yaml:"scan_timeout_seconds"`
	CapabilityCacheSize int `yaml:"capability_cache_size"`
}

// StorageConfig stores persistence settings.
type StorageConfig struct {
	PresetsDir string `yaml:"presets_dir"`
}

// Config stores the application configuration.
type Config struct {
	Audio    AudioConfig   `yaml:"audio"`
	Devices  DevicesConfig `yaml:"devices"`
	Storage  StorageConfig `yaml:"storage"`
	LogLevel string        `yaml:"log_level"`
}

// LoadConfig loads the configuration from the given file path and fills in
// defaults for anything the file leaves unset.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Audio.MaxChannels == 0 {
		c.Audio.MaxChannels = 64
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 48000
	}
	if c.Audio.BufferSize == 0 {
		c.Audio.BufferSize = 512
	}
	if c.Audio.BitDepth == 0 {
		c.Audio.BitDepth = 24
	}
	if c.Devices.ScanIntervalSeconds == 0 {
		c.Devices.ScanIntervalSeconds = 30
	}
	if c.Devices.ScanTimeoutSeconds == 0 {
		c.Devices.ScanTimeoutSeconds = 10
	}
	if c.Devices.CapabilityCacheSize == 0 {
		c.Devices.CapabilityCacheSize = 32
	}
	if c.Storage.PresetsDir == "" {
		c.Storage.PresetsDir = "presets"
	}
}

// ScanInterval is how often the watcher re-enumerates devices.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Devices.ScanIntervalSeconds) * time.Second
}

// ScanTimeout bounds a single device enumeration pass.
func (c *Config) ScanTimeout() time.Duration {
	return time.Duration(c.Devices.ScanTimeoutSeconds) * time.Second
}
