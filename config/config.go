// Package config holds viewer configuration and its file formats.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// CallbackMode selects how callbacks are wired to state changes.
type CallbackMode string

const (
	// ModeStream routes callbacks through the shared stream pipelines.
	ModeStream CallbackMode = "stream"
	// ModePlain registers callbacks directly on the change signals.
	ModePlain CallbackMode = "plain"
)

type Config struct {
	// DisableSegmentSelection stops hover selection on segmentation layers.
	// Read when a layer is first discovered; toggling it later only affects
	// layers discovered afterwards.
	DisableSegmentSelection bool `toml:"disable_segment_selection" yaml:"disable_segment_selection"`
	// UseCustomSegmentColors installs per-segment colour overrides. Read once
	// when the viewer is composed.
	UseCustomSegmentColors bool `toml:"use_custom_segment_colors" yaml:"use_custom_segment_colors"`
	// TrackLayerValues enables the hover value pipeline. Read once when the
	// viewer is composed.
	TrackLayerValues bool         `toml:"track_layer_values" yaml:"track_layer_values"`
	CallbackMode     CallbackMode `toml:"callback_mode" yaml:"callback_mode"`
	LogLevel         string       `toml:"log_level" yaml:"log_level"`
}

func Default() Config {
	return Config{
		CallbackMode: ModeStream,
		LogLevel:     "info",
	}
}

// Load reads a .toml, .yaml or .yml file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config load failed (%s): unsupported extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.CallbackMode {
	case ModeStream, ModePlain:
	default:
		return fmt.Errorf("config invalid: callback_mode %q (want %q or %q)", c.CallbackMode, ModeStream, ModePlain)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel; empty means info.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config invalid: log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// LayerPolicy is the part of Config a layer is bound to when it is first
// discovered.
type LayerPolicy struct {
	DisableSegmentSelection bool
}

// PolicyFor captures the per-layer settings as they are right now.
func (c Config) PolicyFor() LayerPolicy {
	return LayerPolicy{DisableSegmentSelection: c.DisableSegmentSelection}
}
