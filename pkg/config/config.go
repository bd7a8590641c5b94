// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/pcldump/pkg/pcldump"
)

// Config represents the full configuration file for pcldump.
type Config struct {
	// Line
	LineAddress       string `yaml:"line_address"`
	LineSpeed         int    `yaml:"line_speed"`
	IgnoreLineAbsence bool   `yaml:"ignore_line_absence"`

	// Buffer
	BufferPath string `yaml:"buffer_path"`
	KeepBuffer bool   `yaml:"keep_buffer"`

	// Timing
	TimeoutMs   int `yaml:"timeout_ms"`
	PausePollMs int `yaml:"pause_poll_ms"`

	// Converter
	Converter ConverterConfig `yaml:"converter"`

	// Output
	OutputDir string `yaml:"output_dir"`
	Prefix    string `yaml:"prefix"`
	Format    string `yaml:"format"`

	// Phosphor post-process
	Phosphor PhosphorConfig `yaml:"phosphor"`

	// Preview
	Preview PreviewConfig `yaml:"preview"`

	// Startup bus handshake
	Startup StartupConfig `yaml:"startup"`
}

// ConverterConfig represents the external converter invocation.
type ConverterConfig struct {
	Bin  string   `yaml:"bin"`
	Args []string `yaml:"args"`
}

// PhosphorConfig represents the raster post-process settings.
type PhosphorConfig struct {
	Enabled bool     `yaml:"enabled"`
	Bin     string   `yaml:"bin"`
	Args    []string `yaml:"args"`
}

// PreviewConfig represents the preview settings.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Viewer  string `yaml:"viewer"`
}

// StartupConfig represents the startup command sequence.
type StartupConfig struct {
	Commands []string `yaml:"commands"`
	DelayMs  int      `yaml:"delay_ms"`
}

// Defaults returns a Config with default values, matching the PDF preset.
func Defaults() Config {
	base := pcldump.NewConfigBuilder().Build()
	return Config{
		LineAddress: base.LineAddress,
		LineSpeed:   base.LineSpeed,

		BufferPath: base.BufferPath,

		TimeoutMs:   int(base.Window / time.Millisecond),
		PausePollMs: int(base.PausePoll / time.Millisecond),

		Converter: ConverterConfig{
			Bin:  base.ConverterBin,
			Args: base.ConverterArgs,
		},

		OutputDir: base.OutputDir,
		Prefix:    base.Prefix,
		Format:    base.Format,

		Phosphor: PhosphorConfig{
			Enabled: base.Phosphor,
			Bin:     base.PhosphorBin,
			Args:    base.PhosphorArgs,
		},

		Preview: PreviewConfig{
			Enabled: base.Preview,
			Viewer:  base.ViewerCmd,
		},

		Startup: StartupConfig{
			DelayMs: int(base.StartupDelay / time.Millisecond),
		},
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ToCaptureConfig converts Config to the high-level capture configuration.
func (c Config) ToCaptureConfig() pcldump.Config {
	return pcldump.Config{
		LineAddress:       c.LineAddress,
		LineSpeed:         c.LineSpeed,
		IgnoreLineAbsence: c.IgnoreLineAbsence,

		BufferPath: c.BufferPath,
		KeepBuffer: c.KeepBuffer,

		Window:    time.Duration(c.TimeoutMs) * time.Millisecond,
		PausePoll: time.Duration(c.PausePollMs) * time.Millisecond,

		ConverterBin:  c.Converter.Bin,
		ConverterArgs: c.Converter.Args,

		OutputDir: c.OutputDir,
		Prefix:    c.Prefix,
		Format:    c.Format,

		Phosphor:     c.Phosphor.Enabled,
		PhosphorBin:  c.Phosphor.Bin,
		PhosphorArgs: c.Phosphor.Args,

		Preview:   c.Preview.Enabled,
		ViewerCmd: c.Preview.Viewer,

		StartupCommands: c.Startup.Commands,
		StartupDelay:    time.Duration(c.Startup.DelayMs) * time.Millisecond,
	}
}
