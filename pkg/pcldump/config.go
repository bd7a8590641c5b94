// Package pcldump provides a high-level API for configuring capture
// sessions programmatically.
package pcldump

import (
	"os"
	"time"

	"github.com/user/pcldump/pkg/capture"
	"github.com/user/pcldump/pkg/orchestrator"
	"github.com/user/pcldump/pkg/ports"
	"github.com/user/pcldump/pkg/render"
)

// FormatPreset selects an output format preset.
type FormatPreset string

const (
	// FormatPDF converts jobs to PDF documents.
	FormatPDF FormatPreset = "pdf"
	// FormatPNG converts jobs to PNG rasters and enables the phosphor
	// post-process by default.
	FormatPNG FormatPreset = "png"
)

// Config is the full capture session configuration.
type Config struct {
	// Line
	LineAddress       string // Device path, e.g. /dev/ttyUSB0
	LineSpeed         int    // Baud rate
	IgnoreLineAbsence bool   // Run without a line; buffer fed externally

	// Buffer
	BufferPath string // On-disk capture buffer
	KeepBuffer bool   // Leave the buffer after rendering

	// Timing
	Window    time.Duration // Inactivity window T (default: 2s)
	PausePoll time.Duration // Gate recheck cadence while paused

	// Converter
	ConverterBin  string
	ConverterArgs []string

	// Output naming
	OutputDir string
	Prefix    string
	Format    string // Output extension: pdf or png

	// Phosphor post-process (raster only)
	Phosphor     bool
	PhosphorBin  string
	PhosphorArgs []string

	// Preview
	Preview   bool
	ViewerCmd string

	// Startup bus handshake
	StartupCommands []string
	StartupDelay    time.Duration
}

// pdfDefaults returns the PDF preset configuration.
func pdfDefaults() Config {
	return Config{
		LineAddress: "/dev/ttyUSB0",
		LineSpeed:   19200,

		BufferPath: "/tmp/scope.dump",

		Window:    2 * time.Second,
		PausePoll: 200 * time.Millisecond,

		ConverterBin:  "/usr/local/bin/gpcl6",
		ConverterArgs: []string{"-sDEVICE=pdfwrite", "-o"},

		OutputDir: defaultOutputDir(),
		Prefix:    "scope_output_",
		Format:    "pdf",

		PhosphorBin: "/usr/bin/convert",
		PhosphorArgs: []string{
			"-alpha", "off",
			"-fill", "#00EE00",
			"-draw", "color 0,0 replace",
			"+level-colors", "green,black",
			"-auto-level",
		},

		Preview:   true,
		ViewerCmd: "firefox",

		StartupDelay: 1200 * time.Millisecond,
	}
}

// pngDefaults returns the raster preset: pngalpha conversion with the
// phosphor look enabled.
func pngDefaults() Config {
	cfg := pdfDefaults()
	cfg.Format = "png"
	cfg.ConverterArgs = []string{"-sDEVICE=pngalpha", "-r128", "-dGraphicsAlphaBits=4", "-o"}
	cfg.Phosphor = true
	return cfg
}

// defaultOutputDir places rendered files in the home directory.
func defaultOutputDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with PDF preset defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: pdfDefaults()}
}

// NewRasterConfigBuilder creates a new ConfigBuilder with PNG preset
// defaults (phosphor enabled).
func NewRasterConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: pngDefaults()}
}

// WithLineAddress sets the line device path.
func (b *ConfigBuilder) WithLineAddress(address string) *ConfigBuilder {
	b.config.LineAddress = address
	return b
}

// WithLineSpeed sets the baud rate.
func (b *ConfigBuilder) WithLineSpeed(speed int) *ConfigBuilder {
	b.config.LineSpeed = speed
	return b
}

// WithIgnoreLineAbsence bypasses attaching to the line.
func (b *ConfigBuilder) WithIgnoreLineAbsence(ignore bool) *ConfigBuilder {
	b.config.IgnoreLineAbsence = ignore
	return b
}

// WithBufferPath sets the capture buffer location.
func (b *ConfigBuilder) WithBufferPath(path string) *ConfigBuilder {
	b.config.BufferPath = path
	return b
}

// WithKeepBuffer keeps the buffer on disk after rendering.
func (b *ConfigBuilder) WithKeepBuffer(keep bool) *ConfigBuilder {
	b.config.KeepBuffer = keep
	return b
}

// WithWindow sets the inactivity window T.
func (b *ConfigBuilder) WithWindow(window time.Duration) *ConfigBuilder {
	b.config.Window = window
	return b
}

// WithConverter sets the converter binary and its arguments.
func (b *ConfigBuilder) WithConverter(bin string, args ...string) *ConfigBuilder {
	b.config.ConverterBin = bin
	b.config.ConverterArgs = args
	return b
}

// WithOutputDir sets where rendered files are stored.
func (b *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	b.config.OutputDir = dir
	return b
}

// WithPrefix sets the rendered filename prefix.
func (b *ConfigBuilder) WithPrefix(prefix string) *ConfigBuilder {
	b.config.Prefix = prefix
	return b
}

// WithPhosphor toggles the phosphor post-process.
func (b *ConfigBuilder) WithPhosphor(enabled bool) *ConfigBuilder {
	b.config.Phosphor = enabled
	return b
}

// WithPhosphorCommand sets the post-process binary and its arguments.
func (b *ConfigBuilder) WithPhosphorCommand(bin string, args ...string) *ConfigBuilder {
	b.config.PhosphorBin = bin
	b.config.PhosphorArgs = args
	return b
}

// WithPreview enables preview with the given viewer command.
func (b *ConfigBuilder) WithPreview(viewer string) *ConfigBuilder {
	b.config.Preview = true
	b.config.ViewerCmd = viewer
	return b
}

// WithoutPreview disables preview.
func (b *ConfigBuilder) WithoutPreview() *ConfigBuilder {
	b.config.Preview = false
	return b
}

// WithStartupCommands sets the bus handshake sequence and inter-command
// delay.
func (b *ConfigBuilder) WithStartupCommands(delay time.Duration, commands ...string) *ConfigBuilder {
	b.config.StartupCommands = commands
	b.config.StartupDelay = delay
	return b
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() Config {
	return b.config
}

// SourceOptions derives the byte source options.
func (c Config) SourceOptions() capture.SourceOptions {
	return capture.SourceOptions{
		PausePoll:       c.PausePoll,
		StartupCommands: c.StartupCommands,
		StartupDelay:    c.StartupDelay,
	}
}

// MonitorOptions derives the job monitor options.
func (c Config) MonitorOptions() capture.MonitorOptions {
	return capture.MonitorOptions{
		Window:    c.Window,
		PausePoll: c.PausePoll,
	}
}

// RenderOptions derives the renderer options.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		ConverterBin:  c.ConverterBin,
		ConverterArgs: c.ConverterArgs,
		OutputDir:     c.OutputDir,
		Prefix:        c.Prefix,
		Format:        c.Format,
		Phosphor:      c.Phosphor,
		PhosphorBin:   c.PhosphorBin,
		PhosphorArgs:  c.PhosphorArgs,
		Preview:       c.Preview,
		ViewerCmd:     c.ViewerCmd,
		KeepBuffer:    c.KeepBuffer,
	}
}

// LineOptions derives the line options.
func (c Config) LineOptions() ports.LineOptions {
	return ports.LineOptions{
		Address: c.LineAddress,
		Speed:   c.LineSpeed,
	}
}

// Params derives the display parameters.
func (c Config) Params() orchestrator.Params {
	return orchestrator.Params{
		LineAddress:   c.LineAddress,
		LineSpeed:     c.LineSpeed,
		Window:        c.Window,
		BufferPath:    c.BufferPath,
		KeepBuffer:    c.KeepBuffer,
		Format:        c.Format,
		ConverterBin:  c.ConverterBin,
		ConverterArgs: c.ConverterArgs,
		OutputDir:     c.OutputDir,
		Prefix:        c.Prefix,
		Preview:       c.Preview,
		ViewerCmd:     c.ViewerCmd,
	}
}
