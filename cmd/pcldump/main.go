// Package main provides the CLI entry point for pcldump.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/pcldump/pkg/adapters/consolestatus"
	"github.com/user/pcldump/pkg/adapters/execrunner"
	"github.com/user/pcldump/pkg/adapters/filebuffer"
	"github.com/user/pcldump/pkg/adapters/logger"
	"github.com/user/pcldump/pkg/adapters/nullline"
	"github.com/user/pcldump/pkg/adapters/serialline"
	"github.com/user/pcldump/pkg/adapters/termcommand"
	"github.com/user/pcldump/pkg/capture"
	"github.com/user/pcldump/pkg/config"
	"github.com/user/pcldump/pkg/orchestrator"
	"github.com/user/pcldump/pkg/pcldump"
	"github.com/user/pcldump/pkg/ports"
	"github.com/user/pcldump/pkg/render"
)

// exitStartupFailure is the exit status for unopenable startup resources
// (line device, buffer file). Distinct from kong's usage/config errors.
const exitStartupFailure = 5

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Capture CaptureCmd `cmd:"" help:"Capture jobs from the line and render each one."`
	Render  RenderCmd  `cmd:"" help:"Render an existing buffer file once and exit."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// CaptureCmd defines the capture subcommand.
type CaptureCmd struct {
	// Line
	Port       *string `short:"p" placeholder:"/dev/ttyS0" help:"Override line device path."`
	Speed      *int    `short:"s" placeholder:"baud" help:"Override line speed."`
	IgnoreLine bool    `short:"n" help:"Ignore line absence (buffer may be fed by another process)."`

	// Buffer
	Buffer *string `short:"f" placeholder:"/tmp/raw" help:"Override buffer file path."`
	Keep   bool    `short:"k" help:"Keep buffer on disk after rendering."`

	// Timing
	TimeoutMs *int `short:"t" help:"Inactivity window in milliseconds (default: 2000)."`

	// Rendering
	Format       *string `enum:"pdf,png" help:"Output format preset (pdf or png, default: pdf)."`
	ConverterBin *string `help:"Path to the converter binary."`
	OutputDir    *string `short:"d" help:"Directory for rendered files."`
	Prefix       *string `help:"Filename prefix for rendered files."`
	NoPhosphor   bool    `help:"Disable the phosphor post-process for PNG output."`
	NoPreview    bool    `help:"Do not launch a viewer on rendered files."`
	Viewer       *string `help:"Viewer command used to preview rendered files."`

	// Startup bus handshake
	StartupCommand []string `help:"Command written to the line before capture (repeatable)."`
	StartupDelayMs *int     `help:"Delay between startup commands in milliseconds."`

	// Configuration
	Config string `help:"YAML configuration file." type:"existingfile"`

	// Logging
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all output."`
}

// RenderCmd defines the render subcommand (one-shot batch mode).
type RenderCmd struct {
	BufferFile string `arg:"" help:"Buffer file containing previously captured bytes."`

	Format       *string `enum:"pdf,png" help:"Output format preset (pdf or png, default: pdf)."`
	ConverterBin *string `help:"Path to the converter binary."`
	OutputDir    *string `short:"d" help:"Directory for rendered files."`
	Prefix       *string `help:"Filename prefix for rendered files."`
	NoPhosphor   bool    `help:"Disable the phosphor post-process for PNG output."`
	NoPreview    bool    `help:"Do not launch a viewer on the rendered file."`
	Viewer       *string `help:"Viewer command used to preview the rendered file."`

	Config string `help:"YAML configuration file." type:"existingfile"`

	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("pcldump"),
		kong.Description("Capture print jobs from a serial line and render them with an external converter."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the capture command.
func (cmd *CaptureCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	log := newLogger(cmd.Quiet, cmd.LogLevel)
	status := newStatusSink(cmd.Quiet)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	log.Info(l10n.F("pcldump version %s", version))

	// Open the line; absence is fatal unless explicitly ignored.
	var line ports.LineSource
	if cfg.IgnoreLineAbsence {
		log.Info(l10n.F("Skipping configured interface %s. Line input disabled.", cfg.LineAddress))
		line = nullline.New()
	} else {
		l, err := serialline.Open(cfg.LineOptions())
		if err != nil {
			log.Error(l10n.F("Failed to open interface %s: %s", cfg.LineAddress, err))
			log.Error(l10n.T("Unable to continue, exiting"))
			os.Exit(exitStartupFailure)
		}
		line = l
	}

	// Open the buffer for writing; this is the second fatal resource.
	buf, err := filebuffer.Open(cfg.BufferPath)
	if err != nil {
		log.Error(l10n.F("Failed to open buffer file %s: %s", cfg.BufferPath, err))
		log.Error(l10n.T("Unable to continue, exiting"))
		os.Exit(exitStartupFailure)
	}
	defer buf.Close()

	// Wire the capture pipeline
	gate := capture.NewPauseGate()
	runner := execrunner.New()
	renderer := render.New(runner, buf, status, log, cfg.RenderOptions())
	handoff := orchestrator.NewHandoff(renderer, gate, log, cfg.KeepBuffer)
	monitor := capture.NewMonitor(buf, gate, handoff, status, log, cfg.MonitorOptions())
	source := capture.NewSource(line, buf, gate, log, cfg.SourceOptions())
	orch := orchestrator.New(source, monitor, gate, buf, line, log, cfg.Params())

	// Hotkey input
	commands := make(chan orchestrator.Command, 4)
	keys := termcommand.New(log)
	go keys.Run(ctx, commands)
	defer keys.Restore()

	log.Info(l10n.T("Hotkeys: [P]ause capture, [R]esume capture, [I]nformation, [H]elp, [Q]uit"))

	if err := orch.Run(ctx, commands); err != nil {
		return err
	}

	keys.Restore()
	log.Info(l10n.T("Goodbye"))
	return nil
}

// buildConfig creates a capture Config from preset, config file and CLI
// overrides.
func (cmd *CaptureCmd) buildConfig() (pcldump.Config, error) {
	cfg, err := baseConfig(cmd.Config, cmd.Format)
	if err != nil {
		return cfg, err
	}

	if cmd.Port != nil {
		cfg.LineAddress = *cmd.Port
	}
	if cmd.Speed != nil {
		cfg.LineSpeed = *cmd.Speed
	}
	if cmd.IgnoreLine {
		cfg.IgnoreLineAbsence = true
	}
	if cmd.Buffer != nil {
		cfg.BufferPath = *cmd.Buffer
	}
	if cmd.Keep {
		cfg.KeepBuffer = true
	}
	if cmd.TimeoutMs != nil {
		cfg.Window = time.Duration(*cmd.TimeoutMs) * time.Millisecond
	}
	if cmd.ConverterBin != nil {
		cfg.ConverterBin = *cmd.ConverterBin
	}
	if cmd.OutputDir != nil {
		cfg.OutputDir = *cmd.OutputDir
	}
	if cmd.Prefix != nil {
		cfg.Prefix = *cmd.Prefix
	}
	if cmd.NoPhosphor {
		cfg.Phosphor = false
	}
	if cmd.NoPreview {
		cfg.Preview = false
	}
	if cmd.Viewer != nil {
		cfg.Preview = true
		cfg.ViewerCmd = *cmd.Viewer
	}
	if len(cmd.StartupCommand) > 0 {
		cfg.StartupCommands = cmd.StartupCommand
	}
	if cmd.StartupDelayMs != nil {
		cfg.StartupDelay = time.Duration(*cmd.StartupDelayMs) * time.Millisecond
	}

	return cfg, nil
}

// Run executes the render command: one job, fed from an existing buffer
// file, with the buffer always preserved.
func (cmd *RenderCmd) Run() error {
	cfg, err := baseConfig(cmd.Config, cmd.Format)
	if err != nil {
		return err
	}
	if cmd.ConverterBin != nil {
		cfg.ConverterBin = *cmd.ConverterBin
	}
	if cmd.OutputDir != nil {
		cfg.OutputDir = *cmd.OutputDir
	}
	if cmd.Prefix != nil {
		cfg.Prefix = *cmd.Prefix
	}
	if cmd.NoPhosphor {
		cfg.Phosphor = false
	}
	if cmd.NoPreview {
		cfg.Preview = false
	}
	if cmd.Viewer != nil {
		cfg.Preview = true
		cfg.ViewerCmd = *cmd.Viewer
	}
	// Batch mode never consumes the buffer.
	cfg.KeepBuffer = true

	log := newLogger(cmd.Quiet, cmd.LogLevel)
	status := newStatusSink(cmd.Quiet)

	buf, err := filebuffer.OpenExisting(cmd.BufferFile)
	if err != nil {
		return err
	}
	defer buf.Close()

	size, err := buf.Size()
	if err != nil {
		return err
	}
	if size == 0 {
		log.Warn(l10n.F("Buffer %s is empty, nothing to render", cmd.BufferFile))
		return nil
	}

	renderer := render.New(execrunner.New(), buf, status, log, cfg.RenderOptions())
	job := ports.CompletedJob{
		BufferPath:  cmd.BufferFile,
		Size:        size,
		CompletedAt: time.Now(),
	}
	return renderer.JobComplete(context.Background(), job)
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("pcldump version %s", version))
	return nil
}

// baseConfig loads the starting configuration: a YAML file when given,
// otherwise the preset matching the requested format.
func baseConfig(path string, format *string) (pcldump.Config, error) {
	if path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			return pcldump.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg := fileCfg.ToCaptureConfig()
		if format != nil {
			cfg.Format = *format
		}
		return cfg, nil
	}

	if format != nil && *format == string(pcldump.FormatPNG) {
		return pcldump.NewRasterConfigBuilder().Build(), nil
	}
	return pcldump.NewConfigBuilder().Build(), nil
}

// newLogger creates the console logger, or a no-op logger in quiet mode.
func newLogger(quiet bool, level string) ports.Logger {
	if quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(level))
}

// newStatusSink creates the console status line, discarded in quiet mode.
func newStatusSink(quiet bool) ports.StatusSink {
	if quiet {
		return consolestatus.NewWriter(io.Discard)
	}
	return consolestatus.New()
}
