// Package main provides the CLI entry point for uirecord.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/uirecord/pkg/adapters/ffmpegcodec"
	"github.com/user/uirecord/pkg/adapters/filesink"
	"github.com/user/uirecord/pkg/adapters/ggrenderer"
	"github.com/user/uirecord/pkg/adapters/ggsurface"
	"github.com/user/uirecord/pkg/adapters/htmlsurface"
	"github.com/user/uirecord/pkg/adapters/logger"
	"github.com/user/uirecord/pkg/adapters/mp4muxer"
	"github.com/user/uirecord/pkg/adapters/nullsink"
	"github.com/user/uirecord/pkg/adapters/osfilesystem"
	"github.com/user/uirecord/pkg/config"
	"github.com/user/uirecord/pkg/mp4probe"
	"github.com/user/uirecord/pkg/orchestrator"
	"github.com/user/uirecord/pkg/pipeline"
	"github.com/user/uirecord/pkg/ports"
	"github.com/user/uirecord/pkg/stages/capture"
	"github.com/user/uirecord/pkg/summarizer"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "uirecord",
		Usage:   l10n.T("Record a rendered UI surface as an H.264 MP4 video"),
		Version: version,
		Commands: []*cli.Command{
			recordCommand(),
			probeCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %v", err))
		os.Exit(1)
	}
}

func recordCommand() *cli.Command {
	return &cli.Command{
		Name:        "record",
		Usage:       l10n.T("Record a fixed number of frames to an MP4 file"),
		Description: l10n.T("Render the surface on a fixed period, encode each frame and write the samples to an MP4 container."),
		Flags:       recordFlags(),
		Action:      runRecord,
	}
}

func recordFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T("Input")},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output MP4 file path"), Category: l10n.T("Output")},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"y"}, Usage: l10n.T("Replace an existing output file"), Category: l10n.T("Output")},

		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Frame width in pixels (even)"), Category: l10n.T("Video")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: l10n.T("Frame height in pixels (even)"), Category: l10n.T("Video")},
		&cli.IntFlag{Name: "fps", Usage: l10n.T("Frame rate"), Category: l10n.T("Video")},
		&cli.IntFlag{Name: "bitrate", Usage: l10n.T("Target bitrate in bits per second"), Category: l10n.T("Video")},
		&cli.IntFlag{Name: "iframe-interval", Usage: l10n.T("Seconds between key frames"), Category: l10n.T("Video")},
		&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Usage: l10n.T("Number of frames to record"), Category: l10n.T("Video")},

		&cli.StringFlag{Name: "surface", Aliases: []string{"s"}, Usage: l10n.T("Surface to record (widgets, html)"), Category: l10n.T("Surface")},
		&cli.StringFlag{Name: "title", Usage: l10n.T("Title shown by the widget surface"), Category: l10n.T("Surface")},
		&cli.StringFlag{Name: "url", Usage: l10n.T("Page loaded by the html surface"), Category: l10n.T("Surface")},
		&cli.StringFlag{Name: "html-file", Usage: l10n.T("HTML document loaded by the html surface"), Category: l10n.T("Surface")},
		&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable (falls back to CHROME_PATH env, then system default)"), Category: l10n.T("Surface")},
		&cli.BoolFlag{Name: "no-headless", Usage: l10n.T("Show the browser window"), Category: l10n.T("Surface")},
		&cli.IntFlag{Name: "jpeg-quality", Usage: l10n.T("Capture browser screenshots as JPEG at this quality (0: PNG)"), Category: l10n.T("Surface")},

		&cli.StringFlag{Name: "ffmpeg-path", Usage: l10n.T("Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)"), Category: l10n.T("Encoder")},
		&cli.StringFlag{Name: "ffmpeg-preset", Usage: l10n.T("x264 preset"), Category: l10n.T("Encoder")},
		&cli.StringFlag{Name: "eos-mode", Usage: l10n.T("End of stream signalling (last-frame, empty-frame)"), Category: l10n.T("Encoder")},
		&cli.IntFlag{Name: "dequeue-timeout-ms", Usage: l10n.T("Wait bound for codec buffers in ms (negative: unbounded)"), Category: l10n.T("Encoder")},
		&cli.IntFlag{Name: "max-idle-ticks", Usage: l10n.T("Abort after this many ticks without progress (0: never)"), Category: l10n.T("Encoder")},
		&cli.IntFlag{Name: "tick-ms", Usage: l10n.T("Loop period in ms"), Category: l10n.T("Encoder")},

		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Save debug frames and recording.json"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},
		&cli.IntFlag{Name: "debug-every", Usage: l10n.T("Save every k-th frame"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Output execution summary to file (Markdown format)"), Category: l10n.T("Output")},

		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
		&cli.StringFlag{Name: "log-format", Usage: l10n.T("Log format (console, json)"), Category: l10n.T("Logging")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
	}
}

// buildConfig loads the config file, if any, and applies flag overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	setString("output", &cfg.OutputPath)
	if c.Bool("overwrite") {
		cfg.Overwrite = true
	}
	setInt("width", &cfg.Width)
	setInt("height", &cfg.Height)
	setInt("fps", &cfg.FrameRate)
	setInt("bitrate", &cfg.BitRate)
	setInt("iframe-interval", &cfg.IFrameInterval)
	setInt("frames", &cfg.FrameCount)

	setString("surface", &cfg.Surface)
	setString("title", &cfg.Title)
	setString("url", &cfg.URL)
	setString("html-file", &cfg.HTMLFile)
	setString("chrome-path", &cfg.ChromePath)
	if c.Bool("no-headless") {
		cfg.Headless = false
	}
	setInt("jpeg-quality", &cfg.JPEGQuality)

	setString("ffmpeg-path", &cfg.FFmpegPath)
	setString("ffmpeg-preset", &cfg.FFmpegPreset)
	setString("eos-mode", &cfg.EOSMode)
	setInt("dequeue-timeout-ms", &cfg.DequeueTimeoutMs)
	setInt("max-idle-ticks", &cfg.MaxIdleTicks)
	setInt("tick-ms", &cfg.TickPeriodMs)

	if c.Bool("debug") {
		cfg.Debug = true
	}
	setString("debug-dir", &cfg.DebugDir)
	setInt("debug-every", &cfg.DebugFrameEvery)
	setString("summary", &cfg.SummaryPath)

	setString("log-level", &cfg.LogLevel)
	setString("log-format", &cfg.LogFormat)
	if c.Bool("quiet") {
		cfg.LogLevel = ports.LevelQuiet.String()
	}

	return cfg, cfg.Validate()
}

// newLogger creates the logger selected by the config.
func newLogger(cfg config.Config, runID string) ports.Logger {
	level, _ := ports.ParseLogLevel(cfg.LogLevel)
	switch {
	case level == ports.LevelQuiet:
		return logger.NewNoop()
	case cfg.LogFormat == config.LogFormatJSON:
		return logger.NewJSON(level, os.Stderr).WithField("run_id", runID)
	default:
		return logger.NewConsole(level)
	}
}

func runRecord(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := newLogger(cfg, runID)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var sink ports.DebugSink
	if cfg.Debug {
		dir := filepath.Join(cfg.DebugDir, runID)
		if err := fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(dir, fs, renderer)
		log.Info("Debug output in %s", dir)
	} else {
		sink = nullsink.New()
	}

	surface, closeSurface, err := openSurface(ctx, cfg, fs, renderer, log)
	if err != nil {
		return err
	}
	defer closeSurface()

	newCodec := func() (ports.Codec, error) {
		return ffmpegcodec.New(ffmpegcodec.Options{
			FFmpegPath:  cfg.FFmpegPath,
			Preset:      cfg.FFmpegPreset,
			InputSlots:  cfg.InputSlots,
			OutputSlots: cfg.OutputSlots,
		}, log), nil
	}
	newMuxer := func(path string) (ports.Muxer, error) {
		return mp4muxer.New(fs, path, log), nil
	}

	orch := orchestrator.New(capture.New(sink, log), newCodec, newMuxer, fs, sink, log)
	report, runErr := orch.Run(ctx, orchestrator.Request{
		RunID:       runID,
		Surface:     surface,
		SurfaceName: cfg.Surface,
		Config:      cfg.ToRecordingConfig(),
		Overwrite:   cfg.Overwrite,
	})

	if cfg.SummaryPath != "" {
		if err := writeSummary(cfg, report, runErr, fs); err != nil {
			log.Warn("Failed to write summary: %v", err)
		} else {
			log.Info("Summary saved to %s", cfg.SummaryPath)
		}
	}
	return runErr
}

// openSurface creates the configured surface and returns its closer.
func openSurface(ctx context.Context, cfg config.Config, fs ports.FileSystem, renderer ports.Renderer, log ports.Logger) (ports.Surface, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.Surface {
	case config.SurfaceHTML:
		opts := htmlsurface.Options{
			Width:       cfg.Width,
			Height:      cfg.Height,
			URL:         cfg.URL,
			ChromePath:  cfg.ChromePath,
			Headless:    cfg.Headless,
			JPEGQuality: cfg.JPEGQuality,
		}
		if cfg.HTMLFile != "" {
			data, err := fs.ReadFile(cfg.HTMLFile)
			if err != nil {
				return nil, nil, fmt.Errorf("read html file: %w", err)
			}
			opts.HTML = string(data)
		}
		s, err := htmlsurface.New(opts, renderer, log)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Open(ctx); err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	default:
		s, err := ggsurface.New(ggsurface.Options{
			Width:  cfg.Width,
			Height: cfg.Height,
			Title:  cfg.Title,
			Steps:  cfg.FrameCount,
			Theme:  cfg.Theme.SurfaceTheme(),
		}, renderer)
		if err != nil {
			return nil, nil, err
		}
		return s, noClose, nil
	}
}

// writeSummary writes the Markdown summary, probing the output file when
// the run succeeded.
func writeSummary(cfg config.Config, report pipeline.RunReport, runErr error, fs ports.FileSystem) error {
	builder := summarizer.NewBuilder().FromReport(report)
	if runErr == nil {
		if info, err := mp4probe.File(cfg.OutputPath); err == nil {
			builder.WithProbe(info)
		}
	}
	w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(summarizer.WithVersion(version)), fs)
	return w.Write(cfg.SummaryPath, builder.Build())
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Show the video track of an MP4 file"),
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: l10n.T("Print as JSON")},
			&cli.BoolFlag{Name: "samples", Usage: l10n.T("List every sample")},
		},
		Action: runProbe,
	}
}

func runProbe(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New(l10n.T("probe needs exactly one file"))
	}
	info, err := mp4probe.File(c.Args().First())
	if err != nil {
		return err
	}

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintln(out, l10n.F("Tracks: %d (fragmented: %v)", info.Tracks, info.Fragmented))
	fmt.Fprintln(out, l10n.F("Codec: %s, profile %d, level %d", info.Codec, info.Profile, info.Level))
	fmt.Fprintln(out, l10n.F("Size: %dx%d", info.Width, info.Height))
	fmt.Fprintln(out, l10n.F("Samples: %d (%d sync), duration %v", len(info.Samples), info.SyncSamples(), info.Duration()))
	if c.Bool("samples") {
		for i, s := range info.Samples {
			sync := ""
			if s.Sync {
				sync = " sync"
			}
			fmt.Fprintf(out, "%5d  %10dus  %8dus  %7d B%s\n", i, s.DecodeTimeUs, s.DurationUs, s.Size, sync)
		}
	}
	return nil
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, l10n.F("uirecord version %s", version))
			encoder := l10n.T("not found")
			if ffmpegcodec.IsAvailable("") {
				encoder = l10n.T("available")
			}
			fmt.Fprintln(c.App.Writer, l10n.F("ffmpeg: %s", encoder))
			return nil
		},
	}
}
