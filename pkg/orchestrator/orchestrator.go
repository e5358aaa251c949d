// Package orchestrator wires one recording run: it sets up the codec and
// muxer, runs the capture stage and writes the run report.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/user/uirecord/pkg/pipeline"
	"github.com/user/uirecord/pkg/ports"
)

// ErrSetup is returned when the codec or muxer cannot be brought up.
// The capture loop never starts in that case.
var ErrSetup = errors.New("setup failed")

// ErrOutputExists is returned when the output file exists and the request
// does not allow overwriting it.
var ErrOutputExists = errors.New("output file already exists")

// CodecFactory creates an unconfigured codec.
type CodecFactory func() (ports.Codec, error)

// MuxerFactory creates a muxer writing to path.
type MuxerFactory func(path string) (ports.Muxer, error)

// Request describes one recording run.
type Request struct {
	RunID       string
	Surface     ports.Surface
	SurfaceName string
	Config      pipeline.RecordingConfig
	// Overwrite removes an existing output file before recording.
	Overwrite bool
}

// Orchestrator coordinates setup, capture and reporting.
type Orchestrator struct {
	captureStage pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult]
	newCodec     CodecFactory
	newMuxer     MuxerFactory
	fs           ports.FileSystem
	sink         ports.DebugSink
	logger       ports.Logger
}

// New creates a new Orchestrator.
func New(
	captureStage pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult],
	newCodec CodecFactory,
	newMuxer MuxerFactory,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		captureStage: captureStage,
		newCodec:     newCodec,
		newMuxer:     newMuxer,
		fs:           fs,
		sink:         sink,
		logger:       logger.WithComponent("orchestrator"),
	}
}

// Run records req.Config.FrameCount frames from req.Surface into
// req.Config.OutputPath. The report is filled as far as the run got, also
// when an error is returned.
func (o *Orchestrator) Run(ctx context.Context, req Request) (pipeline.RunReport, error) {
	cfg := req.Config
	report := pipeline.RunReport{
		RunID:     req.RunID,
		Surface:   req.SurfaceName,
		Config:    cfg,
		StartedAt: time.Now(),
	}

	codec, muxer, err := o.setup(req)
	if err != nil {
		o.logger.Error("Setup failed: %v", err)
		report.Error = err.Error()
		o.saveReport(report)
		return report, err
	}
	report.Codec = codec.Name()

	o.logger.Info("Recording %d frames at %dx%d, %d fps to %s", cfg.FrameCount, cfg.Width, cfg.Height, cfg.FrameRate, cfg.OutputPath)
	result, runErr := o.captureStage.Execute(ctx, pipeline.CaptureInput{
		Surface: req.Surface,
		Codec:   codec,
		Muxer:   muxer,
		Config:  cfg,
	})
	report.Result = result

	if runErr != nil {
		o.logger.Error("Recording failed: %v", runErr)
		report.Error = runErr.Error()
	} else {
		size, err := o.fs.FileSize(cfg.OutputPath)
		if err != nil {
			o.logger.Warn("Could not stat output %s: %v", cfg.OutputPath, err)
		}
		report.OutputSize = size
		o.logger.Info("Output saved to %s (%d bytes)", cfg.OutputPath, size)
	}

	o.saveReport(report)
	return report, runErr
}

// setup creates, configures and starts the codec, then creates the muxer.
// Anything created before a failure is released again.
func (o *Orchestrator) setup(req Request) (ports.Codec, ports.Muxer, error) {
	cfg := req.Config

	if req.Surface == nil {
		return nil, nil, fmt.Errorf("%w: no surface", ErrSetup)
	}
	if w, h := req.Surface.Size(); w != cfg.Width || h != cfg.Height {
		return nil, nil, fmt.Errorf("%w: surface is %dx%d, recording is %dx%d", ErrSetup, w, h, cfg.Width, cfg.Height)
	}

	if err := o.prepareOutput(cfg.OutputPath, req.Overwrite); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	codec, err := o.newCodec()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create codec: %w", ErrSetup, err)
	}

	format := cfg.MediaFormat()
	if err := codec.Configure(format); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("%w: configure codec: %w", ErrSetup, err), codec.Release())
	}
	if err := codec.Start(); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("%w: start codec: %w", ErrSetup, err), codec.Release())
	}
	o.logger.Info("Selected codec %s: %s, %d bps, %d fps, key frame every %ds, %s",
		codec.Name(), format.MIME, format.BitRate, format.FrameRate, format.IFrameInterval, format.ColorFormat)

	muxer, err := o.newMuxer(cfg.OutputPath)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("%w: create muxer: %w", ErrSetup, err), codec.Stop(), codec.Release())
	}
	return codec, muxer, nil
}

// prepareOutput refuses to record over an existing file unless overwrite is
// set, in which case the old file is removed first.
func (o *Orchestrator) prepareOutput(path string, overwrite bool) error {
	exists, err := o.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("check output %s: %w", path, err)
	}
	if !exists {
		return nil
	}
	if !overwrite {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	if err := o.fs.Remove(path); err != nil {
		return fmt.Errorf("remove existing output %s: %w", path, err)
	}
	o.logger.Info("Removed existing output %s", path)
	return nil
}

func (o *Orchestrator) saveReport(report pipeline.RunReport) {
	if !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err == nil {
		err = o.sink.SaveRecordingJSON(data)
	}
	if err != nil {
		o.logger.Warn("Failed to save recording.json: %v", err)
	}
	if err := o.sink.SaveContactSheet(); err != nil {
		o.logger.Warn("Failed to save contact sheet: %v", err)
	}
}
