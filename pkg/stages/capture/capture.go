// Package capture implements the frame capture stage: the fixed-period loop
// that renders the surface, feeds the codec and forwards encoded samples to
// the muxer until the codec reports end of stream.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/user/uirecord/pkg/codecbuf"
	"github.com/user/uirecord/pkg/colorconv"
	"github.com/user/uirecord/pkg/muxtrack"
	"github.com/user/uirecord/pkg/pipeline"
	"github.com/user/uirecord/pkg/ports"
)

var (
	// ErrFatalDrain is returned when the codec reports an unexpected output
	// status or an unusable output slot.
	ErrFatalDrain = errors.New("capture: fatal output drain")

	// ErrEncoderStalled is returned when the loop makes no progress for
	// RecordingConfig.MaxIdleTicks consecutive ticks.
	ErrEncoderStalled = errors.New("capture: encoder stalled")
)

// PacerFactory creates the pacer for one run.
type PacerFactory func(period time.Duration) pipeline.Pacer

// Stage drives one recording from the first frame to the end of stream.
type Stage struct {
	sink     ports.DebugSink
	logger   ports.Logger
	newPacer PacerFactory
}

// New creates a new capture stage paced by a ticker.
func New(sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		sink:   sink,
		logger: logger.WithComponent("capture"),
		newPacer: func(period time.Duration) pipeline.Pacer {
			return pipeline.NewTickerPacer(period)
		},
	}
}

// WithPacer replaces the pacer factory.
func (s *Stage) WithPacer(f PacerFactory) *Stage {
	s.newPacer = f
	return s
}

// Execute runs the capture loop. The codec must be configured and started;
// the muxer must be fresh. Both are stopped and released before Execute
// returns, whatever the outcome.
func (s *Stage) Execute(ctx context.Context, input pipeline.CaptureInput) (pipeline.CaptureResult, error) {
	cfg := input.Config
	r := &run{
		stage: s,
		cfg:   cfg,
		in:    input,
		bufs:  codecbuf.New(input.Codec, cfg.DequeueTimeout),
		track: muxtrack.New(input.Muxer, s.logger),
		frame: image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
	}

	start := time.Now()
	loopErr := r.loop(ctx)
	shutdownErr := r.shutdown()

	r.result.Duration = time.Since(start)
	r.result.SamplesWritten = r.track.Samples()
	r.result.BytesWritten = r.track.Bytes()
	r.result.LastPtsUs = r.track.LastPresentationTimeUs()
	r.result.Aborted = !r.result.EOSReceived || loopErr != nil

	if loopErr != nil {
		s.logger.Error("Recording aborted after %d frames: %v", r.result.FramesSubmitted, loopErr)
	} else {
		s.logger.Info("Recorded %d frames, %d samples, %d bytes in %v",
			r.result.FramesSubmitted, r.result.SamplesWritten, r.result.BytesWritten,
			r.result.Duration.Round(time.Millisecond))
	}
	return r.result, errors.Join(loopErr, shutdownErr)
}

// run holds the state of a single Execute call.
type run struct {
	stage  *Stage
	cfg    pipeline.RecordingConfig
	in     pipeline.CaptureInput
	bufs   *codecbuf.Manager
	track  *muxtrack.Lifecycle
	frame  *image.RGBA
	result pipeline.CaptureResult

	index int // next frame index
	idle  int // consecutive ticks without progress
}

func (r *run) loop(ctx context.Context) error {
	pacer := r.stage.newPacer(r.cfg.TickPeriod)
	defer pacer.Stop()

	for {
		if err := pacer.Wait(ctx); err != nil {
			return fmt.Errorf("capture cancelled: %w", err)
		}
		r.result.Ticks++

		submitted := false
		if r.inputPending() {
			var err error
			submitted, err = r.submit(ctx)
			if err != nil {
				return err
			}
		}

		drained, done, err := r.drain(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if submitted || drained {
			r.idle = 0
			continue
		}
		r.idle++
		if r.cfg.MaxIdleTicks > 0 && r.idle >= r.cfg.MaxIdleTicks {
			return fmt.Errorf("%w: no progress for %d ticks (%d/%d frames submitted)",
				ErrEncoderStalled, r.idle, r.result.FramesSubmitted, r.cfg.FrameCount)
		}
	}
}

// inputPending reports whether another codec input is due.
func (r *run) inputPending() bool {
	return !r.result.EOSSubmitted
}

// submit acquires an input slot and fills it with the next frame, or with an
// empty end-of-stream marker. It reports whether an input was queued.
func (r *run) submit(ctx context.Context) (bool, error) {
	slot, err := r.bufs.AcquireInput(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, fmt.Errorf("capture cancelled: %w", ctxErr)
		}
		r.result.SkippedFrames++
		r.stage.logger.Warn("No input buffer for frame %d, skipping tick: %v", r.index, err)
		return false, nil
	}

	if r.index >= r.cfg.FrameCount {
		// Trailing end-of-stream marker in empty-frame mode.
		pts := r.cfg.PresentationTimeUs(r.index)
		if err := r.bufs.SubmitInput(slot, 0, pts, ports.FlagEndOfStream); err != nil {
			return false, fmt.Errorf("submit end of stream: %w", err)
		}
		r.result.EOSSubmitted = true
		r.stage.logger.Debug("End of stream queued at %dus", pts)
		return true, nil
	}

	if err := r.render(ctx, slot); err != nil {
		return false, err
	}

	size := r.cfg.FrameSize()
	pts := r.cfg.PresentationTimeUs(r.index)
	flags := ports.FlagKeyFrame
	last := r.index == r.cfg.FrameCount-1
	if last && r.cfg.EOSMode != pipeline.EOSEmptyFrame {
		flags = ports.FlagEndOfStream
	}

	if err := r.bufs.SubmitInput(slot, size, pts, flags); err != nil {
		return false, fmt.Errorf("submit frame %d: %w", r.index, err)
	}
	r.stage.logger.Debug("Frame %d queued at %dus (%s)", r.index, pts, flags)

	r.result.FramesSubmitted++
	if flags.Has(ports.FlagEndOfStream) {
		r.result.EOSSubmitted = true
	}
	r.index++
	return true, nil
}

// render draws the surface and converts it into the input slot.
func (r *run) render(ctx context.Context, slot codecbuf.Slot) error {
	if err := r.in.Surface.RenderInto(ctx, r.frame); err != nil {
		return fmt.Errorf("render frame %d: %w", r.index, err)
	}

	size := r.cfg.FrameSize()
	if len(slot.Buf) < size {
		return fmt.Errorf("frame %d: input buffer %d holds %d bytes, need %d: %w",
			r.index, slot.Index, len(slot.Buf), size, codecbuf.ErrInvalidSlot)
	}
	if _, err := colorconv.RGBAToI420(slot.Buf[:size], r.frame.Pix, r.cfg.Width, r.cfg.Height); err != nil {
		return fmt.Errorf("convert frame %d: %w", r.index, err)
	}

	sink := r.stage.sink
	if sink.Enabled() && r.cfg.DebugFrameEvery > 0 && r.index%r.cfg.DebugFrameEvery == 0 {
		if err := sink.SaveFrame(r.index, r.frame); err != nil {
			r.stage.logger.Warn("Failed to save debug frame %d: %v", r.index, err)
		}
		if err := sink.SavePlanes(r.index, slot.Buf[:size]); err != nil {
			r.stage.logger.Warn("Failed to save debug planes %d: %v", r.index, err)
		}
	}
	return nil
}

// drain handles one codec output event. It reports whether anything other
// than "try again" was observed and whether end of stream was reached.
func (r *run) drain(ctx context.Context) (drained, done bool, err error) {
	res := r.bufs.DrainOutput(ctx)
	log := r.stage.logger

	switch res.Kind {
	case codecbuf.DrainTryAgain:
		return false, false, nil

	case codecbuf.DrainTableChanged:
		r.result.TableChanges++
		r.bufs.RefreshOutputTable()
		log.Debug("Output buffers changed")
		return true, false, nil

	case codecbuf.DrainFormatChanged:
		r.result.FormatChanges++
		if r.track.State() == muxtrack.Started {
			log.Warn("Output format changed after track start")
		} else {
			format := r.in.Codec.OutputFormat()
			log.Info("Output format: %s %dx%d", format.MIME, format.Width, format.Height)
		}
		return true, false, nil

	case codecbuf.DrainSample:
		done, err := r.consume(res)
		return true, done, err

	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, false, fmt.Errorf("capture cancelled: %w", ctxErr)
		}
		return false, false, fmt.Errorf("%w: %v", ErrFatalDrain, res.Err)
	}
}

// consume forwards one drained sample and always releases its slot.
func (r *run) consume(res codecbuf.DrainResult) (bool, error) {
	info := res.Info
	err := r.forward(res.Slot.Buf, info)
	if relErr := r.bufs.ReleaseOutput(res.Slot); relErr != nil {
		err = errors.Join(err, fmt.Errorf("%w: %v", ErrFatalDrain, relErr))
	}
	if err != nil {
		return false, err
	}

	if info.Flags.Has(ports.FlagEndOfStream) {
		r.result.EOSReceived = true
		r.stage.logger.Debug("End of stream received at %dus", info.PresentationTimeUs)
		return true, nil
	}
	return false, nil
}

func (r *run) forward(data []byte, info ports.BufferInfo) error {
	if info.Flags.Has(ports.FlagCodecConfig) {
		r.result.ConfigSamples++
		if r.track.State() != muxtrack.Uninitialized {
			r.stage.logger.Warn("Ignoring repeated codec config sample (%d bytes)", len(data))
			return nil
		}
		return r.startTrack(data)
	}

	if info.Size == 0 {
		return nil
	}
	if err := r.track.WriteSample(data, info); err != nil {
		return fmt.Errorf("frame at %dus: %w", info.PresentationTimeUs, err)
	}
	if r.track.Samples() == 1 {
		r.result.FirstPtsUs = info.PresentationTimeUs
	}
	return nil
}

// startTrack adds the video track using the codec's output format. When the
// codec does not expose its parameter sets there, the config payload is used.
func (r *run) startTrack(config []byte) error {
	format := r.in.Codec.OutputFormat()
	if format.MIME == "" {
		format.MIME = r.cfg.MIME
	}
	if format.Width == 0 || format.Height == 0 {
		format.Width, format.Height = r.cfg.Width, r.cfg.Height
	}
	if format.FrameRate == 0 {
		format.FrameRate = r.cfg.FrameRate
	}
	if len(format.CSD) == 0 {
		format.CSD = [][]byte{append([]byte(nil), config...)}
	}
	if err := r.track.AddTrackAndStart(format); err != nil {
		return fmt.Errorf("start track: %w", err)
	}
	return nil
}

// shutdown stops and releases the muxer, then the codec.
func (r *run) shutdown() error {
	var errs []error
	if err := r.track.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := r.in.Codec.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop codec: %w", err))
	}
	if err := r.in.Codec.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release codec: %w", err))
	}
	if len(errs) > 0 {
		r.stage.logger.Warn("Shutdown reported errors: %v", errors.Join(errs...))
	}
	return errors.Join(errs...)
}
