// Package ffmpegcodec provides a buffer-exchange H.264 encoder backed by an
// ffmpeg (libx264) child process.
//
// Raw I420 frames queued into input slots are streamed to ffmpeg's stdin by
// a writer goroutine. A reader goroutine splits the Annex B output into
// access units and queues them for DequeueOutputBuffer. Timestamps travel in
// FIFO order since the encoder is configured without B-frames.
package ffmpegcodec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/user/uirecord/pkg/ports"
)

// Options configures the ffmpeg codec.
type Options struct {
	FFmpegPath  string // Executable path; empty searches the system
	Preset      string // x264 preset (default: veryfast)
	InputSlots  int    // Input slot count (default: 4)
	OutputSlots int    // Output slot count (default: 4)
}

const (
	initialOutputSize = 64 * 1024
	readChunkSize     = 32 * 1024
	stopGracePeriod   = 5 * time.Second
)

type inputJob struct {
	index int
	size  int
	pts   int64
	flags ports.BufferFlags
}

type eventKind int

const (
	eventFormat eventKind = iota
	eventSample
	eventError
)

type outputEvent struct {
	kind  eventKind
	data  []byte
	pts   int64
	flags ports.BufferFlags
	err   error
}

// Codec implements ports.Codec on top of ffmpeg.
type Codec struct {
	opts   Options
	logger ports.Logger

	mu         sync.Mutex
	format     ports.MediaFormat
	configured bool
	started    bool
	stopped    bool
	released   bool
	inputEnded bool

	inputs  [][]byte
	outputs [][]byte
	freeIn  chan int
	jobs    chan inputJob
	outBusy []bool

	// Filled by the reader, drained by DequeueOutputBuffer.
	events  []outputEvent
	notify  chan struct{}
	ptsFIFO []int64
	lastPts int64
	csdSent bool

	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     io.ReadCloser
	stderr     bytes.Buffer
	quit       chan struct{}
	writerDone chan struct{}
	readerDone chan struct{}
}

// New creates an unconfigured ffmpeg codec.
func New(opts Options, logger ports.Logger) *Codec {
	if opts.InputSlots <= 0 {
		opts.InputSlots = 4
	}
	if opts.OutputSlots <= 0 {
		opts.OutputSlots = 4
	}
	return &Codec{
		opts:   opts,
		logger: logger.WithComponent("ffmpeg"),
		notify: make(chan struct{}, 1),
	}
}

// Name identifies the codec.
func (c *Codec) Name() string {
	return "ffmpeg.libx264"
}

// Configure allocates the slot tables for format.
func (c *Codec) Configure(format ports.MediaFormat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("configure: codec already started")
	}
	if format.MIME != ports.MIMETypeAVC {
		return fmt.Errorf("%w: mime %q", ErrUnsupportedFormat, format.MIME)
	}
	if format.Width <= 0 || format.Height <= 0 || format.Width%2 != 0 || format.Height%2 != 0 {
		return fmt.Errorf("%w: size %dx%d", ErrUnsupportedFormat, format.Width, format.Height)
	}
	if format.ColorFormat == 0 {
		format.ColorFormat = ports.ColorFormatYUV420Planar
	}
	if format.ColorFormat != ports.ColorFormatYUV420Planar {
		return fmt.Errorf("%w: color format %s", ErrUnsupportedFormat, format.ColorFormat)
	}

	frameSize := format.Width * format.Height * 3 / 2
	c.inputs = make([][]byte, c.opts.InputSlots)
	c.freeIn = make(chan int, c.opts.InputSlots)
	for i := range c.inputs {
		c.inputs[i] = make([]byte, frameSize)
		c.freeIn <- i
	}
	c.jobs = make(chan inputJob, c.opts.InputSlots)

	c.outputs = make([][]byte, c.opts.OutputSlots)
	c.outBusy = make([]bool, c.opts.OutputSlots)
	for i := range c.outputs {
		c.outputs[i] = make([]byte, initialOutputSize)
	}

	c.format = format
	c.format.CSD = nil
	c.configured = true
	return nil
}

// Start launches the ffmpeg process.
func (c *Codec) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.configured {
		return ErrNotConfigured
	}
	if c.started {
		return nil
	}

	path, err := FindFFmpeg(c.opts.FFmpegPath)
	if err != nil {
		return err
	}

	args := buildArgs(c.format, c.opts.Preset)
	c.cmd = exec.Command(path, args...)
	c.cmd.Stderr = &c.stderr

	c.stdin, err = c.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	c.stdout, err = c.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := c.cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	c.logger.Debug("Started %s %v", path, args)

	c.quit = make(chan struct{})
	c.writerDone = make(chan struct{})
	c.readerDone = make(chan struct{})
	c.started = true

	go c.writeLoop()
	go c.readLoop()
	return nil
}

// InputBuffers returns the input slot table.
func (c *Codec) InputBuffers() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputs
}

// OutputBuffers returns the current output slot table.
func (c *Codec) OutputBuffers() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputs
}

// DequeueInputBuffer lends a free input slot.
func (c *Codec) DequeueInputBuffer(ctx context.Context, timeout time.Duration) (int, error) {
	c.mu.Lock()
	running := c.started && !c.stopped
	free := c.freeIn
	c.mu.Unlock()
	if !running {
		return -1, ErrNotStarted
	}

	if timeout == 0 {
		select {
		case idx := <-free:
			return idx, nil
		default:
			return -1, ports.ErrTryAgainLater
		}
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case idx := <-free:
		return idx, nil
	case <-expired:
		return -1, ports.ErrTryAgainLater
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// QueueInputBuffer hands a filled slot to the writer goroutine.
func (c *Codec) QueueInputBuffer(index, offset, size int, presentationTimeUs int64, flags ports.BufferFlags) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.stopped {
		return ErrNotStarted
	}
	if c.inputEnded {
		return ErrInputClosed
	}
	if index < 0 || index >= len(c.inputs) {
		return fmt.Errorf("input index %d out of range", index)
	}
	if offset != 0 {
		return fmt.Errorf("input offset %d not supported", offset)
	}
	frameSize := c.format.Width * c.format.Height * 3 / 2
	if size != 0 && size != frameSize {
		return fmt.Errorf("input size %d, want %d or 0", size, frameSize)
	}

	if size > 0 {
		c.ptsFIFO = append(c.ptsFIFO, presentationTimeUs)
	}
	if flags.Has(ports.FlagEndOfStream) {
		c.inputEnded = true
	}
	// Never blocks: at most len(inputs) slots are ever lent.
	c.jobs <- inputJob{index: index, size: size, pts: presentationTimeUs, flags: flags}
	return nil
}

// DequeueOutputBuffer lends the next encoded sample.
func (c *Codec) DequeueOutputBuffer(ctx context.Context, info *ports.BufferInfo, timeout time.Duration) (int, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		c.mu.Lock()
		if !c.started {
			c.mu.Unlock()
			return -1, ErrNotStarted
		}
		if len(c.events) > 0 {
			idx, err := c.takeEventLocked(info)
			c.mu.Unlock()
			return idx, err
		}
		c.mu.Unlock()
		if timeout == 0 {
			return -1, ports.ErrTryAgainLater
		}

		select {
		case <-c.notify:
		case <-expired:
			return -1, ports.ErrTryAgainLater
		case <-ctx.Done():
			return -1, ctx.Err()
		}
	}
}

// takeEventLocked turns the head event into a dequeue result.
func (c *Codec) takeEventLocked(info *ports.BufferInfo) (int, error) {
	ev := c.events[0]
	switch ev.kind {
	case eventFormat:
		c.events = c.events[1:]
		return -1, ports.ErrOutputFormatChanged
	case eventError:
		return -1, ev.err
	}

	idx := -1
	for i, busy := range c.outBusy {
		if !busy {
			idx = i
			break
		}
	}
	if idx < 0 {
		return -1, ports.ErrTryAgainLater
	}
	if len(ev.data) > len(c.outputs[idx]) {
		outputs := make([][]byte, len(c.outputs))
		copy(outputs, c.outputs)
		outputs[idx] = make([]byte, 2*len(ev.data))
		c.outputs = outputs
		c.logger.Debug("Output buffer %d grown to %d bytes", idx, len(outputs[idx]))
		return -1, ports.ErrOutputBuffersChanged
	}

	c.events = c.events[1:]
	c.outBusy[idx] = true
	n := copy(c.outputs[idx], ev.data)
	*info = ports.BufferInfo{Offset: 0, Size: n, PresentationTimeUs: ev.pts, Flags: ev.flags}
	return idx, nil
}

// ReleaseOutputBuffer returns an output slot.
func (c *Codec) ReleaseOutputBuffer(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.outBusy) {
		return fmt.Errorf("output index %d out of range", index)
	}
	if !c.outBusy[index] {
		return fmt.Errorf("output index %d not lent", index)
	}
	c.outBusy[index] = false
	return nil
}

// OutputFormat returns the format including SPS/PPS once known.
func (c *Codec) OutputFormat() ports.MediaFormat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

// Stop ends the ffmpeg process. Pending input is dropped unless end of
// stream was already queued and ffmpeg finishes within the grace period.
func (c *Codec) Stop() error {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	quit, readerDone := c.quit, c.readerDone
	c.mu.Unlock()

	close(quit)
	select {
	case <-readerDone:
	case <-time.After(stopGracePeriod):
		c.logger.Warn("ffmpeg did not exit, killing process")
		_ = c.cmd.Process.Kill()
		<-readerDone
	}
	<-c.writerDone

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.events {
		if ev.kind == eventError {
			return ev.err
		}
	}
	return nil
}

// Release stops the codec if needed and drops its buffers.
func (c *Codec) Release() error {
	err := c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil
	}
	c.released = true
	c.inputs = nil
	c.outputs = nil
	c.events = nil
	return err
}

// writeLoop streams queued frames to ffmpeg and recycles their slots.
func (c *Codec) writeLoop() {
	defer close(c.writerDone)
	defer c.stdin.Close()

	failed := false
	for {
		select {
		case <-c.quit:
			return
		case job := <-c.jobs:
			if job.size > 0 && !failed {
				c.mu.Lock()
				buf := c.inputs[job.index][:job.size]
				c.mu.Unlock()
				if _, err := c.stdin.Write(buf); err != nil {
					c.logger.Warn("Writing frame to ffmpeg failed: %v", err)
					failed = true
				}
			}
			c.freeIn <- job.index
			if job.flags.Has(ports.FlagEndOfStream) {
				c.logger.Debug("Input ended at %dus", job.pts)
				return
			}
		}
	}
}

// readLoop splits ffmpeg output into samples until EOF.
func (c *Codec) readLoop() {
	defer close(c.readerDone)

	var splitter auSplitter
	chunk := make([]byte, readChunkSize)
	for {
		n, err := c.stdout.Read(chunk)
		if n > 0 {
			for _, au := range splitter.Write(chunk[:n]) {
				c.emitAccessUnit(au)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.logger.Debug("Reading ffmpeg output: %v", err)
			}
			break
		}
	}
	if au := splitter.Flush(); len(au) > 0 {
		c.emitAccessUnit(au)
	}

	waitErr := c.cmd.Wait()

	c.mu.Lock()
	stopped := c.stopped
	if waitErr != nil && !stopped {
		c.events = append(c.events, outputEvent{
			kind: eventError,
			err:  fmt.Errorf("ffmpeg exited: %w: %s", waitErr, bytes.TrimSpace(c.stderr.Bytes())),
		})
	} else {
		c.events = append(c.events, outputEvent{
			kind:  eventSample,
			pts:   c.lastPts,
			flags: ports.FlagEndOfStream,
		})
	}
	c.mu.Unlock()
	c.signal()
}

// emitAccessUnit queues one access unit, preceded on first use by the
// format change and codec config events.
func (c *Codec) emitAccessUnit(au []byte) {
	unit := parseAccessUnit(au)

	c.mu.Lock()
	if !c.csdSent && len(unit.sps) > 0 && len(unit.pps) > 0 {
		c.csdSent = true
		c.applySPSLocked(unit.sps[0])
		c.format.CSD = [][]byte{unit.sps[0], unit.pps[0]}
		c.events = append(c.events,
			outputEvent{kind: eventFormat},
			outputEvent{kind: eventSample, data: joinAnnexB(unit.sps[0], unit.pps[0]), flags: ports.FlagCodecConfig},
		)
	}

	if len(unit.payload) > 0 {
		pts := c.lastPts + 1
		if len(c.ptsFIFO) > 0 {
			pts = c.ptsFIFO[0]
			c.ptsFIFO = c.ptsFIFO[1:]
		}
		c.lastPts = pts

		var flags ports.BufferFlags
		if unit.idr {
			flags |= ports.FlagKeyFrame
		}
		c.events = append(c.events, outputEvent{kind: eventSample, data: unit.payload, pts: pts, flags: flags})
	}
	c.mu.Unlock()
	c.signal()
}

// applySPSLocked updates the output size from the stream's SPS.
func (c *Codec) applySPSLocked(sps []byte) {
	parsed, err := avc.ParseSPSNALUnit(sps, false)
	if err != nil {
		c.logger.Warn("Unparseable SPS: %v", err)
		return
	}
	c.format.Width = int(parsed.Width)
	c.format.Height = int(parsed.Height)
	c.logger.Debug("SPS: profile %d level %d, %dx%d", parsed.Profile, parsed.Level, parsed.Width, parsed.Height)
}

func (c *Codec) signal() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

var _ ports.Codec = (*Codec)(nil)
