// Package muxtrack gates the container track against codec configuration.
//
// The single video track is added and the muxer started exactly once, when
// the codec emits its configuration sample. Payload writes before that point
// fail with ErrInvalidState.
package muxtrack

import (
	"errors"
	"fmt"

	"github.com/user/uirecord/pkg/ports"
)

var (
	// ErrInvalidState is returned when a sample is written before the track
	// has been started, or after shutdown.
	ErrInvalidState = errors.New("muxtrack: invalid state")

	// ErrAlreadyStarted is returned by a second AddTrackAndStart.
	ErrAlreadyStarted = errors.New("muxtrack: track already added")

	// ErrNonMonotonic is returned when a sample timestamp does not advance.
	ErrNonMonotonic = errors.New("muxtrack: presentation time not increasing")
)

// TrackState is the lifecycle state of the video track.
type TrackState int

const (
	// Uninitialized: no track has been added yet.
	Uninitialized TrackState = iota
	// Added: the track exists but the muxer has not started.
	Added
	// Started: samples may be written.
	Started
	// Closed: Shutdown has run; the muxer is stopped and released.
	Closed
)

func (s TrackState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Added:
		return "added"
	case Started:
		return "started"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lifecycle drives a ports.Muxer for one video track.
type Lifecycle struct {
	muxer  ports.Muxer
	logger ports.Logger

	state   TrackState
	track   int
	lastPts int64

	samples int
	bytes   int64
}

// New creates a Lifecycle. The muxer must not have been started.
func New(muxer ports.Muxer, logger ports.Logger) *Lifecycle {
	return &Lifecycle{
		muxer:  muxer,
		logger: logger.WithComponent("muxer"),
		track:  -1,
	}
}

// AddTrackAndStart registers the video track with the given format and
// starts the muxer.
func (l *Lifecycle) AddTrackAndStart(format ports.MediaFormat) error {
	if l.state != Uninitialized {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, l.state)
	}

	track, err := l.muxer.AddTrack(format)
	if err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	l.track = track
	l.state = Added

	if err := l.muxer.Start(); err != nil {
		return fmt.Errorf("start muxer: %w", err)
	}
	l.state = Started
	l.logger.Info("Track %d started: %s %dx%d", track, format.MIME, format.Width, format.Height)
	return nil
}

// WriteSample appends one payload sample to the track.
func (l *Lifecycle) WriteSample(data []byte, info ports.BufferInfo) error {
	if l.state != Started {
		return fmt.Errorf("%w: write in state %s", ErrInvalidState, l.state)
	}
	if l.samples > 0 && info.PresentationTimeUs <= l.lastPts {
		return fmt.Errorf("%w: %d after %d", ErrNonMonotonic, info.PresentationTimeUs, l.lastPts)
	}

	if err := l.muxer.WriteSampleData(l.track, data, info); err != nil {
		return fmt.Errorf("write sample at %dus: %w", info.PresentationTimeUs, err)
	}
	l.lastPts = info.PresentationTimeUs
	l.samples++
	l.bytes += int64(len(data))
	return nil
}

// Shutdown stops and releases the muxer. Stop is skipped when the track
// never started. Only the first call has any effect.
func (l *Lifecycle) Shutdown() error {
	if l.state == Closed {
		return nil
	}
	started := l.state == Started
	l.state = Closed

	var errs []error
	if started {
		if err := l.muxer.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop muxer: %w", err))
		}
	} else {
		l.logger.Warn("Muxer released without a started track")
	}
	if err := l.muxer.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release muxer: %w", err))
	}
	l.logger.Debug("Muxer shut down after %d samples (%d bytes)", l.samples, l.bytes)
	return errors.Join(errs...)
}

// State returns the current track state.
func (l *Lifecycle) State() TrackState {
	return l.state
}

// Samples returns the number of payload samples written.
func (l *Lifecycle) Samples() int {
	return l.samples
}

// Bytes returns the total payload bytes written.
func (l *Lifecycle) Bytes() int64 {
	return l.bytes
}

// LastPresentationTimeUs returns the timestamp of the last written sample.
func (l *Lifecycle) LastPresentationTimeUs() int64 {
	return l.lastPts
}
