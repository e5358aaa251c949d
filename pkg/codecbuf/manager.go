// Package codecbuf wraps the buffer-exchange protocol of a ports.Codec.
//
// It owns the input and output slot tables the codec exposes, lends slots
// to the pipeline by index and translates codec status conditions into
// DrainResult variants. It never looks inside sample payloads.
package codecbuf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/uirecord/pkg/ports"
)

var (
	// ErrUnavailable is returned by AcquireInput when no input slot could be
	// borrowed. It is transient: the caller skips the frame for this tick.
	ErrUnavailable = errors.New("codecbuf: input buffer unavailable")

	// ErrInvalidSlot is returned when the codec hands out an index that does
	// not refer to a usable buffer.
	ErrInvalidSlot = errors.New("codecbuf: invalid buffer slot")

	// ErrNotBorrowed is returned when a slot is submitted or released that
	// the pipeline does not currently hold.
	ErrNotBorrowed = errors.New("codecbuf: slot not borrowed")
)

// SlotState tracks whether the pipeline currently holds a slot.
type SlotState int

const (
	// SlotFree means the codec owns the slot.
	SlotFree SlotState = iota
	// SlotBorrowed means the pipeline holds the slot until it submits or
	// releases it.
	SlotBorrowed
)

// Slot is a borrowed codec buffer.
type Slot struct {
	Index int
	// Buf is the whole input buffer for input slots, or exactly the valid
	// sample bytes for output slots.
	Buf []byte
}

// Manager lends codec buffer slots to a single caller.
type Manager struct {
	codec   ports.Codec
	timeout time.Duration

	inputs  [][]byte
	outputs [][]byte

	inState  []SlotState
	outState []SlotState
}

// New creates a Manager over an already started codec. timeout bounds every
// acquire and drain wait; a negative timeout waits without bound.
func New(codec ports.Codec, timeout time.Duration) *Manager {
	m := &Manager{
		codec:   codec,
		timeout: timeout,
	}
	m.inputs = codec.InputBuffers()
	m.inState = make([]SlotState, len(m.inputs))
	m.RefreshOutputTable()
	return m
}

// RefreshOutputTable re-reads the output slot table from the codec.
// Must be called after a DrainTableChanged result.
func (m *Manager) RefreshOutputTable() {
	m.outputs = m.codec.OutputBuffers()
	state := make([]SlotState, len(m.outputs))
	copy(state, m.outState)
	m.outState = state
}

// AcquireInput borrows a free input slot. Every failure other than context
// cancellation is reported as ErrUnavailable.
func (m *Manager) AcquireInput(ctx context.Context) (Slot, error) {
	index, err := m.codec.DequeueInputBuffer(ctx, m.timeout)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Slot{}, ctxErr
		}
		return Slot{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if index < 0 || index >= len(m.inputs) || m.inputs[index] == nil {
		return Slot{}, fmt.Errorf("%w: input index %d", ErrUnavailable, index)
	}
	if m.inState[index] == SlotBorrowed {
		return Slot{}, fmt.Errorf("%w: input index %d lent twice", ErrUnavailable, index)
	}

	m.inState[index] = SlotBorrowed
	return Slot{Index: index, Buf: m.inputs[index]}, nil
}

// SubmitInput returns a filled input slot to the codec. Any error is fatal.
func (m *Manager) SubmitInput(slot Slot, size int, presentationTimeUs int64, flags ports.BufferFlags) error {
	if slot.Index < 0 || slot.Index >= len(m.inState) || m.inState[slot.Index] != SlotBorrowed {
		return fmt.Errorf("%w: input index %d", ErrNotBorrowed, slot.Index)
	}
	if size < 0 || size > len(m.inputs[slot.Index]) {
		return fmt.Errorf("%w: size %d exceeds input buffer of %d bytes", ErrInvalidSlot, size, len(m.inputs[slot.Index]))
	}

	m.inState[slot.Index] = SlotFree
	if err := m.codec.QueueInputBuffer(slot.Index, 0, size, presentationTimeUs, flags); err != nil {
		return fmt.Errorf("queue input buffer %d: %w", slot.Index, err)
	}
	return nil
}

// DrainOutput waits for the next codec output event.
func (m *Manager) DrainOutput(ctx context.Context) DrainResult {
	var info ports.BufferInfo
	index, err := m.codec.DequeueOutputBuffer(ctx, &info, m.timeout)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrTryAgainLater):
		return DrainResult{Kind: DrainTryAgain}
	case errors.Is(err, ports.ErrOutputBuffersChanged):
		return DrainResult{Kind: DrainTableChanged}
	case errors.Is(err, ports.ErrOutputFormatChanged):
		return DrainResult{Kind: DrainFormatChanged}
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return DrainResult{Kind: DrainFatal, Err: ctxErr}
		}
		return DrainResult{Kind: DrainFatal, Err: fmt.Errorf("dequeue output buffer: %w", err)}
	}

	if index < 0 || index >= len(m.outputs) || m.outputs[index] == nil {
		return DrainResult{Kind: DrainFatal, Err: fmt.Errorf("%w: output index %d", ErrInvalidSlot, index)}
	}
	buf := m.outputs[index]
	if info.Offset < 0 || info.Size < 0 || info.Offset+info.Size > len(buf) {
		return DrainResult{Kind: DrainFatal, Err: fmt.Errorf("%w: output %d region [%d,+%d) outside %d bytes",
			ErrInvalidSlot, index, info.Offset, info.Size, len(buf))}
	}

	m.outState[index] = SlotBorrowed
	return DrainResult{
		Kind: DrainSample,
		Slot: Slot{Index: index, Buf: buf[info.Offset : info.Offset+info.Size]},
		Info: info,
	}
}

// ReleaseOutput hands a drained output slot back to the codec.
func (m *Manager) ReleaseOutput(slot Slot) error {
	if slot.Index < 0 || slot.Index >= len(m.outState) || m.outState[slot.Index] != SlotBorrowed {
		return fmt.Errorf("%w: output index %d", ErrNotBorrowed, slot.Index)
	}
	m.outState[slot.Index] = SlotFree
	if err := m.codec.ReleaseOutputBuffer(slot.Index); err != nil {
		return fmt.Errorf("release output buffer %d: %w", slot.Index, err)
	}
	return nil
}

// borrowed returns the number of input and output slots currently held.
func (m *Manager) borrowed() (inputs, outputs int) {
	for _, s := range m.inState {
		if s == SlotBorrowed {
			inputs++
		}
	}
	for _, s := range m.outState {
		if s == SlotBorrowed {
			outputs++
		}
	}
	return inputs, outputs
}
