package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/user/uirecord/pkg/ports"
)

// QueuedInput records a call to QueueInputBuffer.
type QueuedInput struct {
	Index              int
	Size               int
	PresentationTimeUs int64
	Flags              ports.BufferFlags
	Data               []byte
}

// Codec is an in-memory loopback implementation of ports.Codec.
//
// Every queued input immediately yields one output sample carrying the same
// timestamp and flags. The first input is preceded by a format change and a
// codec-config sample holding a baseline SPS/PPS for the configured size.
// The *Func hooks override individual calls.
type Codec struct {
	mu sync.Mutex

	InputSlots  int // default 2
	OutputSlots int // default 2

	// UnavailableInputs makes the first n DequeueInputBuffer calls report
	// ErrTryAgainLater.
	UnavailableInputs int
	// RepeatConfig emits a second codec-config sample after the first frame.
	RepeatConfig bool
	// GrowOutputsAfter adds one output slot after the n-th queued input and
	// reports ErrOutputBuffersChanged. The next sample lands in the new slot.
	GrowOutputsAfter int
	// FormatChangeAfter reports a second ErrOutputFormatChanged after the
	// n-th queued input.
	FormatChangeAfter int

	ConfigureFunc     func(format ports.MediaFormat) error
	StartFunc         func() error
	DequeueInputFunc  func(ctx context.Context, timeout time.Duration) (int, error)
	QueueInputFunc    func(index, offset, size int, presentationTimeUs int64, flags ports.BufferFlags) error
	DequeueOutputFunc func(ctx context.Context, info *ports.BufferInfo, timeout time.Duration) (int, error)
	StopFunc          func() error
	ReleaseFunc       func() error

	// Recorded calls for verification
	Queued         []QueuedInput
	ConfigureCalls int
	StartCalls     int
	StopCalls      int
	ReleaseCalls   int
	OutputReleases int
	OutputIndices  []int // output slot of every dequeued sample

	format  ports.MediaFormat
	inputs  [][]byte
	outputs [][]byte
	freeIn  []int
	freeOut []int
	pending []codecEvent
}

type codecEvent struct {
	formatChanged  bool
	buffersChanged bool
	data           []byte
	pts            int64
	flags          ports.BufferFlags
}

func (m *Codec) Name() string {
	return "mock.loopback"
}

func (m *Codec) Configure(format ports.MediaFormat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfigureCalls++
	if m.ConfigureFunc != nil {
		if err := m.ConfigureFunc(format); err != nil {
			return err
		}
	}
	m.format = format

	in, out := m.InputSlots, m.OutputSlots
	if in <= 0 {
		in = 2
	}
	if out <= 0 {
		out = 2
	}
	size := format.Width * format.Height * 3 / 2
	m.inputs = make([][]byte, in)
	m.freeIn = nil
	for i := range m.inputs {
		m.inputs[i] = make([]byte, size)
		m.freeIn = append(m.freeIn, i)
	}
	m.outputs = make([][]byte, out)
	m.freeOut = nil
	for i := range m.outputs {
		m.outputs[i] = make([]byte, 256)
		m.freeOut = append(m.freeOut, i)
	}
	return nil
}

func (m *Codec) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls++
	if m.StartFunc != nil {
		return m.StartFunc()
	}
	return nil
}

func (m *Codec) Stop() error {
	m.mu.Lock()
	m.StopCalls++
	m.mu.Unlock()
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

func (m *Codec) Release() error {
	m.mu.Lock()
	m.ReleaseCalls++
	m.mu.Unlock()
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc()
	}
	return nil
}

func (m *Codec) InputBuffers() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs
}

func (m *Codec) OutputBuffers() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outputs
}

func (m *Codec) DequeueInputBuffer(ctx context.Context, timeout time.Duration) (int, error) {
	if m.DequeueInputFunc != nil {
		return m.DequeueInputFunc(ctx, timeout)
	}
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UnavailableInputs > 0 {
		m.UnavailableInputs--
		return -1, ports.ErrTryAgainLater
	}
	if len(m.freeIn) == 0 {
		return -1, ports.ErrTryAgainLater
	}
	idx := m.freeIn[0]
	m.freeIn = m.freeIn[1:]
	return idx, nil
}

func (m *Codec) QueueInputBuffer(index, offset, size int, presentationTimeUs int64, flags ports.BufferFlags) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.inputs) {
		m.mu.Unlock()
		return fmt.Errorf("mock codec: input index %d out of range", index)
	}
	m.Queued = append(m.Queued, QueuedInput{
		Index:              index,
		Size:               size,
		PresentationTimeUs: presentationTimeUs,
		Flags:              flags,
		Data:               append([]byte(nil), m.inputs[index][offset:offset+size]...),
	})
	m.freeIn = append(m.freeIn, index)

	if len(m.Queued) == 1 {
		m.format.CSD = [][]byte{BaselineSPS(m.format.Width, m.format.Height), BaselinePPS()}
		m.pending = append(m.pending,
			codecEvent{formatChanged: true},
			codecEvent{data: AnnexB(m.format.CSD...), flags: ports.FlagCodecConfig},
		)
	}

	var data []byte
	if size > 0 {
		data = FakeAccessUnit(len(m.Queued)-1, flags.Has(ports.FlagKeyFrame))
	}
	m.pending = append(m.pending, codecEvent{data: data, pts: presentationTimeUs, flags: flags})
	if len(m.Queued) == 1 && m.RepeatConfig {
		m.pending = append(m.pending, codecEvent{data: AnnexB(m.format.CSD...), flags: ports.FlagCodecConfig})
	}
	if len(m.Queued) == m.GrowOutputsAfter {
		m.pending = append(m.pending, codecEvent{buffersChanged: true})
	}
	if len(m.Queued) == m.FormatChangeAfter {
		m.pending = append(m.pending, codecEvent{formatChanged: true})
	}
	m.mu.Unlock()

	if m.QueueInputFunc != nil {
		return m.QueueInputFunc(index, offset, size, presentationTimeUs, flags)
	}
	return nil
}

func (m *Codec) DequeueOutputBuffer(ctx context.Context, info *ports.BufferInfo, timeout time.Duration) (int, error) {
	if m.DequeueOutputFunc != nil {
		return m.DequeueOutputFunc(ctx, info, timeout)
	}
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return -1, ports.ErrTryAgainLater
	}
	ev := m.pending[0]
	if ev.formatChanged {
		m.pending = m.pending[1:]
		return -1, ports.ErrOutputFormatChanged
	}
	if ev.buffersChanged {
		m.pending = m.pending[1:]
		m.outputs = append(m.outputs, make([]byte, 256))
		m.freeOut = append([]int{len(m.outputs) - 1}, m.freeOut...)
		return -1, ports.ErrOutputBuffersChanged
	}
	if len(m.freeOut) == 0 {
		return -1, ports.ErrTryAgainLater
	}
	m.pending = m.pending[1:]
	idx := m.freeOut[0]
	m.freeOut = m.freeOut[1:]

	m.OutputIndices = append(m.OutputIndices, idx)
	n := copy(m.outputs[idx], ev.data)
	*info = ports.BufferInfo{Offset: 0, Size: n, PresentationTimeUs: ev.pts, Flags: ev.flags}
	return idx, nil
}

func (m *Codec) ReleaseOutputBuffer(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.outputs) {
		return errors.New("mock codec: output index out of range")
	}
	for _, free := range m.freeOut {
		if free == index {
			return fmt.Errorf("mock codec: output %d released twice", index)
		}
	}
	m.freeOut = append(m.freeOut, index)
	m.OutputReleases++
	return nil
}

func (m *Codec) OutputFormat() ports.MediaFormat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.format
}

// FakeAccessUnit builds an Annex B access unit with a single slice NAL whose
// payload encodes seq, so tests can trace samples end to end.
func FakeAccessUnit(seq int, key bool) []byte {
	header := byte(0x41) // non-IDR slice
	if key {
		header = 0x65 // IDR slice
	}
	// Every byte has its top bit set so no start code can appear.
	payload := []byte{
		0x88,
		0x80 | byte(seq>>21&0x7f),
		0x80 | byte(seq>>14&0x7f),
		0x80 | byte(seq>>7&0x7f),
		0x80 | byte(seq&0x7f),
	}
	return AnnexB(append([]byte{header}, payload...))
}

var _ ports.Codec = (*Codec)(nil)
