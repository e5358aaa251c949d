package mocks

import (
	"image"
	"sync"

	"github.com/user/uirecord/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	RecordingJSON []byte
	Frames        map[int]image.Image
	Planes        map[int][]byte
	ContactSheets int
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Frames:  make(map[int]image.Image),
		Planes:  make(map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveRecordingJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordingJSON = data
	return nil
}

func (m *DebugSink) SaveFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[index] = img
	return nil
}

func (m *DebugSink) SavePlanes(index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Planes[index] = append([]byte(nil), data...)
	return nil
}

func (m *DebugSink) SaveContactSheet() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ContactSheets++
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
