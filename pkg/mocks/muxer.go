package mocks

import (
	"github.com/user/uirecord/pkg/ports"
)

// Muxer is a mock implementation of ports.Muxer that records every call.
type Muxer struct {
	AddTrackFunc        func(format ports.MediaFormat) (int, error)
	StartFunc           func() error
	WriteSampleDataFunc func(trackIndex int, data []byte, info ports.BufferInfo) error
	StopFunc            func() error
	ReleaseFunc         func() error

	// Recorded calls for verification
	Calls        []string
	Formats      []ports.MediaFormat
	Samples      []WrittenSample
	StartCalls   int
	StopCalls    int
	ReleaseCalls int
}

// WrittenSample records a call to WriteSampleData.
type WrittenSample struct {
	TrackIndex int
	Data       []byte
	Info       ports.BufferInfo
}

func (m *Muxer) AddTrack(format ports.MediaFormat) (int, error) {
	m.Calls = append(m.Calls, "addTrack")
	m.Formats = append(m.Formats, format)
	if m.AddTrackFunc != nil {
		return m.AddTrackFunc(format)
	}
	return len(m.Formats) - 1, nil
}

func (m *Muxer) Start() error {
	m.Calls = append(m.Calls, "start")
	m.StartCalls++
	if m.StartFunc != nil {
		return m.StartFunc()
	}
	return nil
}

func (m *Muxer) WriteSampleData(trackIndex int, data []byte, info ports.BufferInfo) error {
	m.Calls = append(m.Calls, "write")
	m.Samples = append(m.Samples, WrittenSample{
		TrackIndex: trackIndex,
		Data:       append([]byte(nil), data...),
		Info:       info,
	})
	if m.WriteSampleDataFunc != nil {
		return m.WriteSampleDataFunc(trackIndex, data, info)
	}
	return nil
}

func (m *Muxer) Stop() error {
	m.Calls = append(m.Calls, "stop")
	m.StopCalls++
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

func (m *Muxer) Release() error {
	m.Calls = append(m.Calls, "release")
	m.ReleaseCalls++
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc()
	}
	return nil
}

var _ ports.Muxer = (*Muxer)(nil)
