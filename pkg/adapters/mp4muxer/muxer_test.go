package mp4muxer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/user/uirecord/pkg/adapters/logger"
	"github.com/user/uirecord/pkg/mocks"
	"github.com/user/uirecord/pkg/mp4probe"
	"github.com/user/uirecord/pkg/ports"
)

func avcFormat(w, h int) ports.MediaFormat {
	return ports.MediaFormat{
		MIME:      ports.MIMETypeAVC,
		Width:     w,
		Height:    h,
		FrameRate: 25,
		CSD:       [][]byte{mocks.BaselineSPS(w, h), mocks.BaselinePPS()},
	}
}

func TestMuxer_RoundTrip(t *testing.T) {
	fs := mocks.NewFileSystem()
	m := New(fs, "out/video.mp4", logger.NewNoop())

	track, err := m.AddTrack(avcFormat(64, 48))
	if err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	const frames = 5
	for i := 0; i < frames; i++ {
		key := i == 0 || i == 3
		data := mocks.FakeAccessUnit(i, key)
		info := ports.BufferInfo{Size: len(data), PresentationTimeUs: int64(132 + i*40000)}
		if err := m.WriteSampleData(track, data, info); err != nil {
			t.Fatalf("WriteSampleData %d failed: %v", i, err)
		}
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := m.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	data, ok := fs.GetFile("out/video.mp4")
	if !ok {
		t.Fatal("expected output file to be written")
	}
	if !bytes.Equal(data[4:8], []byte("ftyp")) {
		t.Errorf("expected file to start with ftyp, got %q", data[4:8])
	}

	info, err := mp4probe.Bytes(data)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if info.Tracks != 1 || info.Codec != "avc1" {
		t.Errorf("expected one avc1 track, got %d %q", info.Tracks, info.Codec)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("expected 64x48, got %dx%d", info.Width, info.Height)
	}
	if len(info.Samples) != frames {
		t.Fatalf("expected %d samples, got %d", frames, len(info.Samples))
	}
	if info.SyncSamples() != 2 || !info.Samples[0].Sync || !info.Samples[3].Sync {
		t.Errorf("expected samples 0 and 3 to be sync samples, got %+v", info.Samples)
	}
	for i, s := range info.Samples {
		// 4-byte length prefix replaces the 4-byte start code.
		if want := len(mocks.FakeAccessUnit(i, false)); s.Size != want {
			t.Errorf("sample %d: expected size %d, got %d", i, want, s.Size)
		}
		if s.DurationUs != 40000 {
			t.Errorf("sample %d: expected 40000us duration, got %d", i, s.DurationUs)
		}
	}
	if info.Samples[1].DecodeTimeUs-info.Samples[0].DecodeTimeUs != 40000 {
		t.Errorf("unexpected decode time step: %+v", info.Samples[:2])
	}
}

func TestMuxer_StripsParameterSets(t *testing.T) {
	sps, pps := mocks.BaselineSPS(32, 32), mocks.BaselinePPS()
	slice := []byte{0x65, 0x88, 0x81}

	avcc, sync := convertToAVCC(mocks.AnnexB([]byte{0x09, 0xf0}, sps, pps, slice))
	if !sync {
		t.Error("expected IDR sample to be sync")
	}
	want := append([]byte{0, 0, 0, 3}, slice...)
	if !bytes.Equal(avcc, want) {
		t.Errorf("convertToAVCC = %x, want %x", avcc, want)
	}
}

func TestMuxer_AddTrack(t *testing.T) {
	tests := []struct {
		name    string
		format  ports.MediaFormat
		wantErr error
	}{
		{
			name:   "separate NAL units",
			format: avcFormat(64, 48),
		},
		{
			name: "annex b blob",
			format: ports.MediaFormat{
				MIME: ports.MIMETypeAVC, Width: 64, Height: 48,
				CSD: [][]byte{mocks.AnnexB(mocks.BaselineSPS(64, 48), mocks.BaselinePPS())},
			},
		},
		{
			name:    "missing pps",
			format:  ports.MediaFormat{MIME: ports.MIMETypeAVC, CSD: [][]byte{mocks.BaselineSPS(64, 48)}},
			wantErr: ErrMissingParameterSets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(mocks.NewFileSystem(), "v.mp4", logger.NewNoop())
			_, err := m.AddTrack(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddTrack failed: %v", err)
			}
			if _, err := m.AddTrack(tt.format); !errors.Is(err, ErrInvalidState) {
				t.Errorf("expected ErrInvalidState for second track, got %v", err)
			}
		})
	}
}

func TestMuxer_Lifecycle(t *testing.T) {
	fs := mocks.NewFileSystem()
	m := New(fs, "v.mp4", logger.NewNoop())

	if err := m.Start(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for start without track, got %v", err)
	}
	if _, err := m.AddTrack(avcFormat(64, 48)); err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	err := m.WriteSampleData(0, mocks.FakeAccessUnit(0, true), ports.BufferInfo{})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for write before start, got %v", err)
	}
	if err := m.Stop(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for stop before start, got %v", err)
	}
	if err := m.Release(); err != nil {
		t.Errorf("Release failed: %v", err)
	}
	if _, ok := fs.GetFile("v.mp4"); ok {
		t.Error("expected no file without Stop")
	}
}

func TestMuxer_EmptyRecording(t *testing.T) {
	fs := mocks.NewFileSystem()
	m := New(fs, "empty.mp4", logger.NewNoop())
	if _, err := m.AddTrack(avcFormat(64, 48)); err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	data, ok := fs.GetFile("empty.mp4")
	if !ok {
		t.Fatal("expected file")
	}
	info, err := mp4probe.Bytes(data)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if len(info.Samples) != 0 || info.Width != 64 {
		t.Errorf("unexpected probe of empty file: %+v", info)
	}
}
