package mp4probe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/uirecord/pkg/adapters/logger"
	"github.com/user/uirecord/pkg/adapters/mp4muxer"
	"github.com/user/uirecord/pkg/adapters/osfilesystem"
	"github.com/user/uirecord/pkg/mocks"
	"github.com/user/uirecord/pkg/ports"
)

// writeRecording muxes n fake frames at 25 fps, a keyframe every 10.
func writeRecording(t *testing.T, path string, w, h, n int) {
	t.Helper()
	m := mp4muxer.New(osfilesystem.New(), path, logger.NewNoop())
	_, err := m.AddTrack(ports.MediaFormat{
		MIME:      ports.MIMETypeAVC,
		Width:     w,
		Height:    h,
		FrameRate: 25,
		CSD:       [][]byte{mocks.BaselineSPS(w, h), mocks.BaselinePPS()},
	})
	if err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < n; i++ {
		data := mocks.FakeAccessUnit(i, i%10 == 0)
		if err := m.WriteSampleData(0, data, ports.BufferInfo{Size: len(data), PresentationTimeUs: int64(i * 40000)}); err != nil {
			t.Fatalf("WriteSampleData failed: %v", err)
		}
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec", "video.mp4")
	writeRecording(t, path, 1280, 720, 25)

	info, err := File(path)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	if !info.Fragmented {
		t.Error("expected fragmented file")
	}
	if info.Codec != "avc1" || info.Width != 1280 || info.Height != 720 {
		t.Errorf("unexpected track: %s %dx%d", info.Codec, info.Width, info.Height)
	}
	if info.Profile != 66 || info.Level != 31 {
		t.Errorf("expected baseline 3.1, got profile %d level %d", info.Profile, info.Level)
	}
	if info.Timescale != mp4muxer.Timescale {
		t.Errorf("expected timescale %d, got %d", mp4muxer.Timescale, info.Timescale)
	}
	if len(info.Samples) != 25 {
		t.Fatalf("expected 25 samples, got %d", len(info.Samples))
	}
	if info.SyncSamples() != 3 {
		t.Errorf("expected 3 sync samples, got %d", info.SyncSamples())
	}
	if info.Duration() != time.Second {
		t.Errorf("expected 1s duration, got %v", info.Duration())
	}
	for i, s := range info.Samples {
		if want := int64(i * 40000); s.DecodeTimeUs != want {
			t.Errorf("sample %d: expected decode time %d, got %d", i, want, s.DecodeTimeUs)
		}
	}
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestBytes_Garbage(t *testing.T) {
	if _, err := Bytes([]byte("definitely not an mp4 file")); err == nil {
		t.Error("expected error for garbage input")
	}
}
