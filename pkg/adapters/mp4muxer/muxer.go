// Package mp4muxer provides a MediaMuxer-style MP4 writer for a single
// H.264 track, built on mp4ff.
//
// Samples are collected in memory and the file (ftyp, moov, one moof/mdat
// fragment) is written through the FileSystem on Stop.
package mp4muxer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/uirecord/pkg/ports"
)

// Timescale is the media timescale of the video track.
const Timescale = 90000

var (
	// ErrInvalidState is returned when calls arrive out of lifecycle order.
	ErrInvalidState = errors.New("mp4muxer: invalid state")

	// ErrMissingParameterSets is returned by AddTrack when the format has
	// no SPS or PPS.
	ErrMissingParameterSets = errors.New("mp4muxer: SPS/PPS missing from format")
)

type state int

const (
	stateInit state = iota
	stateTrackAdded
	stateStarted
	stateStopped
	stateReleased
)

type sample struct {
	data  []byte // AVCC
	ptsUs int64
	sync  bool
}

// Muxer writes one H.264 track to an MP4 file.
type Muxer struct {
	fs     ports.FileSystem
	path   string
	logger ports.Logger

	state   state
	format  ports.MediaFormat
	sps     []byte
	pps     []byte
	samples []sample
}

// New creates a muxer that writes to path on Stop.
func New(fs ports.FileSystem, path string, logger ports.Logger) *Muxer {
	return &Muxer{
		fs:     fs,
		path:   path,
		logger: logger.WithComponent("mp4"),
	}
}

// AddTrack registers the video track. Only one track is supported.
// CSD entries may be bare NAL units or Annex B streams.
func (m *Muxer) AddTrack(format ports.MediaFormat) (int, error) {
	if m.state != stateInit {
		return -1, fmt.Errorf("%w: only one track supported", ErrInvalidState)
	}
	if format.MIME != ports.MIMETypeAVC {
		return -1, fmt.Errorf("mp4muxer: unsupported mime %q", format.MIME)
	}

	for _, csd := range format.CSD {
		for _, nalu := range splitNalus(csd) {
			switch avc.GetNaluType(nalu[0]) {
			case avc.NALU_SPS:
				if m.sps == nil {
					m.sps = nalu
				}
			case avc.NALU_PPS:
				if m.pps == nil {
					m.pps = nalu
				}
			}
		}
	}
	if m.sps == nil || m.pps == nil {
		return -1, ErrMissingParameterSets
	}

	if format.Width == 0 || format.Height == 0 {
		if parsed, err := avc.ParseSPSNALUnit(m.sps, false); err == nil {
			format.Width, format.Height = int(parsed.Width), int(parsed.Height)
		}
	}
	m.format = format
	m.state = stateTrackAdded
	return 0, nil
}

// Start begins accepting samples.
func (m *Muxer) Start() error {
	if m.state != stateTrackAdded {
		return fmt.Errorf("%w: start without track", ErrInvalidState)
	}
	m.state = stateStarted
	return nil
}

// WriteSampleData converts an Annex B sample to AVCC and stores it.
func (m *Muxer) WriteSampleData(trackIndex int, data []byte, info ports.BufferInfo) error {
	if m.state != stateStarted {
		return fmt.Errorf("%w: write before start", ErrInvalidState)
	}
	if trackIndex != 0 {
		return fmt.Errorf("mp4muxer: unknown track %d", trackIndex)
	}
	avcc, sync := convertToAVCC(data)
	if len(avcc) == 0 {
		return fmt.Errorf("mp4muxer: sample at %dus has no slice data", info.PresentationTimeUs)
	}
	if info.Flags.Has(ports.FlagKeyFrame) {
		sync = true
	}
	m.samples = append(m.samples, sample{data: avcc, ptsUs: info.PresentationTimeUs, sync: sync})
	return nil
}

// Stop builds the MP4 file and writes it.
func (m *Muxer) Stop() error {
	if m.state != stateStarted {
		return fmt.Errorf("%w: stop without start", ErrInvalidState)
	}
	m.state = stateStopped

	data, err := m.build()
	if err != nil {
		return err
	}
	if err := m.fs.WriteFile(m.path, data); err != nil {
		return fmt.Errorf("write %s: %w", m.path, err)
	}
	m.logger.Debug("Wrote %s: %d samples, %d bytes", m.path, len(m.samples), len(data))
	return nil
}

// Release drops buffered samples. Safe to call in any state.
func (m *Muxer) Release() error {
	m.samples = nil
	m.state = stateReleased
	return nil
}

// build creates ftyp + moov + moof/mdat for the buffered samples.
func (m *Muxer) build() ([]byte, error) {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(Timescale, "video", "und")
	trak := init.Moov.Trak

	avcC, err := mp4.CreateAvcC([][]byte{m.sps}, [][]byte{m.pps}, true)
	if err != nil {
		return nil, fmt.Errorf("create avcC: %w", err)
	}
	avc1 := mp4.CreateVisualSampleEntryBox("avc1", uint16(m.format.Width), uint16(m.format.Height), avcC)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(avc1)
	trak.Tkhd.Width = mp4.Fixed32(m.format.Width << 16)
	trak.Tkhd.Height = mp4.Fixed32(m.format.Height << 16)

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "avc1", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}
	if len(m.samples) == 0 {
		return buf.Bytes(), nil
	}

	frag, err := mp4.CreateFragment(1, trak.Tkhd.TrackID)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}
	for i, s := range m.samples {
		flags := mp4.NonSyncSampleFlags
		if s.sync {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(s.data)),
				Dur:   m.duration(i),
			},
			DecodeTime: toTimescale(s.ptsUs),
			Data:       s.data,
		})
	}
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}
	return buf.Bytes(), nil
}

// duration returns the duration of sample i in timescale units.
func (m *Muxer) duration(i int) uint32 {
	nominal := uint32(Timescale / 15)
	if m.format.FrameRate > 0 {
		nominal = uint32(Timescale / m.format.FrameRate)
	}
	if i+1 >= len(m.samples) {
		return nominal
	}
	d := toTimescale(m.samples[i+1].ptsUs) - toTimescale(m.samples[i].ptsUs)
	if d == 0 {
		return nominal
	}
	return uint32(d)
}

func toTimescale(us int64) uint64 {
	return uint64(us) * Timescale / 1_000_000
}

// splitNalus returns the NAL units of an Annex B buffer, or b itself when
// it has no start code.
func splitNalus(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	if bytes.HasPrefix(b, []byte{0, 0, 1}) || bytes.HasPrefix(b, []byte{0, 0, 0, 1}) {
		var out [][]byte
		for _, n := range avc.ExtractNalusFromByteStream(b) {
			if len(n) > 0 {
				out = append(out, n)
			}
		}
		return out
	}
	return [][]byte{b}
}

// convertToAVCC converts Annex B to 4-byte length-prefixed NAL units,
// dropping parameter sets and delimiters (they live in avcC).
func convertToAVCC(data []byte) ([]byte, bool) {
	var out []byte
	sync := false
	for _, nalu := range splitNalus(data) {
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_SPS, avc.NALU_PPS, avc.NALU_AUD:
			continue
		case avc.NALU_IDR:
			sync = true
		}
		n := len(nalu)
		out = append(out, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
		out = append(out, nalu...)
	}
	return out, sync
}

var _ ports.Muxer = (*Muxer)(nil)
