// Package mp4probe reads back the video track of an MP4 file: codec,
// dimensions from the SPS, and per-sample timing and sync flags.
package mp4probe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"
)

// ErrNoVideoTrack is returned when the file has no video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// Sample describes one video sample.
type Sample struct {
	DecodeTimeUs int64
	DurationUs   int64
	Size         int
	Sync         bool
}

// Info is the result of probing a file.
type Info struct {
	Tracks     int
	Fragmented bool
	Codec      string // sample entry type, e.g. "avc1"
	Width      int
	Height     int
	Profile    int
	Level      int
	Timescale  uint32
	Samples    []Sample
}

// SyncSamples returns the number of sync samples.
func (i *Info) SyncSamples() int {
	n := 0
	for _, s := range i.Samples {
		if s.Sync {
			n++
		}
	}
	return n
}

// Duration returns the total duration of all samples.
func (i *Info) Duration() time.Duration {
	var us int64
	for _, s := range i.Samples {
		us += s.DurationUs
	}
	return time.Duration(us) * time.Microsecond
}

// File probes the MP4 file at path.
func File(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Reader(f)
}

// Bytes probes an in-memory MP4 file.
func Bytes(data []byte) (*Info, error) {
	return Reader(bytes.NewReader(data))
}

// Reader probes an MP4 stream.
func Reader(r io.ReadSeeker) (*Info, error) {
	file, err := mp4.DecodeFile(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	moov := file.Moov
	if file.Init != nil && file.Init.Moov != nil {
		moov = file.Init.Moov
	}
	if moov == nil {
		return nil, fmt.Errorf("mp4probe: no moov box found")
	}

	info := &Info{
		Tracks:     len(moov.Traks),
		Fragmented: file.IsFragmented(),
	}

	var video *mp4.TrakBox
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			video = trak
			break
		}
	}
	if video == nil {
		return info, ErrNoVideoTrack
	}

	info.Timescale = 1000
	if video.Mdia.Mdhd != nil {
		info.Timescale = video.Mdia.Mdhd.Timescale
	}
	describeSampleEntry(info, video)

	if info.Fragmented {
		err = readFragmented(info, file, moov, video.Tkhd.TrackID)
	} else {
		err = readProgressive(info, video)
	}
	if err != nil {
		return info, err
	}
	return info, nil
}

// describeSampleEntry fills codec and SPS-derived fields.
func describeSampleEntry(info *Info, trak *mp4.TrakBox) {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return
	}
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		entry, ok := child.(*mp4.VisualSampleEntryBox)
		if !ok {
			continue
		}
		info.Codec = entry.Type()
		info.Width = int(entry.Width)
		info.Height = int(entry.Height)
		if entry.AvcC != nil && len(entry.AvcC.SPSnalus) > 0 {
			if sps, err := avc.ParseSPSNALUnit(entry.AvcC.SPSnalus[0], false); err == nil {
				info.Width = int(sps.Width)
				info.Height = int(sps.Height)
				info.Profile = int(sps.Profile)
				info.Level = int(sps.Level)
			}
		}
		return
	}
}

func readFragmented(info *Info, file *mp4.File, moov *mp4.MoovBox, trackID uint32) error {
	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				return fmt.Errorf("get samples: %w", err)
			}
			for _, s := range samples {
				info.Samples = append(info.Samples, Sample{
					DecodeTimeUs: info.toUs(s.DecodeTime),
					DurationUs:   info.toUs(uint64(s.Dur)),
					Size:         int(s.Size),
					Sync:         s.Flags == mp4.SyncSampleFlags,
				})
			}
		}
	}
	return nil
}

func readProgressive(info *Info, trak *mp4.TrakBox) error {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return fmt.Errorf("mp4probe: no sample table found")
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil {
		return fmt.Errorf("mp4probe: no stsz box found")
	}

	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			syncSamples[nr] = true
		}
	}

	for nr := uint32(1); nr <= stbl.Stsz.SampleNumber; nr++ {
		var decodeTime uint64
		var dur uint32
		if stbl.Stts != nil {
			decodeTime, dur = stbl.Stts.GetDecodeTime(nr)
		}
		info.Samples = append(info.Samples, Sample{
			DecodeTimeUs: info.toUs(decodeTime),
			DurationUs:   info.toUs(uint64(dur)),
			Size:         int(stbl.Stsz.GetSampleSize(int(nr))),
			Sync:         stbl.Stss == nil || syncSamples[nr],
		})
	}
	return nil
}

func (i *Info) toUs(t uint64) int64 {
	return int64(t * 1_000_000 / uint64(i.Timescale))
}
