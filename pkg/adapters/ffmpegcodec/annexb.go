package ffmpegcodec

import (
	"github.com/Eyevinn/mp4ff/avc"
)

// auSplitter cuts an Annex B byte stream into access units at AUD NAL units.
type auSplitter struct {
	buf     []byte
	scanned int
}

// Write appends stream bytes and returns every access unit completed by them.
func (s *auSplitter) Write(p []byte) [][]byte {
	s.buf = append(s.buf, p...)

	var units [][]byte
	i := s.scanned
	if i < 1 {
		i = 1
	}
	for ; i+3 < len(s.buf); i++ {
		if s.buf[i] != 0 || s.buf[i+1] != 0 || s.buf[i+2] != 1 {
			continue
		}
		if avc.GetNaluType(s.buf[i+3]) != avc.NALU_AUD {
			continue
		}
		cut := i
		if s.buf[i-1] == 0 {
			cut = i - 1
		}
		if cut == 0 {
			continue
		}
		units = append(units, append([]byte(nil), s.buf[:cut]...))
		s.buf = s.buf[cut:]
		i = 0
	}

	s.scanned = len(s.buf) - 3
	if s.scanned < 1 {
		s.scanned = 1
	}
	return units
}

// Flush returns the trailing access unit, if any.
func (s *auSplitter) Flush() []byte {
	if len(s.buf) == 0 {
		return nil
	}
	au := s.buf
	s.buf = nil
	s.scanned = 0
	return au
}

// accessUnit is an encoded frame with its parameter sets split out.
type accessUnit struct {
	payload []byte // Annex B, without AUD/SPS/PPS
	sps     [][]byte
	pps     [][]byte
	idr     bool
}

var startCode = []byte{0, 0, 0, 1}

// parseAccessUnit separates parameter sets and delimiters from slice data.
func parseAccessUnit(au []byte) accessUnit {
	var out accessUnit
	for _, nalu := range avc.ExtractNalusFromByteStream(au) {
		if len(nalu) == 0 {
			continue
		}
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_AUD:
		case avc.NALU_SPS:
			out.sps = append(out.sps, nalu)
		case avc.NALU_PPS:
			out.pps = append(out.pps, nalu)
		case avc.NALU_IDR:
			out.idr = true
			out.payload = appendNalu(out.payload, nalu)
		default:
			out.payload = appendNalu(out.payload, nalu)
		}
	}
	return out
}

func appendNalu(dst, nalu []byte) []byte {
	dst = append(dst, startCode...)
	return append(dst, nalu...)
}

// joinAnnexB concatenates NAL units with 4-byte start codes.
func joinAnnexB(nalus ...[]byte) []byte {
	var out []byte
	for _, n := range nalus {
		out = appendNalu(out, n)
	}
	return out
}
