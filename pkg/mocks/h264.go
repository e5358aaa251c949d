package mocks

// BaselineSPS builds a minimal H.264 baseline profile SPS NAL unit for the
// given dimensions, cropping to sizes that are not multiples of 16.
func BaselineSPS(width, height int) []byte {
	mbW := (width + 15) / 16
	mbH := (height + 15) / 16

	var w bitWriter
	w.writeBits(66, 8)   // profile_idc: baseline
	w.writeBits(0xC0, 8) // constraint_set0/1
	w.writeBits(31, 8)   // level_idc 3.1
	w.writeUE(0)         // seq_parameter_set_id
	w.writeUE(0)         // log2_max_frame_num_minus4
	w.writeUE(2)         // pic_order_cnt_type
	w.writeUE(1)         // max_num_ref_frames
	w.writeBits(0, 1)    // gaps_in_frame_num_value_allowed_flag
	w.writeUE(uint(mbW - 1))
	w.writeUE(uint(mbH - 1))
	w.writeBits(1, 1) // frame_mbs_only_flag
	w.writeBits(1, 1) // direct_8x8_inference_flag

	cropRight := (mbW*16 - width) / 2
	cropBottom := (mbH*16 - height) / 2
	if cropRight > 0 || cropBottom > 0 {
		w.writeBits(1, 1)
		w.writeUE(0)
		w.writeUE(uint(cropRight))
		w.writeUE(0)
		w.writeUE(uint(cropBottom))
	} else {
		w.writeBits(0, 1)
	}
	w.writeBits(0, 1) // vui_parameters_present_flag

	return nalu(0x67, w.rbsp())
}

// BaselinePPS builds a PPS NAL unit matching BaselineSPS.
func BaselinePPS() []byte {
	var w bitWriter
	w.writeUE(0)      // pic_parameter_set_id
	w.writeUE(0)      // seq_parameter_set_id
	w.writeBits(0, 1) // entropy_coding_mode_flag
	w.writeBits(0, 1) // bottom_field_pic_order_in_frame_present_flag
	w.writeUE(0)      // num_slice_groups_minus1
	w.writeUE(0)      // num_ref_idx_l0_default_active_minus1
	w.writeUE(0)      // num_ref_idx_l1_default_active_minus1
	w.writeBits(0, 1) // weighted_pred_flag
	w.writeBits(0, 2) // weighted_bipred_idc
	w.writeUE(0)      // pic_init_qp_minus26 (se 0)
	w.writeUE(0)      // pic_init_qs_minus26 (se 0)
	w.writeUE(0)      // chroma_qp_index_offset (se 0)
	w.writeBits(1, 1) // deblocking_filter_control_present_flag
	w.writeBits(0, 1) // constrained_intra_pred_flag
	w.writeBits(0, 1) // redundant_pic_cnt_present_flag

	return nalu(0x68, w.rbsp())
}

// AnnexB joins NAL units with 4-byte start codes.
func AnnexB(nalus ...[]byte) []byte {
	var out []byte
	for _, n := range nalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, n...)
	}
	return out
}

// nalu prefixes header and inserts emulation prevention bytes.
func nalu(header byte, rbsp []byte) []byte {
	out := []byte{header}
	zeros := 0
	for _, b := range rbsp {
		if zeros >= 2 && b <= 3 {
			out = append(out, 3)
			zeros = 0
		}
		out = append(out, b)
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}

type bitWriter struct {
	buf   []byte
	nbits int
}

func (w *bitWriter) writeBits(v uint, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.nbits%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if (v>>uint(i))&1 == 1 {
			w.buf[len(w.buf)-1] |= 1 << uint(7-w.nbits%8)
		}
		w.nbits++
	}
}

// writeUE writes an unsigned Exp-Golomb code.
func (w *bitWriter) writeUE(v uint) {
	v++
	n := 0
	for t := v; t > 1; t >>= 1 {
		n++
	}
	w.writeBits(0, n)
	w.writeBits(v, n+1)
}

// rbsp appends the stop bit and byte-aligns.
func (w *bitWriter) rbsp() []byte {
	w.writeBits(1, 1)
	for w.nbits%8 != 0 {
		w.writeBits(0, 1)
	}
	return w.buf
}
