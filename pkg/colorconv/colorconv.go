// Package colorconv converts interleaved RGBA pixels into the planar
// 4:2:0 layout (I420) expected by the video encoder.
package colorconv

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when buffer sizes or dimensions do not
// describe a valid conversion.
var ErrInvalidArgument = errors.New("colorconv: invalid argument")

// RGBASize returns the byte size of a width×height RGBA buffer.
func RGBASize(width, height int) int {
	return width * height * 4
}

// I420Size returns the byte size of a width×height I420 frame: a full
// resolution luma plane followed by two quarter resolution chroma planes.
func I420Size(width, height int) int {
	lumaSize := width * height
	return lumaSize + 2*(lumaSize/4)
}

// YUV converts one pixel with the integer BT.601 studio-swing transform.
func YUV(r, g, b uint8) (y, u, v uint8) {
	R, G, B := int(r), int(g), int(b)
	return clamp(((66*R + 129*G + 25*B + 128) >> 8) + 16),
		clamp(((-38*R - 74*G + 112*B + 128) >> 8) + 128),
		clamp(((112*R - 94*G - 18*B + 128) >> 8) + 128)
}

// RGBAToI420 converts src (R,G,B,A interleaved, alpha ignored) into dst.
// Chroma is taken from the top-left pixel of every 2×2 block. Width and
// height must be even, len(src) must equal RGBASize and len(dst) must equal
// I420Size. It returns the number of bytes written.
func RGBAToI420(dst, src []byte, width, height int) (int, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return 0, fmt.Errorf("%w: dimensions %dx%d must be positive and even", ErrInvalidArgument, width, height)
	}
	if len(src) != RGBASize(width, height) {
		return 0, fmt.Errorf("%w: source is %d bytes, want %d", ErrInvalidArgument, len(src), RGBASize(width, height))
	}
	if len(dst) != I420Size(width, height) {
		return 0, fmt.Errorf("%w: destination is %d bytes, want %d", ErrInvalidArgument, len(dst), I420Size(width, height))
	}

	lumaSize := width * height
	yIndex := 0
	uIndex := lumaSize
	vIndex := lumaSize + lumaSize/4

	// pixel counts every pixel seen so far; with an even width its parity
	// equals the column parity.
	pixel := 0
	s := 0
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			y, u, v := YUV(src[s], src[s+1], src[s+2])
			s += 4

			dst[yIndex] = y
			yIndex++

			if row%2 == 0 && pixel%2 == 0 {
				dst[uIndex] = u
				uIndex++
				dst[vIndex] = v
				vIndex++
			}
			pixel++
		}
	}

	return yIndex + (uIndex - lumaSize) + (vIndex - lumaSize - lumaSize/4), nil
}

func clamp(x int) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}
