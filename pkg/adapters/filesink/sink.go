// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"

	"github.com/user/uirecord/pkg/ports"
)

// Contact sheet layout.
const (
	thumbWidth   = 160
	sheetColumns = 5
	sheetGap     = 4
	labelHeight  = 16
)

type thumbnail struct {
	index int
	img   image.Image
}

// Sink saves debug output under a base directory:
//
//	recording.json
//	contact-sheet.jpg
//	frames/frame-0000.png
//	planes/frame-0000.yuv
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer

	mu     sync.Mutex
	thumbs []thumbnail
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveRecordingJSON saves the run report as JSON.
func (s *Sink) SaveRecordingJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "recording.json")
	return s.fs.WriteFile(path, data)
}

// SaveFrame saves a rendered frame as PNG and keeps a thumbnail of it for
// the contact sheet.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	path := filepath.Join(s.baseDir, "frames", fmt.Sprintf("frame-%04d.png", index))
	if err := s.fs.WriteFile(path, data); err != nil {
		return err
	}

	b := img.Bounds()
	if b.Dx() > 0 && b.Dy() > 0 {
		h := max(b.Dy()*thumbWidth/b.Dx(), 1)
		thumb := s.renderer.ResizeImage(img, thumbWidth, h)
		s.mu.Lock()
		s.thumbs = append(s.thumbs, thumbnail{index: index, img: thumb})
		s.mu.Unlock()
	}
	return nil
}

// SavePlanes saves raw I420 planes, viewable with
// ffplay -f rawvideo -pixel_format yuv420p -video_size WxH.
func (s *Sink) SavePlanes(index int, data []byte) error {
	path := filepath.Join(s.baseDir, "planes", fmt.Sprintf("frame-%04d.yuv", index))
	return s.fs.WriteFile(path, data)
}

// SaveContactSheet writes contact-sheet.jpg, a grid of the saved frames
// labelled with their indices. Nothing is written before the first frame.
func (s *Sink) SaveContactSheet() error {
	s.mu.Lock()
	thumbs := append([]thumbnail(nil), s.thumbs...)
	s.mu.Unlock()
	if len(thumbs) == 0 {
		return nil
	}

	tb := thumbs[0].img.Bounds()
	cellW, cellH := tb.Dx(), tb.Dy()+labelHeight
	cols := min(len(thumbs), sheetColumns)
	rows := (len(thumbs) + cols - 1) / cols

	c := s.renderer.CreateCanvas(
		cols*(cellW+sheetGap)+sheetGap,
		rows*(cellH+sheetGap)+sheetGap,
		color.RGBA{24, 24, 27, 255},
	)
	label := ports.TextStyle{FontSize: 11, Color: color.RGBA{228, 228, 231, 255}, Align: ports.AlignCenter}
	for i, t := range thumbs {
		x := sheetGap + (i%cols)*(cellW+sheetGap)
		y := sheetGap + (i/cols)*(cellH+sheetGap)
		c.DrawImage(t.img, x, y)
		c.DrawRectStroke(x, y, cellW, tb.Dy(), color.RGBA{82, 82, 91, 255}, 1)
		c.DrawText(fmt.Sprintf("#%d", t.index), x+cellW/2, y+tb.Dy()+labelHeight/2, label)
	}

	data, err := s.renderer.EncodeImage(c.ToImage(), ports.FormatJPEG, 85)
	if err != nil {
		return fmt.Errorf("encode contact sheet: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, "contact-sheet.jpg"), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
