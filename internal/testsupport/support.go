// Package testsupport provides shared fixtures for package tests: synthetic
// frames and scripted video sources.
package testsupport

import (
	"image"
	"io"
)

// UniformFrame builds a solid grayscale frame.
func UniformFrame(w, h int, v uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// GradientFrame builds a horizontal black-to-white gradient frame.
func GradientFrame(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8(x * 255 / max(w-1, 1))
		}
	}
	return img
}

// ScriptedSource plays back a fixed frame list as a video source. Frames set
// to nil simulate a corrupt frame the quantizer will reject.
type ScriptedSource struct {
	Frames []image.Image
	Rate   int
	// Total overrides the declared frame count when nonzero; use it to model
	// containers that claim more frames than they deliver.
	Total  int
	Closed bool

	next int
}

func (s *ScriptedSource) FrameRate() int {
	return s.Rate
}

func (s *ScriptedSource) FrameCount() int {
	if s.Total != 0 {
		return s.Total
	}
	return len(s.Frames)
}

func (s *ScriptedSource) Next() (image.Image, error) {
	if s.next >= len(s.Frames) {
		return nil, io.EOF
	}
	frame := s.Frames[s.next]
	s.next++
	return frame, nil
}

func (s *ScriptedSource) Close() error {
	s.Closed = true
	return nil
}
