package video

import (
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"sort"

	"glyphcast/internal/movie"
)

// Animated GIFs with no delay metadata play at this rate.
const defaultGIFRate = 10

type gifSource struct {
	frames []image.Image
	rate   int
	next   int
}

// OpenGIF decodes an animated GIF eagerly, compositing each frame onto the
// logical screen according to its disposal method so that partial-update GIFs
// yield complete frames.
func OpenGIF(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "open gif", path, err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "decode gif", path, err)
	}
	if len(g.Image) == 0 {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "decode gif", "no frames in "+path, nil)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	screen := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	for i, frame := range g.Image {
		var restore *image.RGBA
		if disposal(g, i) == gif.DisposalPrevious {
			restore = cloneRGBA(screen)
		}

		draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, cloneRGBA(screen))

		switch disposal(g, i) {
		case gif.DisposalBackground:
			draw.Draw(screen, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			screen = restore
		}
	}

	return &gifSource{frames: frames, rate: gifRate(g.Delay)}, nil
}

func disposal(g *gif.GIF, i int) byte {
	if i < len(g.Disposal) {
		return g.Disposal[i]
	}
	return gif.DisposalNone
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// gifRate derives a frame rate from the per-frame delays (hundredths of a
// second), using the median so a single held frame does not skew the result.
func gifRate(delays []int) int {
	positive := make([]int, 0, len(delays))
	for _, d := range delays {
		if d > 0 {
			positive = append(positive, d)
		}
	}
	if len(positive) == 0 {
		return defaultGIFRate
	}
	sort.Ints(positive)
	median := positive[len(positive)/2]
	rate := (100 + median/2) / median
	if rate < 1 {
		rate = 1
	}
	return rate
}

func (s *gifSource) FrameRate() int {
	return s.rate
}

func (s *gifSource) FrameCount() int {
	return len(s.frames)
}

func (s *gifSource) Next() (image.Image, error) {
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	frame := s.frames[s.next]
	s.next++
	return frame, nil
}

func (s *gifSource) Close() error {
	s.frames = nil
	return nil
}
