// Package quantize turns raw pixel frames into glyph-index grids.
package quantize

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"glyphcast/internal/movie"
)

// Option adjusts quantizer behavior.
type Option func(*Quantizer)

// WithInvertedColors flips luminance before glyph selection. Useful on light
// terminal themes where the palette convention reads backwards.
func WithInvertedColors() Option {
	return func(q *Quantizer) {
		q.invert = true
	}
}

// Quantizer converts frames to fixed-size grids of glyph indexes. It holds no
// mutable state after construction and is safe for concurrent use.
type Quantizer struct {
	gridWidth  int
	gridHeight int
	charset    movie.Charset
	invert     bool
}

// New validates grid geometry up front so per-frame calls cannot fail on
// configuration.
func New(gridWidth, gridHeight int, charset movie.Charset, opts ...Option) (*Quantizer, error) {
	if gridWidth < 1 || gridHeight < 1 {
		return nil, movie.Wrap(movie.ErrInvalidConfig, "quantize", "", "grid dimensions must be at least 1x1", nil)
	}
	if charset.Size() < 2 {
		return nil, movie.Wrap(movie.ErrInvalidConfig, "quantize", "", "charset must hold at least 2 glyphs", nil)
	}
	q := &Quantizer{gridWidth: gridWidth, gridHeight: gridHeight, charset: charset}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Quantize reduces one frame to grayscale, resamples it to the grid size with
// nearest-neighbor selection, and maps each luminance sample to a glyph
// bucket. The mapping is index = v*(size-1)/255 clamped to the palette, so an
// all-black or all-white frame lands on a single in-range glyph. The result is
// deterministic for identical input.
func (q *Quantizer) Quantize(frame image.Image) (movie.Grid, error) {
	if frame == nil {
		return nil, movie.Wrap(movie.ErrMalformedFrame, "quantize", "", "nil frame", nil)
	}
	bounds := frame.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, movie.Wrap(movie.ErrMalformedFrame, "quantize", "", "empty frame", nil)
	}

	img := frame
	if q.invert {
		img = imaging.Invert(img)
	}
	gray := imaging.Grayscale(img)
	small := resize.Resize(uint(q.gridWidth), uint(q.gridHeight), gray, resize.NearestNeighbor)

	top := q.charset.Size() - 1
	origin := small.Bounds().Min
	grid := make(movie.Grid, q.gridHeight)
	for y := 0; y < q.gridHeight; y++ {
		row := make([]int, q.gridWidth)
		for x := 0; x < q.gridWidth; x++ {
			v := color.GrayModel.Convert(small.At(origin.X+x, origin.Y+y)).(color.Gray).Y
			idx := int(v) * top / 255
			if idx > top {
				idx = top
			}
			row[x] = idx
		}
		grid[y] = row
	}
	return grid, nil
}
