package quantize_test

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"

	"glyphcast/internal/movie"
	"glyphcast/internal/quantize"
)

func mustCharset(t *testing.T, glyphs string) movie.Charset {
	t.Helper()
	cs, err := movie.NewCharset(glyphs)
	if err != nil {
		t.Fatalf("NewCharset failed: %v", err)
	}
	return cs
}

func uniformFrame(w, h int, v uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestNewRejectsBadGrid(t *testing.T) {
	cs := mustCharset(t, " .#")
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {0, 0}, {-1, 5}} {
		if _, err := quantize.New(dims[0], dims[1], cs); !errors.Is(err, movie.ErrInvalidConfig) {
			t.Fatalf("New(%d, %d): expected ErrInvalidConfig, got %v", dims[0], dims[1], err)
		}
	}
}

func TestQuantizeUniformFrames(t *testing.T) {
	cs := mustCharset(t, " .:=+*#%@")
	q, err := quantize.New(8, 4, cs)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cases := []struct {
		name  string
		value uint8
		want  int
	}{
		{"black", 0, 0},
		{"white", 255, cs.Size() - 1},
		{"mid", 128, int(128) * (cs.Size() - 1) / 255},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := q.Quantize(uniformFrame(64, 48, tc.value))
			if err != nil {
				t.Fatalf("Quantize failed: %v", err)
			}
			if len(grid) != 4 || len(grid[0]) != 8 {
				t.Fatalf("unexpected grid shape %dx%d", len(grid), len(grid[0]))
			}
			for y, row := range grid {
				for x, idx := range row {
					if idx != tc.want {
						t.Fatalf("cell (%d,%d): expected index %d, got %d", x, y, tc.want, idx)
					}
				}
			}
		})
	}
}

func TestQuantizeIndexAlwaysInRange(t *testing.T) {
	for _, glyphs := range []string{"ab", " .:=+*#%@"} {
		cs := mustCharset(t, glyphs)
		q, err := quantize.New(2, 2, cs)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		for v := 0; v <= 255; v++ {
			grid, err := q.Quantize(uniformFrame(4, 4, uint8(v)))
			if err != nil {
				t.Fatalf("Quantize failed at v=%d: %v", v, err)
			}
			for _, row := range grid {
				for _, idx := range row {
					if idx < 0 || idx >= cs.Size() {
						t.Fatalf("v=%d size=%d: index %d out of range", v, cs.Size(), idx)
					}
				}
			}
		}
	}
}

func TestQuantizeIsDeterministic(t *testing.T) {
	cs := mustCharset(t, movie.DefaultGlyphs)
	q, err := quantize.New(10, 5, cs)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 120, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y * 2), B: uint8((x + y) % 256), A: 255})
		}
	}

	first, err := q.Quantize(img)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	second, err := q.Quantize(img)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical grids for identical input")
	}
}

func TestQuantizeInvertedColors(t *testing.T) {
	cs := mustCharset(t, "ab")
	q, err := quantize.New(2, 2, cs, quantize.WithInvertedColors())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	grid, err := q.Quantize(uniformFrame(4, 4, 0))
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	for _, row := range grid {
		for _, idx := range row {
			if idx != cs.Size()-1 {
				t.Fatalf("expected black to map to top bucket when inverted, got %d", idx)
			}
		}
	}
}

func TestQuantizeRejectsEmptyFrame(t *testing.T) {
	cs := mustCharset(t, "ab")
	q, err := quantize.New(2, 2, cs)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := q.Quantize(nil); !errors.Is(err, movie.ErrMalformedFrame) {
		t.Fatalf("nil frame: expected ErrMalformedFrame, got %v", err)
	}
	if _, err := q.Quantize(image.NewGray(image.Rect(0, 0, 0, 0))); !errors.Is(err, movie.ErrMalformedFrame) {
		t.Fatalf("empty frame: expected ErrMalformedFrame, got %v", err)
	}
}
