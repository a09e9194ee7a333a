// Package container reads and writes the textual cast format: one header line
// `gridWidth,gridHeight,frameRate,charset` followed by one line per frame,
// each frame holding gridHeight rows of gridWidth glyphs terminated by the
// row delimiter.
package container

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"glyphcast/internal/movie"
)

// EncodeHeader renders the first container line.
func EncodeHeader(h movie.Header) string {
	return fmt.Sprintf("%d%c%d%c%d%c%s",
		h.GridWidth, movie.FieldSeparator,
		h.GridHeight, movie.FieldSeparator,
		h.FrameRate, movie.FieldSeparator,
		h.Charset)
}

// EncodeFrame renders one grid as a single container line. Indexes must
// already be clamped to the charset; the quantizer guarantees that.
func EncodeFrame(grid movie.Grid, charset movie.Charset) string {
	var sb strings.Builder
	for _, row := range grid {
		for _, idx := range row {
			sb.WriteRune(charset.Glyph(idx))
		}
		sb.WriteRune(movie.RowDelimiter)
	}
	return sb.String()
}

// Write streams a movie to w, header first, one frame per line.
func Write(w io.Writer, m *movie.Movie) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(EncodeHeader(m.Header)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, frame := range m.Frames {
		if _, err := bw.WriteString(frame); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// Decode parses full container contents. The first line is the header; every
// subsequent non-empty line is one frame. Structural violations fail with
// ErrMalformedHeader or ErrMalformedFrame, except that a truncated trailing
// row inside a frame is tolerated and read up to its available length.
func Decode(data []byte) (*movie.Movie, error) {
	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, movie.Wrap(movie.ErrMalformedHeader, "container", "decode", "missing header line", nil)
	}

	header, err := parseHeader(strings.TrimRight(lines[0], "\r"))
	if err != nil {
		return nil, err
	}

	m := &movie.Movie{Header: header}
	for _, raw := range lines[1:] {
		line := strings.TrimRight(raw, "\r")
		if line == "" {
			continue
		}
		if err := checkFrame(line, header, len(m.Frames)); err != nil {
			return nil, err
		}
		m.Frames = append(m.Frames, line)
	}
	return m, nil
}

// ReadFile loads and decodes a container from disk.
func ReadFile(path string) (*movie.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "container", "read", path, err)
	}
	return Decode(data)
}

func parseHeader(line string) (movie.Header, error) {
	fields := strings.SplitN(line, string(movie.FieldSeparator), 4)
	if len(fields) < 4 {
		return movie.Header{}, movie.Wrap(movie.ErrMalformedHeader, "container", "decode", fmt.Sprintf("expected 4 header fields, got %d", len(fields)), nil)
	}

	width, err := strconv.Atoi(fields[0])
	if err != nil {
		return movie.Header{}, movie.Wrap(movie.ErrMalformedHeader, "container", "decode", "grid width is not an integer", err)
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil {
		return movie.Header{}, movie.Wrap(movie.ErrMalformedHeader, "container", "decode", "grid height is not an integer", err)
	}
	rate, err := strconv.Atoi(fields[2])
	if err != nil {
		return movie.Header{}, movie.Wrap(movie.ErrMalformedHeader, "container", "decode", "frame rate is not an integer", err)
	}
	if width < 1 || height < 1 {
		return movie.Header{}, movie.Wrap(movie.ErrMalformedHeader, "container", "decode", fmt.Sprintf("grid %dx%d is not positive", width, height), nil)
	}
	if rate < 1 {
		return movie.Header{}, movie.Wrap(movie.ErrMalformedHeader, "container", "decode", fmt.Sprintf("frame rate %d is not positive", rate), nil)
	}

	charset, err := movie.NewCharset(fields[3])
	if err != nil {
		return movie.Header{}, movie.Wrap(movie.ErrMalformedHeader, "container", "decode", "header charset", err)
	}

	return movie.Header{GridWidth: width, GridHeight: height, FrameRate: rate, Charset: charset}, nil
}

// checkFrame validates one frame line against the header geometry. Full rows
// are gridWidth glyphs plus the delimiter; a final partial row with fewer
// glyphs (and no delimiter) is accepted, as are frames missing whole trailing
// rows.
func checkFrame(line string, h movie.Header, index int) error {
	runes := []rune(line)
	stride := h.GridWidth + 1
	if len(runes) > stride*h.GridHeight {
		return movie.Wrap(movie.ErrMalformedFrame, "container", "decode", fmt.Sprintf("frame %d: %d glyphs exceed %dx%d grid", index, len(runes), h.GridWidth, h.GridHeight), nil)
	}

	for pos, r := range runes {
		col := pos % stride
		if col == h.GridWidth {
			if r != movie.RowDelimiter {
				return movie.Wrap(movie.ErrMalformedFrame, "container", "decode", fmt.Sprintf("frame %d: missing row delimiter at position %d", index, pos), nil)
			}
			continue
		}
		if r == movie.RowDelimiter {
			return movie.Wrap(movie.ErrMalformedFrame, "container", "decode", fmt.Sprintf("frame %d: short row ends at position %d", index, pos), nil)
		}
		if _, ok := h.Charset.Index(r); !ok {
			return movie.Wrap(movie.ErrMalformedFrame, "container", "decode", fmt.Sprintf("frame %d: glyph %q is not in the charset", index, r), nil)
		}
	}
	return nil
}

// DecodeGrid converts one validated frame line back to glyph indexes. The
// final row may come back short when the line was truncated.
func DecodeGrid(line string, h movie.Header) (movie.Grid, error) {
	if err := checkFrame(line, h, 0); err != nil {
		return nil, err
	}
	runes := []rune(line)
	stride := h.GridWidth + 1
	var grid movie.Grid
	for start := 0; start < len(runes) && len(grid) < h.GridHeight; start += stride {
		end := start + h.GridWidth
		if end > len(runes) {
			end = len(runes)
		}
		row := make([]int, 0, h.GridWidth)
		for _, r := range runes[start:end] {
			idx, _ := h.Charset.Index(r)
			row = append(row, idx)
		}
		grid = append(grid, row)
	}
	return grid, nil
}
