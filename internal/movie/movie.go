// Package movie holds the core cast data model shared by the encode and
// playback halves: the glyph palette, the container header, per-frame glyph
// grids, and the failure taxonomy.
package movie

// Grid is one frame quantized to glyph indexes, row-major, top to bottom.
// Every index lies in [0, charset.Size()-1]. A leniently decoded grid may
// carry a short final row; grids produced by the quantizer are always full.
type Grid [][]int

// Header describes geometry and timing for every frame in a container.
type Header struct {
	GridWidth  int
	GridHeight int
	FrameRate  int
	Charset    Charset
}

// Movie is a parsed container: header plus one encoded line per frame, in
// playback order. Frames are kept in their wire form; FrameRows slices them
// for display on demand.
type Movie struct {
	Header Header
	Frames []string
}

// FrameRows splits frame i into displayable rows using the grid stride. A
// truncated final row is returned at its available length rather than
// rejected.
func (m *Movie) FrameRows(i int) []string {
	runes := []rune(m.Frames[i])
	stride := m.Header.GridWidth + 1
	rows := make([]string, 0, m.Header.GridHeight)
	for start := 0; start < len(runes) && len(rows) < m.Header.GridHeight; start += stride {
		end := start + m.Header.GridWidth
		if end > len(runes) {
			end = len(runes)
		}
		rows = append(rows, string(runes[start:end]))
	}
	return rows
}
