package movie

import (
	"fmt"

	"golang.org/x/text/width"
)

// RowDelimiter terminates every row inside an encoded frame line. It must not
// collide with any charset glyph.
const RowDelimiter = '|'

// FieldSeparator splits the four fields of the container header line.
const FieldSeparator = ','

// DefaultGlyphs is the built-in palette, densest glyph first.
const DefaultGlyphs = "█▓▒░■◆◇●◐◑◒◓◔◕"

// Charset is an ordered glyph palette. Index i stands for luminance bucket i
// of Size() buckets; the ordering convention is dense to sparse (or the
// reverse), chosen by the caller and assumed by the viewer. A Charset is
// immutable and safe to share across goroutines.
type Charset struct {
	glyphs  []rune
	indexes map[rune]int
}

// NewCharset validates glyphs and builds a palette. At least two glyphs are
// required; the field separator, the row delimiter, and East Asian wide runes
// (which would break column alignment of the rendered grid) are rejected.
func NewCharset(glyphs string) (Charset, error) {
	runes := []rune(glyphs)
	if len(runes) < 2 {
		return Charset{}, Wrap(ErrInvalidConfig, "charset", "", fmt.Sprintf("need at least 2 glyphs, got %d", len(runes)), nil)
	}
	indexes := make(map[rune]int, len(runes))
	for i, r := range runes {
		switch r {
		case FieldSeparator:
			return Charset{}, Wrap(ErrInvalidConfig, "charset", "", "glyphs must not contain the header separator ','", nil)
		case RowDelimiter:
			return Charset{}, Wrap(ErrInvalidConfig, "charset", "", "glyphs must not contain the row delimiter '|'", nil)
		case '\n', '\r':
			return Charset{}, Wrap(ErrInvalidConfig, "charset", "", "glyphs must not contain line breaks", nil)
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			return Charset{}, Wrap(ErrInvalidConfig, "charset", "", fmt.Sprintf("glyph %q is double-width", r), nil)
		}
		// Duplicates are allowed; the first occurrence wins on decode.
		if _, ok := indexes[r]; !ok {
			indexes[r] = i
		}
	}
	return Charset{glyphs: runes, indexes: indexes}, nil
}

// Size reports the number of luminance buckets.
func (c Charset) Size() int {
	return len(c.glyphs)
}

// Glyph returns the glyph for bucket i. Callers must clamp first; an
// out-of-range index is a programming error and panics.
func (c Charset) Glyph(i int) rune {
	return c.glyphs[i]
}

// Index reports the bucket a glyph belongs to, or false for foreign runes.
func (c Charset) Index(r rune) (int, bool) {
	i, ok := c.indexes[r]
	return i, ok
}

func (c Charset) String() string {
	return string(c.glyphs)
}
