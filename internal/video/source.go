// Package video adapts container formats on disk to a uniform raw-frame
// stream the compressor can consume. Decoding is intentionally shallow: each
// source yields full pixel frames and reports whatever native timing its
// format carries.
package video

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"glyphcast/internal/movie"
)

// UnknownFrameCount is reported by streaming formats that do not declare a
// frame total up front. It is large enough that min(maxFrames, total) still
// behaves.
const UnknownFrameCount = math.MaxInt

// Source yields raw pixel frames from a video container. Implementations are
// not safe for concurrent use; callers read sequentially. Frames are handed
// off by value and never retained by the source.
type Source interface {
	// FrameRate reports the native frame rate in frames per second, at least 1.
	FrameRate() int
	// FrameCount reports the declared frame total, or UnknownFrameCount.
	FrameCount() int
	// Next returns the next frame, or io.EOF once the stream ends.
	Next() (image.Image, error)
	Close() error
}

// Open selects a source implementation for path. Directories are treated as
// image sequences; files dispatch on extension.
func Open(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "open", path, err)
	}
	if info.IsDir() {
		return OpenImageSequence(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return OpenGIF(path)
	case ".mjpeg", ".mjpg":
		return OpenMJPEG(path)
	default:
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "open", "unsupported format "+filepath.Ext(path), nil)
	}
}
