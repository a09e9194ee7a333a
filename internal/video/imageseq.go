package video

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Register still-image decoders for sequence frames.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"glyphcast/internal/movie"
)

// Image sequences carry no timing metadata; they already resemble the capped
// playback rate, so assume it.
const defaultSequenceRate = 5

var sequenceExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

type imageSequenceSource struct {
	paths []string
	next  int
}

// OpenImageSequence treats a directory of stills, sorted by file name, as a
// video. Frames are decoded lazily on each Next call.
func OpenImageSequence(dir string) (Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "open sequence", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if sequenceExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "open sequence", "no image files in "+dir, nil)
	}
	sort.Strings(paths)

	return &imageSequenceSource{paths: paths}, nil
}

func (s *imageSequenceSource) FrameRate() int {
	return defaultSequenceRate
}

func (s *imageSequenceSource) FrameCount() int {
	return len(s.paths)
}

func (s *imageSequenceSource) Next() (image.Image, error) {
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	f, err := os.Open(path)
	if err != nil {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "open frame", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "decode frame", path, err)
	}
	return img, nil
}

func (s *imageSequenceSource) Close() error {
	s.paths = nil
	return nil
}
