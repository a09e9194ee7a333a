package video

import (
	"bufio"
	"bytes"
	"image"
	"image/jpeg"
	"io"
	"os"

	"glyphcast/internal/movie"
)

// Raw MJPEG carries no timing metadata; assume a common camera rate.
const defaultMJPEGRate = 25

type mjpegSource struct {
	file   *os.File
	reader *bufio.Reader
}

// OpenMJPEG streams a raw concatenated-JPEG file. Frames are split on the
// JPEG end-of-image marker (0xff 0xd9) and decoded one at a time; the total
// frame count is unknown until the stream ends.
func OpenMJPEG(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "open mjpeg", path, err)
	}
	return &mjpegSource{file: f, reader: bufio.NewReader(f)}, nil
}

func (s *mjpegSource) FrameRate() int {
	return defaultMJPEGRate
}

func (s *mjpegSource) FrameCount() int {
	return UnknownFrameCount
}

func (s *mjpegSource) Next() (image.Image, error) {
	var buf bytes.Buffer
	for {
		b, err := s.reader.ReadByte()
		if err == io.EOF {
			// A partial trailing frame is dropped, matching the best-effort
			// nature of the format.
			return nil, io.EOF
		}
		if err != nil {
			return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "read mjpeg", s.file.Name(), err)
		}
		buf.WriteByte(b)
		if buf.Len() > 1 {
			data := buf.Bytes()
			if data[len(data)-2] == 0xff && data[len(data)-1] == 0xd9 {
				img, err := jpeg.Decode(&buf)
				if err != nil {
					return nil, movie.Wrap(movie.ErrSourceUnavailable, "video", "decode mjpeg frame", s.file.Name(), err)
				}
				return img, nil
			}
		}
	}
}

func (s *mjpegSource) Close() error {
	return s.file.Close()
}
