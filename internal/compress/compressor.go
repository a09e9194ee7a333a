// Package compress orchestrates the encode pipeline: read a bounded frame
// sequence from a video source, quantize frames concurrently while keeping
// their order, and write the cast container.
package compress

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"glyphcast/internal/container"
	"glyphcast/internal/logging"
	"glyphcast/internal/movie"
	"glyphcast/internal/quantize"
	"glyphcast/internal/video"
	"glyphcast/internal/workpool"
)

// Options configures one compressor. All values come validated from config
// and flags; construction re-checks the ones the pipeline depends on.
type Options struct {
	GridWidth    int
	GridHeight   int
	MaxFrames    int
	Workers      int
	FrameRateCap int
	Charset      movie.Charset
	Invert       bool
}

// Compressor drives the encode pipeline. Safe for reuse across runs.
type Compressor struct {
	opts      Options
	quantizer *quantize.Quantizer
	logger    *slog.Logger
}

// New validates options and builds the pipeline. The logger may be nil.
func New(opts Options, logger *slog.Logger) (*Compressor, error) {
	if opts.MaxFrames < 1 {
		return nil, movie.Wrap(movie.ErrInvalidConfig, "compress", "", "max frames must be at least 1", nil)
	}
	if opts.Workers < 1 {
		return nil, movie.Wrap(movie.ErrInvalidConfig, "compress", "", "worker count must be at least 1", nil)
	}
	if opts.FrameRateCap < 1 {
		return nil, movie.Wrap(movie.ErrInvalidConfig, "compress", "", "frame rate cap must be at least 1", nil)
	}

	var quantOpts []quantize.Option
	if opts.Invert {
		quantOpts = append(quantOpts, quantize.WithInvertedColors())
	}
	quantizer, err := quantize.New(opts.GridWidth, opts.GridHeight, opts.Charset, quantOpts...)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Compressor{opts: opts, quantizer: quantizer, logger: logger}, nil
}

// Run reads up to min(MaxFrames, source total) frames, quantizes them across
// the worker pool, and writes the container to out. A frame that fails
// quantization keeps its slot as a blank placeholder so the rest of the cast
// survives. The source is read sequentially on the calling goroutine; it is
// never shared across workers.
func (c *Compressor) Run(ctx context.Context, src video.Source, out io.Writer) (*movie.Movie, error) {
	log := c.logger.With("component", "compress", "run_id", uuid.NewString())

	rate := src.FrameRate()
	if rate < 1 {
		rate = 1
	}
	if rate > c.opts.FrameRateCap {
		rate = c.opts.FrameRateCap
	}
	total := src.FrameCount()
	if total > c.opts.MaxFrames {
		total = c.opts.MaxFrames
	}

	// The frame budget is capped, so buffering the whole sequence up front is
	// cheaper than coordinating reads with the pool.
	frames := make([]image.Image, 0, total)
	for len(frames) < total {
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The stream ends here either way; keep what was read.
			log.Warn("frame read failed, stopping early", "frame", len(frames), "error", err)
			break
		}
		frames = append(frames, frame)
	}
	log.Info("frames read", "count", len(frames), "rate", rate)

	results := workpool.Map(ctx, c.opts.Workers, frames, func(ctx context.Context, index int, frame image.Image) (movie.Grid, error) {
		return c.quantizer.Quantize(frame)
	})

	m := &movie.Movie{
		Header: movie.Header{
			GridWidth:  c.opts.GridWidth,
			GridHeight: c.opts.GridHeight,
			FrameRate:  rate,
			Charset:    c.opts.Charset,
		},
	}
	placeholders := 0
	for result := range results {
		grid := result.Value
		if result.Err != nil {
			log.Warn("quantize failed, writing placeholder", "frame", result.Index, "error", result.Err)
			grid = c.placeholderGrid()
			placeholders++
		}
		m.Frames = append(m.Frames, container.EncodeFrame(grid, c.opts.Charset))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := container.Write(out, m); err != nil {
		return nil, fmt.Errorf("write container: %w", err)
	}
	log.Info("compress complete", "frames", len(m.Frames), "placeholders", placeholders, "grid", fmt.Sprintf("%dx%d", c.opts.GridWidth, c.opts.GridHeight))
	return m, nil
}

// placeholderGrid stands in for a frame that could not be quantized: every
// cell maps to bucket zero.
func (c *Compressor) placeholderGrid() movie.Grid {
	grid := make(movie.Grid, c.opts.GridHeight)
	for y := range grid {
		grid[y] = make([]int, c.opts.GridWidth)
	}
	return grid
}

// File compresses inputPath into outputPath, holding an advisory lock beside
// the output so concurrent runs cannot interleave writes to the same cast.
func (c *Compressor) File(ctx context.Context, inputPath, outputPath string) (*movie.Movie, error) {
	src, err := video.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	lock := flock.New(outputPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output %s is locked by another run", outputPath)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	m, runErr := c.Run(ctx, src, out)
	if closeErr := out.Close(); runErr == nil && closeErr != nil {
		return nil, fmt.Errorf("close output: %w", closeErr)
	}
	if runErr != nil {
		return nil, runErr
	}
	return m, nil
}
