package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"glyphcast/internal/catalog"
	"glyphcast/internal/compress"
	"glyphcast/internal/movie"
)

func newCompressCommand(app *appContext) *cobra.Command {
	var (
		outputPath string
		gridWidth  int
		gridHeight int
		maxFrames  int
		workers    int
		charset    string
		invert     bool
		noCatalog  bool
	)

	cmd := &cobra.Command{
		Use:   "compress <video>",
		Short: "Convert a video into a cast file",
		Long: `Compress reads a GIF, MJPEG stream, or directory of still images and
writes a cast file: a plain-text container of glyph frames replayable with
"glyphcast play".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := app.ensureLogger()
			if err != nil {
				return err
			}

			enc := cfg.Encode
			flags := cmd.Flags()
			if flags.Changed("width") {
				enc.GridWidth = gridWidth
			}
			if flags.Changed("height") {
				enc.GridHeight = gridHeight
			}
			if flags.Changed("frames") {
				enc.MaxFrames = maxFrames
			}
			if flags.Changed("workers") {
				enc.Workers = workers
			}
			if flags.Changed("charset") {
				enc.Charset = charset
			}
			if flags.Changed("invert") {
				enc.Invert = invert
			}

			glyphs, err := movie.NewCharset(enc.Charset)
			if err != nil {
				return fmt.Errorf("charset: %w", err)
			}

			compressor, err := compress.New(compress.Options{
				GridWidth:    enc.GridWidth,
				GridHeight:   enc.GridHeight,
				MaxFrames:    enc.MaxFrames,
				Workers:      enc.Workers,
				FrameRateCap: enc.FrameRateCap,
				Charset:      glyphs,
				Invert:       enc.Invert,
			}, logger)
			if err != nil {
				return err
			}

			input := args[0]
			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = defaultOutputPath(input)
			}

			cast, err := compressor.File(cmd.Context(), input, target)
			if err != nil {
				return err
			}

			if !noCatalog {
				if err := recordCast(cmd, cfg.Paths.CatalogPath, target, cast); err != nil {
					logger.Warn("catalog record failed", "error", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d frames, %dx%d grid, %d fps\n",
				target, len(cast.Frames), cast.Header.GridWidth, cast.Header.GridHeight, cast.Header.FrameRate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Cast file destination (default: input name with .cast)")
	cmd.Flags().IntVar(&gridWidth, "width", 0, "Glyph grid width")
	cmd.Flags().IntVar(&gridHeight, "height", 0, "Glyph grid height")
	cmd.Flags().IntVar(&maxFrames, "frames", 0, "Maximum frames to keep")
	cmd.Flags().IntVar(&workers, "workers", 0, "Quantization workers")
	cmd.Flags().StringVar(&charset, "charset", "", "Glyph palette, darkest to lightest")
	cmd.Flags().BoolVar(&invert, "invert", false, "Invert brightness before quantizing")
	cmd.Flags().BoolVar(&noCatalog, "no-catalog", false, "Skip recording the cast in the catalog")

	return cmd
}

func recordCast(cmd *cobra.Command, catalogPath, castPath string, cast *movie.Movie) error {
	store, err := catalog.Open(catalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	absolute, err := filepath.Abs(castPath)
	if err != nil {
		absolute = castPath
	}
	_, err = store.Record(cmd.Context(), catalog.Entry{
		Path:       absolute,
		GridWidth:  cast.Header.GridWidth,
		GridHeight: cast.Header.GridHeight,
		FrameRate:  cast.Header.FrameRate,
		FrameCount: len(cast.Frames),
		Charset:    cast.Header.Charset.String(),
	})
	return err
}
