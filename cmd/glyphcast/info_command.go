package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"glyphcast/internal/container"
)

func newInfoCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <cast>",
		Short: "Describe a cast file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cast, err := container.ReadFile(args[0])
			if err != nil {
				return err
			}

			h := cast.Header
			duration := time.Duration(len(cast.Frames)) * time.Second / time.Duration(h.FrameRate)
			rows := [][]string{
				{"Path", args[0]},
				{"Grid", fmt.Sprintf("%dx%d", h.GridWidth, h.GridHeight)},
				{"Frame rate", fmt.Sprintf("%d fps", h.FrameRate)},
				{"Frames", strconv.Itoa(len(cast.Frames))},
				{"Duration", duration.Round(100 * time.Millisecond).String()},
				{"Glyphs", strconv.Itoa(h.Charset.Size())},
				{"Palette", h.Charset.String()},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}
