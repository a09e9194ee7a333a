package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"glyphcast/internal/catalog"
)

func newListCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List casts recorded in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			store, err := catalog.Open(cfg.Paths.CatalogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No casts recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Path,
					fmt.Sprintf("%dx%d", entry.GridWidth, entry.GridHeight),
					strconv.Itoa(entry.FrameRate),
					strconv.Itoa(entry.FrameCount),
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Path", "Grid", "FPS", "Frames", "Created"}, rows, 2, 3))
			return nil
		},
	}
}
