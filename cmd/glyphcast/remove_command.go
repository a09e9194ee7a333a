package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"glyphcast/internal/catalog"
)

func newRemoveCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <cast>",
		Short: "Drop a cast from the catalog",
		Long:  "Remove deletes the catalog entry for a cast path. The cast file itself is left in place.",
		Args:  cobra.ExactArgs(1),
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

			path := args[0]
			if absolute, err := filepath.Abs(path); err == nil {
				path = absolute
			}
			removed, err := store.Remove(cmd.Context(), path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !removed {
				fmt.Fprintf(out, "No catalog entry for %s\n", path)
				return nil
			}
			fmt.Fprintf(out, "Removed %s from the catalog\n", path)
			return nil
		},
	}
}
