package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"glyphcast/internal/container"
	"glyphcast/internal/player"
)

func newPlayCommand(app *appContext) *cobra.Command {
	var (
		loop      bool
		noCounter bool
		noWait    bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "play <cast>",
		Short: "Play a cast file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := app.ensureLogger()
			if err != nil {
				return err
			}

			cast, err := container.ReadFile(args[0])
			if err != nil {
				return err
			}

			stdout := os.Stdout
			tty := isatty.IsTerminal(stdout.Fd()) || isatty.IsCygwinTerminal(stdout.Fd())
			if !tty && !force {
				return errors.New("stdout is not a terminal; use --force to emit control sequences anyway")
			}
			if tty {
				if columns, rows, err := terminalSize(stdout.Fd()); err == nil {
					if cast.Header.GridWidth > columns || cast.Header.GridHeight+1 > rows {
						fmt.Fprintf(os.Stderr, "warning: cast is %dx%d but the terminal is %dx%d; frames may wrap\n",
							cast.Header.GridWidth, cast.Header.GridHeight, columns, rows)
					}
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			term := &player.Xterm{Writer: stdout}
			term.ShowCursor(false)
			defer term.ShowCursor(true)

			var gate player.Gate = &player.EnterGate{In: cmd.InOrStdin(), Out: os.Stderr}
			if noWait {
				gate = player.NopGate{}
			}

			p := player.New(player.Options{
				FrameCounter: cfg.Playback.FrameCounter && !noCounter,
				Loop:         cfg.Playback.Loop || loop,
			}, logger)
			return p.Play(ctx, cast, term, gate)
		},
	}

	cmd.Flags().BoolVar(&loop, "loop", false, "Restart playback after the last frame")
	cmd.Flags().BoolVar(&noCounter, "no-counter", false, "Hide the frame counter line")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Start immediately instead of waiting for enter")
	cmd.Flags().BoolVar(&force, "force", false, "Play even when stdout is not a terminal")

	return cmd
}
