package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/erazemk/ewaste/internal/tui"
)

func newTUICmd(opts *globalOptions) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the marketplace in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI; records go to the log file only.
			closeLog, err := opts.setupLogging(true)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			opts.loader.Watch(a.apply)

			m, err := tui.New(ctx, a.ctrl, a.screen, tui.Options{MarkdownStyle: style})
			if err != nil {
				return err
			}
			return tui.Run(ctx, m)
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "markdown style for tips (dark, light, notty; default: detect)")
	return cmd
}
