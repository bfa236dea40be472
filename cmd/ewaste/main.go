package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/ewaste/internal/config"
	"github.com/erazemk/ewaste/internal/logging"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	logPath    string
	logLevel   string

	loader *config.Loader
	cfg    config.Config
}

func main() {
	if err := newRootCmd(&globalOptions{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ewaste",
		Short: "Browse, post and claim donated electronics",
		Long: `ewaste lists donated electronic items, lets the user search them,
claim one after confirming, and post new ones.

The same session can be driven from a browser (serve) or a terminal (tui).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./ewaste.yaml or ~/.config/ewaste/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&opts.logPath, "log", "l", "", "log file path (default: no file)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newTUICmd(opts))

	return rootCmd
}

// load reads .env, the config file, the environment and the flags of cmd.
func (o *globalOptions) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	o.loader = config.NewLoader(o.configPath)

	root := cmd.Root().PersistentFlags()
	if err := o.loader.BindFlag("log.path", root.Lookup("log")); err != nil {
		return err
	}
	if err := o.loader.BindFlag("log.level", root.Lookup("log-level")); err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("addr"); f != nil {
		if err := o.loader.BindFlag("server.addr", f); err != nil {
			return err
		}
	}

	cfg, err := o.loader.Load()
	if err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// setupLogging installs the configured logger. quiet keeps records off the
// terminal.
func (o *globalOptions) setupLogging(quiet bool) (func(), error) {
	return logging.Setup(logging.Options{
		Path:  o.cfg.Log.Path,
		Level: o.cfg.Log.Level,
		Quiet: quiet,
	})
}
