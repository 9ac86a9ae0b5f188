// cmd/licenseid/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dsablic/licenseid/internal/config"
	"github.com/dsablic/licenseid/internal/engine"
)

func main() {
	os.Exit(licenseid())
}

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *slog.Logger
}

func licenseid() int {
	a := &app{}
	root := &cobra.Command{
		Use:           "licenseid",
		Short:         "Identify license texts against a corpus of known licenses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file (default "+config.FileName+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug messages to stderr")

	root.AddCommand(a.newBuildCmd())
	root.AddCommand(a.newIdentifyCmd())
	root.AddCommand(a.newScanCmd())
	root.AddCommand(a.newInspectCmd())
	root.AddCommand(a.newListCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "licenseid:", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("config loaded", "threshold", cfg.Threshold, "snapshot", cfg.Snapshot, "format", cfg.Format)
	return nil
}

// engine opens the corpus for a command: a directory of license texts given
// with --src, else the configured snapshot, else the builtin corpus.
func (a *app) engine(snapshotFlag, src string) (*engine.Engine, error) {
	if src != "" {
		store, err := buildStore(src)
		if err != nil {
			return nil, err
		}
		return engine.FromStore(store, engine.WithLogger(a.logger), engine.WithSource(src))
	}
	path := a.cfg.Snapshot
	if snapshotFlag != "" {
		path = snapshotFlag
	}
	if path == "" {
		a.logger.Debug("using builtin corpus")
		return engine.Builtin()
	}
	return engine.Open(path, engine.WithLogger(a.logger))
}

// flagOr returns the flag value when it was set on the command line and
// fallback otherwise.
func flagOr[T any](cmd *cobra.Command, name string, value, fallback T) T {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}
