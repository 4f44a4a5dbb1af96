// archipelago - procedural islands in your terminal.
//
// Sail a boat around a generated archipelago while its inhabitants chase
// you along the shore. Subcommands export the islands as GLB, render a
// snapshot to PNG or print generation statistics.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/archipelago/pkg/config"
	"github.com/taigrr/archipelago/pkg/logging"
)

var version = "dev"

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	seed       uint64
	logLevel   string
}

// load reads the config file and applies flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.World.Seed = o.seed
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	play := newPlayCmd(opts)

	root := &cobra.Command{
		Use:   "archipelago",
		Short: "Procedural islands in your terminal",
		Long: `Generate an archipelago of procedural islands and sail around it.

Without a subcommand archipelago starts the terminal game.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         play.RunE,
	}
	root.Flags().AddFlagSet(play.Flags())

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "TOML settings file")
	pf.Uint64Var(&opts.seed, "seed", 0, "world seed (0 picks one from the clock)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		play,
		newExportCmd(opts),
		newSnapshotCmd(opts),
		newInspectCmd(opts),
	)
	return root
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}
