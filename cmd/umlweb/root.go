package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/umlweb/internal/cli"
	"github.com/aretw0/umlweb/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "umlweb",
	Short: "umlweb is a UML use case editor backend",
	Long: `umlweb keeps a project of actors, use cases and their scenarios in a
pluggable store, and imports and exports it as umlweb XML documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: umlweb.yaml, umlweb.yml or umlweb.toml in the current directory)")
	flags.String("driver", "", "Storage driver: memory, file, redis, sqlite or postgres")
	flags.String("path", "", "Directory used by the file driver")
	flags.String("key", "", "Key the project is stored under")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.Bool("pretty", false, "Colourful logs for interactive terminals")
}

// loadConfig resolves the configuration: defaults, file, environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Discover(".")
	}
	cfg, err := config.Load(path, nil)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Storage.Driver, _ = flags.GetString("driver")
	}
	if flags.Changed("path") {
		cfg.Storage.Path, _ = flags.GetString("path")
	}
	if flags.Changed("key") {
		cfg.Storage.Key, _ = flags.GetString("key")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("pretty") {
		cfg.Log.Pretty, _ = flags.GetBool("pretty")
	}
	return cfg, config.Validate(cfg)
}

// openApp opens the configured project. Logs go to Stderr so Stdout can carry documents.
func openApp(ctx context.Context, cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.Open(ctx, cfg, os.Stderr)
}
