package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/pairs/internal/config"
	"github.com/aretw0/pairs/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Pairs is a memory matching card game",
	Long: `Pairs deals a shuffled deck of emoji cards and asks you to find every matching pair.
Play it in the terminal, serve it to browsers over HTTP, or expose it to agents over MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands). Names map onto config keys
	// with dashes replaced by dots.
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./pairs.yaml or ~/.config/pairs/pairs.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("store-driver", config.DriverMemory, "Session store: memory, file or redis")
	flags.String("store-path", ".pairs/sessions", "Directory of the file store")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis store")
	flags.Bool("redis-lock", false, "Serialize sessions across replicas with Redis locks")
	flags.String("catalog-path", "", "YAML file or Markdown directory with extra environments")
	flags.String("nats-url", "", "Publish game events to this NATS server")
}

// loadConfig resolves the configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")

	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pairs"))
	}

	return config.Load(config.Options{
		ConfigFile:  file,
		SearchPaths: paths,
		DotEnv:      []string{".env"},
		Flags:       cmd.Flags(),
	})
}

// newLogger builds the stderr logger described by cfg.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format), nil
}
