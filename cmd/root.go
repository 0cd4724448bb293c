package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"sproutmath/internal/app"
	"sproutmath/internal/config"
	"sproutmath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sproutmath",
	Short: "Math practice for young learners",
	Long:  "SproutMath — adaptive math practice sessions for children aged 3-7: arithmetic, time, patterns and shapes.",
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the CLI with a cancellable context so an interrupt
// aborts the active session cleanly.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SPROUTMATH_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("backend", "", "Postgres DSN for the sync backend (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the config file and applies flag overrides on top of
// the env/file layers.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if dsn, _ := cmd.Flags().GetString("backend"); dsn != "" {
		cfg.BackendDSN = dsn
	}
	return cfg, nil
}

// buildEngine assembles the engine for a command invocation.
func buildEngine(ctx context.Context, cmd *cobra.Command) (*app.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then SPROUTMATH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
