package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "drillz",
	Short: "Adaptive practice drills for the AFQT subtests",
	Long: "drillz picks practice questions at the right difficulty, brings missed ones back " +
		"for review and estimates your AFQT readiness from your answers.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DRILLZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/drillz/config.yaml)")
	rootCmd.PersistentFlags().String("bank", "", "Path to a question bank YAML file (default: built-in bank)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then DRILLZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
