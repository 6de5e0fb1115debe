package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizbank",
	Short: "Practice question banks in the terminal",
	Long: "quizbank imports question-bank documents (.docx or plain text), " +
		"splits them into questions and lets you practice them until every one is answered.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides QUIZBANK_DB env var)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides QUIZBANK_LOG_LEVEL)")
	flags.String("log-file", "", "Append log lines to this file")
	flags.String("profile", "", "Parsing profile YAML (overrides QUIZBANK_PROFILE)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZBANK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// flagOrEnv returns the string flag name, falling back to the env variable.
func flagOrEnv(cmd *cobra.Command, name, env string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return os.Getenv(env)
}
