package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/jstyle/internal/shared"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "jstyle",
	Short: "jstyle lints JavaScript sources for style violations",
	Long: `jstyle checks JavaScript sources against a fixed set of style rules
plus any custom rule packs, and reports violations as text, JSON or
SARIF. Runs persist to SQLite so CI can diff them, and the bundled
HTTP API serves run history to a dashboard.

Exit codes: 0 clean, 1 error-severity style violations,
2 unusable input (bad path, bad config, file that fails to parse).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCodeError carries a specific process exit code out of a command
// after its deferred cleanups have run.
type exitCodeError struct{ code int }

func (e *exitCodeError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

const defaultConfigFile = "jstyle.yml"

// loadConfig resolves --config, falling back to ./jstyle.yml when that
// file exists.
func loadConfig() (shared.Config, error) {
	path := cfgPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	return shared.LoadConfig(path)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config (default ./jstyle.yml when present)")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(versionCmd)
}
