// Package cli provides the reddwarf-sql command-line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

const (
	flagFile    = "file"
	flagDialect = "dialect"
	flagInline  = "inline"
	flagOutput  = "output"
	flagConfig  = "config"

	outputText = "text"
	outputJSON = "json"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reddwarf-sql",
		Short: "Render and run query descriptions against MySQL, ClickHouse or SQLite",
		Long: `reddwarf-sql turns YAML or JSON query descriptions into dialect-specific SQL.

Use "render" to inspect the statement a description produces and "exec" to run it
against the database configured in config.yaml or the environment.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewExecCommand())
	rootCmd.AddCommand(NewDialectsCommand())

	return rootCmd
}
