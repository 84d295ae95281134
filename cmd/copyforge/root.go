package main

import (
	"github.com/spf13/cobra"

	"github.com/copyforge/copyforge/internal/api"
	"github.com/copyforge/copyforge/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "copyforge",
	Short: "Audience-aware assembly engine for marketing copy",
	Long: `Copyforge assembles marketing assets from a catalog of tagged copy
fragments, matched to a lead's awareness stage and psychographic tags.

The engine:
  - Classifies lead signals into a canonical avatar profile
  - Selects hooks, objections, proof points and offer lines per template
  - Renders the final asset with variable substitution

Selection is fully deterministic: identical inputs always produce
identical output.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.copyforge/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "copyforge home directory (default: ~/.copyforge)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "text", "output format: text, yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
