// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-backup",
	Short: "A CLI tool to clone every repository of a GitHub user or organization.",
	Long: `github-backup clones all repositories owned by or associated with a GitHub
user or organization into a categorized directory layout:

  <target path>/<username>/{mine,fork,contributing,templates}/<repository>

Forks get an "upstream" remote pointing at their parent repository.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
