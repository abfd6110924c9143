package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/jobboard-ai/internal/ai/prompt"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the supported prompt kinds",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s\n", app, version)
		for _, kind := range prompt.Kinds() {
			fmt.Printf("  prompt: %s\n", kind)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
