// Package main is the entrypoint for the hugo-utils CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// configPath is the --config persistent flag value.
var configPath string

func main() {
	root := &cobra.Command{
		Use:   "hugo-utils",
		Short: "Utilities for Hugo documentation sites",
		Long:  "hugo-utils — docsearch page indexing and frontmatter upkeep for Hugo content trees.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(indexCmd())
	root.AddCommand(lastmodCmd())
	root.AddCommand(versionCmd())

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to hugo-utils.toml (default: ./hugo-utils.toml if present)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hugo-utils version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hugo-utils %s\n", Version)
			return nil
		},
	}
}
