package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/fnurl/hugo-utils/internal/config"
	"github.com/fnurl/hugo-utils/internal/pageindex"
)

func indexCmd() *cobra.Command {
	var (
		verbose   bool
		baseLevel string
		baseURL   string
		tagFields []string
	)
	cmd := &cobra.Command{
		Use:   "index <content dir>",
		Short: "Build a docsearch JSON index from Hugo markdown files",
		Long: "Produce a docsearch compatible index file (JSON) by examining all Hugo\n" +
			"markdown files in a directory and its sub-directories. The index is\n" +
			"written to stdout; diagnostics go to stderr.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			cfg := pageindex.Config{
				BaseLevel: baseLevel,
				BaseURL:   baseURL,
				TagFields: tagFields,
				Verbose:   verbose,
			}
			if !cmd.Flags().Changed("base-level") && fileCfg.Index.BaseLevel != "" {
				cfg.BaseLevel = fileCfg.Index.BaseLevel
			}
			if !cmd.Flags().Changed("base-url") && fileCfg.Index.BaseURL != "" {
				cfg.BaseURL = fileCfg.Index.BaseURL
			}
			if !cmd.Flags().Changed("tag") && len(fileCfg.Index.Tags) > 0 {
				cfg.TagFields = fileCfg.Index.Tags
			}

			return runIndex(args[0], cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().StringVarP(&baseLevel, "base-level", "b", config.DefaultBaseLevel, "Name of the base level in the index hierarchy")
	cmd.Flags().StringVarP(&baseURL, "base-url", "u", config.DefaultBaseURL, "Base URL to use in the index (no trailing slash)")
	cmd.Flags().StringArrayVarP(&tagFields, "tag", "t", nil, "Frontmatter field to aggregate into tags (repeatable)")
	return cmd
}

func runIndex(dir string, cfg pageindex.Config, out io.Writer) error {
	records, err := pageindex.Build(dir, cfg)
	if err != nil {
		return err
	}
	return pageindex.Encode(out, records)
}
