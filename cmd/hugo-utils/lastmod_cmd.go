package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fnurl/hugo-utils/internal/config"
	"github.com/fnurl/hugo-utils/internal/lastmod"
	"github.com/fnurl/hugo-utils/internal/watcher"
)

func lastmodCmd() *cobra.Command {
	var (
		verbose  bool
		debug    bool
		dryRun   bool
		output   string
		watchDir string
	)
	cmd := &cobra.Command{
		Use:   "lastmod [file]",
		Short: "Refresh the lastmod field in a markdown file's frontmatter",
		Long: "Replace the lastmod field inside a markdown file's YAML frontmatter with\n" +
			"the current local time, inserting one before the closing delimiter when\n" +
			"the field is missing. Reads the given file (rewriting it in place) or\n" +
			"stdin (writing to stdout) unless --output names a destination.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			opts := lastmod.Options{
				Field:   fileCfg.Lastmod.Field,
				Verbose: verbose,
				Debug:   debug,
				DryRun:  dryRun,
			}

			// Ctrl-C during the line loop gets a friendly acknowledgment
			// instead of a bare termination. The done channel releases the
			// goroutine on normal completion.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			defer signal.Stop(sigCh)
			done := make(chan struct{})
			defer close(done)
			go func() {
				select {
				case <-sigCh:
					fmt.Fprintf(os.Stderr, "\nctrl-c received.\n")
					os.Exit(0)
				case <-done:
				}
			}()

			if watchDir != "" {
				return watcher.Watch(watchDir, opts)
			}
			if len(args) == 1 {
				return opts.RewriteFile(args[0], output)
			}
			return opts.RewriteStream(cmd.InOrStdin(), cmd.OutOrStdout(), output)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Print every input line, quoted, to stderr")
	cmd.Flags().BoolVarP(&dryRun, "dryrun", "n", false, "Compute the rewrite but write nothing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write output to this file instead of the source")
	cmd.Flags().StringVarP(&watchDir, "watch", "w", "", "Watch this directory and rewrite changed markdown files")
	return cmd
}
