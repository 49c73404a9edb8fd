package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Regenerate stale hub previews",
	Long: `Rebuild the hub previews whose source sections changed since the last
sync, as detected by the persisted fingerprint cache.

With --dry-run, reports what would be rewritten without touching the
hub or the cache.`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		app, err := buildApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		stats, err := app.sync.SyncAll(context.Background(), dryRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		if dryRun {
			fmt.Printf("%s Dry run: %d preview(s) would be rewritten\n", yellow("ⓘ"), stats.Updated)
		} else {
			fmt.Printf("%s %d updated\n", green("✓"), stats.Updated)
		}
		fmt.Printf("%s %d skipped (up to date)\n", gray("○"), stats.Skipped)
		if stats.Failed > 0 {
			fmt.Printf("%s %d failed (retried next run)\n", yellow("!"), stats.Failed)
			os.Exit(1)
		}
	},
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "Report stale previews without rewriting")
	rootCmd.AddCommand(syncCmd)
}
