package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jordanwest/sitekeeper/internal/linkcheck"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Validate the cross-page link graph",
	Long: `Extract every cross-document reference, resolve each against the known
document set, and report broken links, orphaned sections, and parse
warnings. Exits non-zero when any link is broken.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		app, err := buildApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		docs, err := app.store.ListDocuments(context.Background(), "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		result := linkcheck.NewValidator(nil).Validate(docs)

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		fmt.Printf("%s %d resolvable reference(s)\n", green("✓"), len(result.Resolvable))
		if verbose {
			for _, ref := range result.Resolvable {
				fmt.Printf("    %s → %s\n", ref.SourceID, ref.TargetID)
			}
		}

		for _, ref := range result.Broken {
			fmt.Printf("%s %s → %s (anchor %q)\n", red("✗"), ref.SourceID, ref.TargetID, ref.AnchorText)
		}
		for _, id := range result.Orphaned {
			fmt.Printf("%s orphaned: %s\n", yellow("!"), id)
		}
		for _, w := range result.ParseWarnings {
			fmt.Printf("%s parse warning in %s: %s (%s)\n", yellow("!"), w.SourceID, w.Reason, w.Snippet)
		}

		if len(result.Broken) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	linksCmd.Flags().BoolP("verbose", "v", false, "List resolvable references too")
	rootCmd.AddCommand(linksCmd)
}
