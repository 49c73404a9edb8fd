package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jordanwest/sitekeeper/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter config into a content repository",
	Long: `Create a commented sitekeeper.yaml in the given directory (default:
current directory). The starter config assumes the directory is the
content root; edit the preview and phase sections to match your site.

Example:
  cd ~/docs-site
  sitekeeper init          # Creates ./sitekeeper.yaml
  sitekeeper init ~/site   # Creates ~/site/sitekeeper.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			fmt.Fprintf(os.Stderr, "Error: not a directory: %s\n", dir)
			os.Exit(1)
		}

		path := filepath.Join(dir, "sitekeeper.yaml")
		if err := config.WriteStarter(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created %s\n", green("✓"), path)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit the config to point at your hub and docs directory")
		fmt.Println("  2. Run 'sitekeeper doctor' to verify the layout")
		fmt.Println("  3. Run 'sitekeeper run' to execute the daily profile")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
