package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jordanwest/sitekeeper/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the latest maintenance report",
	Long: `Print the most recent persisted maintenance run, or with --list,
a one-line history of recent runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		listN, _ := cmd.Flags().GetInt("list")

		app, err := buildApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		if app.reports == nil {
			fmt.Fprintln(os.Stderr, "Error: report history is not available")
			os.Exit(1)
		}

		if cmd.Flags().Changed("list") {
			printRunHistory(app, listN)
			return
		}

		rep, err := app.reports.Latest()
		if err != nil {
			if errors.Is(err, report.ErrNoReports) {
				fmt.Println("No maintenance runs recorded yet. Run 'sitekeeper run' first.")
				return
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("Run %s  %s\n", rep.RunID, gray(rep.StartedAt.Format("2006-01-02 15:04:05")))
		printReport(rep)
	},
}

func printRunHistory(a *app, limit int) {
	runs, err := a.reports.List(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No maintenance runs recorded yet.")
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, r := range runs {
		status := green("✓")
		if r.HardFailures > 0 {
			status = red(fmt.Sprintf("✗ %d failed", r.HardFailures))
		}
		fmt.Printf("  %s  %-7s  %s  %s\n",
			gray(r.StartedAt.Format("2006-01-02 15:04")), r.Schedule, r.RunID, status)
	}
}

func init() {
	reportCmd.Flags().Int("list", 20, "List the N most recent runs instead of the latest report")
	rootCmd.AddCommand(reportCmd)
}
