package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jordanwest/sitekeeper/internal/linkcheck"
	"github.com/jordanwest/sitekeeper/internal/maintenance"
	"github.com/jordanwest/sitekeeper/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run [daily|weekly|monthly]",
	Short: "Run a scheduled maintenance profile",
	Long: `Run the maintenance procedures for a schedule profile and persist the
aggregated report.

Weekly runs execute all daily procedures plus weekly-only ones; monthly
runs execute all weekly procedures plus monthly-only ones.

Examples:
  sitekeeper run           # daily profile
  sitekeeper run weekly
  sitekeeper run monthly`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		kind, err := types.ParseScheduleKind(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		app, err := buildApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		orchestrator, err := maintenance.NewOrchestrator(app.reports,
			&maintenance.LinkCheckProcedure{Store: app.store, Validator: linkcheck.NewValidator(nil)},
			&maintenance.PreviewSyncProcedure{Synchronizer: app.sync},
			&maintenance.RolloutAuditProcedure{Controller: app.rollout},
			&maintenance.ReportPruneProcedure{Reports: app.reports, RetentionDays: app.cfg.ReportRetentionDays},
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s Running %s maintenance...\n\n", cyan("▶"), kind)

		rep, err := orchestrator.Run(context.Background(), kind)
		if err != nil {
			// The run itself completed; only persisting the report failed.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		printReport(rep)

		if rep.HardFailures > 0 {
			os.Exit(1)
		}
	},
}

// printReport prints the per-procedure summary lines and final tally.
// Full detail lives only in the persisted report.
func printReport(rep *types.MaintenanceReport) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, proc := range rep.Procedures {
		if proc.Passed {
			fmt.Printf("  %s %s: %s\n", green("✓"), proc.Name, proc.Message)
		} else {
			fmt.Printf("  %s %s: %s\n", red("✗"), proc.Name, proc.Error)
		}
	}

	if len(rep.Recommendations) > 0 {
		fmt.Printf("\n%s\n", yellow("Recommendations:"))
		for _, rec := range rep.Recommendations {
			fmt.Printf("  [%s] %s\n", rec.Severity, rec.Message)
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("─", 60))
	passed := len(rep.Procedures) - rep.HardFailures
	if rep.HardFailures > 0 {
		fmt.Printf("%s %d/%d procedures passed\n", red("✗"), passed, len(rep.Procedures))
	} else {
		fmt.Printf("%s %d/%d procedures passed\n", green("✓"), passed, len(rep.Procedures))
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
