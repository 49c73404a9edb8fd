package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jordanwest/sitekeeper/internal/report"
	"github.com/jordanwest/sitekeeper/internal/store"
	"github.com/jordanwest/sitekeeper/internal/types"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check sitekeeper configuration and content layout health",
	Long: `Run health checks to diagnose common configuration and content layout
issues.

This command checks for:
- Config file existence and validity
- Content root and hub document accessibility
- Documentation directory contents
- Preview mappings pointing at existing sections
- State directory writability
- Report database accessibility

Exit codes:
  0 - All checks passed
  1 - One or more checks failed (but not critical)
  2 - Critical failures that prevent sitekeeper from running`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running sitekeeper health checks...\n\n")

		var failures []string
		var warnings []string

		// Check 1: Config file
		fmt.Printf("%s Configuration\n", cyan("→"))
		cfgPath := resolveConfigPath()
		cfg, err := loadConfig()
		if err != nil {
			fmt.Printf("  %s Cannot load config: %s\n", red("✗"), cfgPath)
			if verbose {
				fmt.Printf("    Error: %v\n", err)
			}
			fmt.Printf("\n%s Critical failures prevent sitekeeper from running\n", red("✗"))
			fmt.Println("  Run 'sitekeeper init' to create a starter config.")
			os.Exit(2)
		}
		fmt.Printf("  %s Config loaded: %s\n", green("✓"), cfgPath)

		// Check 2: Content root
		fmt.Printf("%s Content root\n", cyan("→"))
		if info, err := os.Stat(cfg.ContentRoot); err != nil || !info.IsDir() {
			fmt.Printf("  %s Content root missing: %s\n", red("✗"), cfg.ContentRoot)
			if verbose && err != nil {
				fmt.Printf("    Error: %v\n", err)
			}
			fmt.Printf("\n%s Critical failures prevent sitekeeper from running\n", red("✗"))
			os.Exit(2)
		}
		fmt.Printf("  %s Content root: %s\n", green("✓"), cfg.ContentRoot)

		// Check 3: Hub document
		fmt.Printf("%s Hub document\n", cyan("→"))
		hubPath := filepath.Join(cfg.ContentRoot, cfg.HubPath)
		if info, err := os.Stat(hubPath); err != nil {
			failures = append(failures, fmt.Sprintf("Hub document missing: %s", hubPath))
			fmt.Printf("  %s Hub document missing: %s\n", red("✗"), cfg.HubPath)
			if verbose {
				fmt.Printf("    Error: %v\n", err)
			}
		} else {
			fmt.Printf("  %s Hub document: %s (%d bytes)\n", green("✓"), cfg.HubPath, info.Size())
			if info.Size() == 0 {
				warnings = append(warnings, "Hub document is empty (0 bytes)")
				fmt.Printf("  %s WARNING: Hub document is empty\n", yellow("⚠"))
			}
		}

		// Check 4: Documentation directory
		fmt.Printf("%s Documentation directory\n", cyan("→"))
		fs, err := store.NewFSStore(cfg.ContentRoot, cfg.HubPath, cfg.DocsDir)
		var sections []*types.Document
		if err != nil {
			failures = append(failures, fmt.Sprintf("Cannot open content store: %v", err))
			fmt.Printf("  %s Cannot open content store\n", red("✗"))
			if verbose {
				fmt.Printf("    Error: %v\n", err)
			}
		} else {
			sections, err = fs.ListDocuments(context.Background(), types.RoleSection)
			if err != nil {
				failures = append(failures, fmt.Sprintf("Cannot list sections: %v", err))
				fmt.Printf("  %s Cannot list section documents\n", red("✗"))
				if verbose {
					fmt.Printf("    Error: %v\n", err)
				}
			} else if len(sections) == 0 {
				warnings = append(warnings, fmt.Sprintf("No section documents under %s", cfg.DocsDir))
				fmt.Printf("  %s WARNING: No section documents under %s\n", yellow("⚠"), cfg.DocsDir)
			} else {
				fmt.Printf("  %s %d section document(s) under %s\n", green("✓"), len(sections), cfg.DocsDir)
			}
		}

		// Check 5: Preview mappings
		fmt.Printf("%s Preview mappings\n", cyan("→"))
		if len(cfg.Previews) == 0 {
			fmt.Printf("  %s No preview mappings configured\n", green("✓"))
		} else {
			known := make(map[string]bool, len(sections))
			for _, doc := range sections {
				known[doc.ID] = true
			}
			missing := 0
			for _, m := range cfg.Previews {
				if !known[m.SourceID] {
					missing++
					failures = append(failures, fmt.Sprintf("Preview source does not exist: %s", m.SourceID))
					fmt.Printf("  %s Preview source does not exist: %s\n", red("✗"), m.SourceID)
				}
			}
			if missing == 0 {
				fmt.Printf("  %s %d preview mapping(s), all sources present\n", green("✓"), len(cfg.Previews))
			}
		}

		// Check 6: State directory
		fmt.Printf("%s State directory\n", cyan("→"))
		stateDir := filepath.Join(cfg.ContentRoot, cfg.StateDir)
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			failures = append(failures, fmt.Sprintf("Cannot create state directory: %v", err))
			fmt.Printf("  %s State directory not writable: %s\n", red("✗"), stateDir)
			if verbose {
				fmt.Printf("    Error: %v\n", err)
			}
		} else {
			probe := filepath.Join(stateDir, ".doctor-probe")
			if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
				failures = append(failures, fmt.Sprintf("State directory not writable: %v", err))
				fmt.Printf("  %s State directory not writable: %s\n", red("✗"), stateDir)
			} else {
				_ = os.Remove(probe)
				fmt.Printf("  %s State directory writable: %s\n", green("✓"), stateDir)
			}
		}

		// Check 7: Report database
		fmt.Printf("%s Report database\n", cyan("→"))
		if reports, err := report.New(cfg.ReportDB()); err != nil {
			failures = append(failures, fmt.Sprintf("Cannot open report database: %v", err))
			fmt.Printf("  %s Cannot open report database\n", red("✗"))
			if verbose {
				fmt.Printf("    Error: %v\n", err)
			}
		} else {
			if latest, err := reports.Latest(); err != nil {
				if errors.Is(err, report.ErrNoReports) {
					fmt.Printf("  %s Report database accessible (no runs yet)\n", green("✓"))
				} else {
					failures = append(failures, fmt.Sprintf("Cannot read report database: %v", err))
					fmt.Printf("  %s Cannot read report database\n", red("✗"))
				}
			} else {
				fmt.Printf("  %s Report database accessible (last run %s)\n",
					green("✓"), latest.StartedAt.Format("2006-01-02 15:04"))
			}
			_ = reports.Close()
		}

		// Summary
		fmt.Println()
		if len(failures) == 0 && len(warnings) == 0 {
			fmt.Printf("%s All checks passed\n", green("✓"))
			return
		}
		if len(warnings) > 0 {
			fmt.Printf("%s %d warning(s)\n", yellow("⚠"), len(warnings))
		}
		if len(failures) > 0 {
			fmt.Printf("%s %d check(s) failed\n", red("✗"), len(failures))
			os.Exit(1)
		}
	},
}

func init() {
	doctorCmd.Flags().BoolP("verbose", "v", false, "Show detailed error output")
	rootCmd.AddCommand(doctorCmd)
}
