package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jordanwest/sitekeeper/internal/rollout"
	"github.com/jordanwest/sitekeeper/internal/types"
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout",
	Short: "Inspect and advance phased feature rollouts",
	Long: `Manage the ordered feature phases. Each phase can only be deployed
once its predecessor is deployed, and its rollout percentage can only
be adjusted after deployment.`,
}

var rolloutStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every phase and its rollout state",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		phases, err := app.rollout.Status()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(phases) == 0 {
			fmt.Println("No rollout phases configured.")
			return
		}
		printPhases(phases)
	},
}

var rolloutDeployCmd = &cobra.Command{
	Use:   "deploy <phase>",
	Short: "Deploy a phase (predecessor must already be deployed)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		order, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: phase must be a number, got %q\n", args[0])
			os.Exit(1)
		}

		app, err := buildApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		phase, err := app.rollout.Deploy(order)
		if err != nil {
			printRolloutError(err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Phase %d (%s) deployed at %d%%\n",
			green("✓"), phase.Order, phase.Name, phase.RolloutPercentage)
	},
}

var rolloutAdjustCmd = &cobra.Command{
	Use:   "adjust <phase> <percentage>",
	Short: "Set the rollout percentage of a deployed phase",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		order, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: phase must be a number, got %q\n", args[0])
			os.Exit(1)
		}
		pct, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: percentage must be a number, got %q\n", args[1])
			os.Exit(1)
		}

		app, err := buildApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer app.Close()

		phase, err := app.rollout.AdjustRollout(order, pct)
		if err != nil {
			printRolloutError(err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Phase %d (%s) now at %d%%\n",
			green("✓"), phase.Order, phase.Name, phase.RolloutPercentage)
	},
}

// printRolloutError gives precondition violations a friendlier shape
// than the raw wrapped error while keeping anything unexpected intact.
func printRolloutError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	switch {
	case errors.Is(err, rollout.ErrPhaseNotFound):
		fmt.Fprintf(os.Stderr, "%s %v\n", red("✗"), err)
		fmt.Fprintln(os.Stderr, "  Run 'sitekeeper rollout status' to list configured phases.")
	case errors.Is(err, rollout.ErrDependencyNotMet):
		fmt.Fprintf(os.Stderr, "%s %v\n", red("✗"), err)
		fmt.Fprintln(os.Stderr, "  Deploy the preceding phase first.")
	case errors.Is(err, rollout.ErrPhaseNotDeployed):
		fmt.Fprintf(os.Stderr, "%s %v\n", red("✗"), err)
		fmt.Fprintln(os.Stderr, "  Percentages only apply to deployed phases; deploy it first.")
	case errors.Is(err, rollout.ErrInvalidPercentage):
		fmt.Fprintf(os.Stderr, "%s %v\n", red("✗"), err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func printPhases(phases []types.RolloutPhase) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, p := range phases {
		marker := yellow("○ pending ")
		if p.Status == types.PhaseDeployed {
			marker = green("● deployed")
		}
		fmt.Printf("  %s  %d. %-20s %3d%%", marker, p.Order, p.Name, p.RolloutPercentage)
		if p.DeployedAt != nil {
			fmt.Printf("  %s", gray(p.DeployedAt.Format("2006-01-02 15:04")))
		}
		fmt.Println()
		if len(p.Capabilities) > 0 {
			fmt.Printf("              %s\n", gray(strings.Join(p.Capabilities, ", ")))
		}
	}
}

func init() {
	rolloutCmd.AddCommand(rolloutStatusCmd)
	rolloutCmd.AddCommand(rolloutDeployCmd)
	rolloutCmd.AddCommand(rolloutAdjustCmd)
	rootCmd.AddCommand(rolloutCmd)
}
