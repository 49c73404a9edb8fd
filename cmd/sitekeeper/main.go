package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordanwest/sitekeeper/internal/config"
	"github.com/jordanwest/sitekeeper/internal/preview"
	"github.com/jordanwest/sitekeeper/internal/report"
	"github.com/jordanwest/sitekeeper/internal/rollout"
	"github.com/jordanwest/sitekeeper/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sitekeeper",
	Short: "Content synchronization and rollout maintenance for a documentation site",
	Long: `sitekeeper keeps a documentation site's hub page consistent with its
section pages: it validates the cross-page link graph, regenerates
content previews when their sources change, and gates feature rollout
phases behind their dependencies.

It is designed to be invoked periodically by an external scheduler and
exit; a non-zero exit code signals the run needs attention.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default sitekeeper.yaml, or $SITEKEEPER_CONFIG)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfigPath picks the config file from the flag, the
// environment, or the default name in the working directory.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("SITEKEEPER_CONFIG"); env != "" {
		return env
	}
	return "sitekeeper.yaml"
}

func loadConfig() (*config.Config, error) {
	return config.Load(resolveConfigPath())
}

// app bundles the wired components the subcommands share.
type app struct {
	cfg     *config.Config
	store   *store.FSStore
	cache   *preview.Cache
	sync    *preview.Synchronizer
	rollout *rollout.Controller
	reports *report.Store
}

// buildApp loads the config and wires every component. The subcommands
// that need only a slice of the system still go through here; the
// construction is cheap and keeps the wiring in one place.
func buildApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	fs, err := store.NewFSStore(cfg.ContentRoot, cfg.HubPath, cfg.DocsDir)
	if err != nil {
		return nil, err
	}

	cache, err := preview.LoadCache(cfg.CacheFile())
	if err != nil {
		return nil, err
	}

	sync, err := preview.NewSynchronizer(fs, cache, fs.HubID(), cfg.Previews)
	if err != nil {
		return nil, err
	}

	ctrl, err := rollout.NewController(rollout.NewPhaseStore(cfg.PhaseFile()), cfg.SeedPhases())
	if err != nil {
		return nil, err
	}

	reports, err := report.New(cfg.ReportDB())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		store:   fs,
		cache:   cache,
		sync:    sync,
		rollout: ctrl,
		reports: reports,
	}, nil
}

// Close releases the report database handle.
func (a *app) Close() {
	if a.reports != nil {
		_ = a.reports.Close()
	}
}
