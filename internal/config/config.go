package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// Config describes the content repository layout, the preview mappings,
// the rollout phase seed, and where sitekeeper keeps its own state.
// Components receive their collaborators explicitly; nothing reads this
// from a global.
type Config struct {
	// ContentRoot is the content repository root directory.
	ContentRoot string `yaml:"content_root"`

	// HubPath is the hub document, relative to ContentRoot.
	HubPath string `yaml:"hub"`

	// DocsDir is the documentation root, relative to ContentRoot.
	DocsDir string `yaml:"docs_dir"`

	// StateDir holds sitekeeper's persisted state (preview cache,
	// phase state, report database), relative to ContentRoot.
	StateDir string `yaml:"state_dir"`

	// ReportRetentionDays bounds how long run history is kept.
	// Default: 90, Range: 1-730
	ReportRetentionDays int `yaml:"report_retention_days"`

	// Previews maps section documents to hub insertion points.
	Previews []types.PreviewMapping `yaml:"previews"`

	// Phases seeds the rollout phase state on first run.
	Phases []PhaseSeed `yaml:"phases"`
}

// PhaseSeed is the configuration shape of a rollout phase. Status and
// percentage are runtime state and live in the phase-state file, not
// here.
type PhaseSeed struct {
	Order        int      `yaml:"order"`
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities"`
}

// Default returns the default configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		ContentRoot:         dir,
		HubPath:             "index.html",
		DocsDir:             "docs",
		StateDir:            ".sitekeeper",
		ReportRetentionDays: 90,
	}
}

// Load reads the config file at path, applies environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default(filepath.Dir(path))
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Relative content roots are resolved against the config file's
	// directory so invocation cwd does not matter.
	if !filepath.IsAbs(cfg.ContentRoot) {
		cfg.ContentRoot = filepath.Join(filepath.Dir(path), cfg.ContentRoot)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("SITEKEEPER_CONTENT_ROOT"); v != "" {
		c.ContentRoot = v
	}
	if v := os.Getenv("SITEKEEPER_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("SITEKEEPER_REPORT_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.ReportRetentionDays = days
		}
	}
}

// Validate checks the configuration for values the components would
// reject later anyway.
func (c *Config) Validate() error {
	if c.ContentRoot == "" {
		return fmt.Errorf("content_root is required")
	}
	if c.HubPath == "" {
		return fmt.Errorf("hub is required")
	}
	if c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required")
	}
	if c.ReportRetentionDays < 1 || c.ReportRetentionDays > 730 {
		return fmt.Errorf("report_retention_days must be between 1 and 730 (got %d)", c.ReportRetentionDays)
	}

	seen := make(map[string]bool, len(c.Previews))
	for i := range c.Previews {
		if err := c.Previews[i].Validate(); err != nil {
			return fmt.Errorf("previews[%d]: %w", i, err)
		}
		if seen[c.Previews[i].InsertionPointID] {
			return fmt.Errorf("previews[%d]: duplicate insertion point %q", i, c.Previews[i].InsertionPointID)
		}
		seen[c.Previews[i].InsertionPointID] = true
	}

	for i, p := range c.Phases {
		if p.Order != i+1 {
			return fmt.Errorf("phases[%d]: expected order %d (got %d)", i, i+1, p.Order)
		}
		if p.Name == "" {
			return fmt.Errorf("phases[%d]: name is required", i)
		}
	}

	return nil
}

// SeedPhases converts the configured phase seeds into pending rollout
// phases for first-run state.
func (c *Config) SeedPhases() []types.RolloutPhase {
	phases := make([]types.RolloutPhase, 0, len(c.Phases))
	for _, p := range c.Phases {
		phases = append(phases, types.RolloutPhase{
			Order:        p.Order,
			Name:         p.Name,
			Capabilities: p.Capabilities,
			Status:       types.PhasePending,
		})
	}
	return phases
}

// CacheFile returns the preview cache path.
func (c *Config) CacheFile() string {
	return filepath.Join(c.ContentRoot, c.StateDir, "preview-cache.json")
}

// PhaseFile returns the rollout phase state path.
func (c *Config) PhaseFile() string {
	return filepath.Join(c.ContentRoot, c.StateDir, "phases.json")
}

// ReportDB returns the run history database path.
func (c *Config) ReportDB() string {
	return filepath.Join(c.ContentRoot, c.StateDir, "reports.db")
}
