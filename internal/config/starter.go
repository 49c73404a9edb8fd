package config

import (
	"fmt"
	"os"
)

// starterConfig is written by `sitekeeper init` as a commented template.
const starterConfig = `# sitekeeper configuration
content_root: .
hub: index.html
docs_dir: docs
state_dir: .sitekeeper
report_retention_days: 90

# Map section documents to hub insertion points.
# previews:
#   - source: docs/install
#     insertion_point: install-preview
#     max_length: 280
#     link_text: Install guide

# Ordered feature phases; phase N deploys only after phase N-1.
# phases:
#   - order: 1
#     name: core-links
#     capabilities: [hub-links]
#   - order: 2
#     name: previews
#     capabilities: [hub-previews]
`

// WriteStarter writes the starter config to path. Fails if a file
// already exists there.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0644); err != nil {
		return fmt.Errorf("writing starter config: %w", err)
	}
	return nil
}
