package rollout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// PhaseStore persists the rollout phase records as one JSON file,
// loaded and saved whole so a crash never leaves partially patched
// state.
type PhaseStore struct {
	path string
}

// NewPhaseStore creates a store over the given state file path.
func NewPhaseStore(path string) *PhaseStore {
	return &PhaseStore{path: path}
}

// Load reads all phases from disk, sorted by order. A missing file
// returns nil phases; callers seed the initial set.
func (s *PhaseStore) Load() ([]types.RolloutPhase, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading phase state: %w", err)
	}

	var phases []types.RolloutPhase
	if err := json.Unmarshal(data, &phases); err != nil {
		return nil, fmt.Errorf("parsing phase state: %w", err)
	}

	sort.Slice(phases, func(i, j int) bool {
		return phases[i].Order < phases[j].Order
	})
	return phases, nil
}

// Save writes the whole phase array atomically via temp file and rename.
func (s *PhaseStore) Save(phases []types.RolloutPhase) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(phases, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing phase state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing phase state: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up on error (best effort)
		return fmt.Errorf("committing phase state: %w", err)
	}

	return nil
}
