package rollout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanwest/sitekeeper/internal/types"
)

func seedPhases() []types.RolloutPhase {
	return []types.RolloutPhase{
		{Order: 1, Name: "core-links", Capabilities: []string{"hub-links"}, Status: types.PhasePending},
		{Order: 2, Name: "previews", Capabilities: []string{"hub-previews"}, Status: types.PhasePending},
		{Order: 3, Name: "full-surface", Capabilities: []string{"hub-previews", "related-pages"}, Status: types.PhasePending},
	}
}

func newController(t *testing.T) (*Controller, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "phases.json")
	c, err := NewController(NewPhaseStore(path), seedPhases())
	require.NoError(t, err)
	return c, path
}

func TestController_SeedsStateOnFirstUse(t *testing.T) {
	c, path := newController(t)

	phases, err := c.Status()
	require.NoError(t, err)
	require.Len(t, phases, 3)
	assert.Equal(t, types.PhasePending, phases[0].Status)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestController_DeployRequiresPredecessor(t *testing.T) {
	c, _ := newController(t)

	_, err := c.Deploy(2)
	assert.ErrorIs(t, err, ErrDependencyNotMet)

	phase, err := c.Deploy(1)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseDeployed, phase.Status)
	require.NotNil(t, phase.DeployedAt)

	phase, err = c.Deploy(2)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseDeployed, phase.Status)
}

func TestController_DeployUnknownPhase(t *testing.T) {
	c, _ := newController(t)

	_, err := c.Deploy(9)
	assert.ErrorIs(t, err, ErrPhaseNotFound)
}

func TestController_DeployIsIdempotent(t *testing.T) {
	c, _ := newController(t)

	first, err := c.Deploy(1)
	require.NoError(t, err)

	second, err := c.Deploy(1)
	require.NoError(t, err)
	assert.Equal(t, first.DeployedAt.Unix(), second.DeployedAt.Unix())
}

func TestController_AdjustRollout(t *testing.T) {
	c, _ := newController(t)

	// Out-of-range percentage is rejected outright.
	_, err := c.AdjustRollout(1, 150)
	assert.ErrorIs(t, err, ErrInvalidPercentage)

	_, err = c.AdjustRollout(1, -1)
	assert.ErrorIs(t, err, ErrInvalidPercentage)

	// Never-deployed phase cannot be adjusted.
	_, err = c.AdjustRollout(1, 50)
	assert.ErrorIs(t, err, ErrPhaseNotDeployed)

	_, err = c.Deploy(1)
	require.NoError(t, err)

	phase, err := c.AdjustRollout(1, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, phase.RolloutPercentage)
	assert.Equal(t, types.PhaseDeployed, phase.Status)

	// Visible in a status snapshot.
	phases, err := c.Status()
	require.NoError(t, err)
	assert.Equal(t, 50, phases[0].RolloutPercentage)

	// Idempotent: repeat the same adjustment.
	phase, err = c.AdjustRollout(1, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, phase.RolloutPercentage)
}

func TestController_StatePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phases.json")

	c1, err := NewController(NewPhaseStore(path), seedPhases())
	require.NoError(t, err)
	_, err = c1.Deploy(1)
	require.NoError(t, err)
	_, err = c1.AdjustRollout(1, 25)
	require.NoError(t, err)

	c2, err := NewController(NewPhaseStore(path), seedPhases())
	require.NoError(t, err)
	phases, err := c2.Status()
	require.NoError(t, err)
	assert.Equal(t, types.PhaseDeployed, phases[0].Status)
	assert.Equal(t, 25, phases[0].RolloutPercentage)
	assert.Equal(t, types.PhasePending, phases[1].Status)
}

func TestNewController_RejectsInvalidSeed(t *testing.T) {
	dir := t.TempDir()
	bad := []types.RolloutPhase{{Order: 0, Name: "x", Status: types.PhasePending}}

	_, err := NewController(NewPhaseStore(filepath.Join(dir, "p.json")), bad)
	assert.Error(t, err)
}

func TestPhaseStore_LoadSortsByOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "phases.json")
	s := NewPhaseStore(path)

	unordered := []types.RolloutPhase{
		{Order: 3, Name: "c", Status: types.PhasePending},
		{Order: 1, Name: "a", Status: types.PhasePending},
		{Order: 2, Name: "b", Status: types.PhasePending},
	}
	require.NoError(t, s.Save(unordered))

	phases, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{phases[0].Order, phases[1].Order, phases[2].Order})
}
