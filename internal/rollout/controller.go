package rollout

import (
	"errors"
	"fmt"
	"time"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// Precondition violations are returned as typed errors so an operator
// invoking a rollout operation sees an explicit rejection.
var (
	// ErrPhaseNotFound indicates no phase exists with the given order.
	ErrPhaseNotFound = errors.New("rollout phase not found")

	// ErrDependencyNotMet indicates the immediately preceding phase has
	// not been deployed yet.
	ErrDependencyNotMet = errors.New("preceding phase not deployed")

	// ErrInvalidPercentage indicates a rollout percentage outside [0,100].
	ErrInvalidPercentage = errors.New("rollout percentage must be between 0 and 100")

	// ErrPhaseNotDeployed indicates a percentage adjustment on a phase
	// that has never been deployed.
	ErrPhaseNotDeployed = errors.New("phase not deployed")
)

// Controller manages the ordered set of feature phases. Phases model an
// incremental-exposure deployment strategy: a feature expands to more of
// the audience only after its dependency is proven stable. The
// percentage is advisory state for whatever renders the hub; nothing
// here routes traffic.
type Controller struct {
	store *PhaseStore
	seed  []types.RolloutPhase
}

// NewController creates a controller. The seed phases are written on
// first use when no phase state file exists yet.
func NewController(store *PhaseStore, seed []types.RolloutPhase) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("phase store is required")
	}
	for i := range seed {
		if err := seed[i].Validate(); err != nil {
			return nil, fmt.Errorf("seed phase %d: %w", seed[i].Order, err)
		}
	}
	return &Controller{store: store, seed: seed}, nil
}

// load returns the persisted phases, seeding the state file when absent.
func (c *Controller) load() ([]types.RolloutPhase, error) {
	phases, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if phases == nil {
		phases = c.seed
		if len(phases) > 0 {
			if err := c.store.Save(phases); err != nil {
				return nil, fmt.Errorf("seeding phase state: %w", err)
			}
		}
	}
	return phases, nil
}

// Deploy transitions a phase to deployed. It fails with
// ErrDependencyNotMet when the immediately preceding phase is still
// pending; phase 1 has no predecessor. Deploying an already deployed
// phase is a no-op.
func (c *Controller) Deploy(order int) (*types.RolloutPhase, error) {
	phases, err := c.load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(phases, order)
	if idx < 0 {
		return nil, fmt.Errorf("%w: phase %d", ErrPhaseNotFound, order)
	}

	if prev := indexOf(phases, order-1); order > 1 {
		if prev < 0 || phases[prev].Status != types.PhaseDeployed {
			return nil, fmt.Errorf("%w: phase %d requires phase %d", ErrDependencyNotMet, order, order-1)
		}
	}

	if phases[idx].Status == types.PhaseDeployed {
		return &phases[idx], nil
	}

	now := time.Now()
	phases[idx].Status = types.PhaseDeployed
	phases[idx].DeployedAt = &now

	if err := c.store.Save(phases); err != nil {
		return nil, err
	}
	return &phases[idx], nil
}

// AdjustRollout updates a deployed phase's rollout percentage. The
// operation is idempotent and may be called repeatedly; it never changes
// the phase's status.
func (c *Controller) AdjustRollout(order, percentage int) (*types.RolloutPhase, error) {
	if percentage < 0 || percentage > 100 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidPercentage, percentage)
	}

	phases, err := c.load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(phases, order)
	if idx < 0 {
		return nil, fmt.Errorf("%w: phase %d", ErrPhaseNotFound, order)
	}
	if phases[idx].Status != types.PhaseDeployed {
		return nil, fmt.Errorf("%w: phase %d", ErrPhaseNotDeployed, order)
	}

	phases[idx].RolloutPercentage = percentage

	if err := c.store.Save(phases); err != nil {
		return nil, err
	}
	return &phases[idx], nil
}

// Status returns a read-only snapshot of every phase in order.
func (c *Controller) Status() ([]types.RolloutPhase, error) {
	return c.load()
}

func indexOf(phases []types.RolloutPhase, order int) int {
	for i := range phases {
		if phases[i].Order == order {
			return i
		}
	}
	return -1
}
