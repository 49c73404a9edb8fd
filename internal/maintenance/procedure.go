package maintenance

import (
	"context"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// Procedure is one unit of scheduled maintenance work. Procedures
// collect findings; the orchestrator aggregates them and derives
// recommendations.
type Procedure interface {
	// Name returns the unique identifier for this procedure.
	Name() string

	// Schedule returns the least frequent schedule kind that includes
	// this procedure. Weekly and monthly runs execute everything a
	// daily run does, plus their own procedures.
	Schedule() types.ScheduleKind

	// Run executes the procedure. A returned error marks the procedure
	// failed in the report but never aborts the rest of the run.
	Run(ctx context.Context) (*Result, error)
}

// Result carries a procedure's findings into the aggregated report.
// Only the fields a given procedure produces are set.
type Result struct {
	// Message is the one-line summary shown per procedure.
	Message string

	// Validation is set by the link check procedure.
	Validation *types.ValidationResult

	// Sync is set by the preview sync procedure.
	Sync *types.SyncStats

	// Rollout is set by the rollout audit procedure.
	Rollout []types.RolloutPhase
}
