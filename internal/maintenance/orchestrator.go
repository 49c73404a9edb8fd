package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jordanwest/sitekeeper/internal/report"
	"github.com/jordanwest/sitekeeper/internal/types"
)

// Orchestrator composes maintenance procedures into scheduled run
// profiles and aggregates their findings into one report per run.
//
// Procedures are logically independent and run concurrently; each owns
// a distinct persisted artifact, so no locking discipline is needed
// beyond the atomic whole-file writes the stores already do.
type Orchestrator struct {
	procedures []Procedure
	reports    *report.Store
}

// NewOrchestrator creates an orchestrator over the given procedures.
// The report store may be nil, in which case reports are returned but
// not persisted.
func NewOrchestrator(reports *report.Store, procedures ...Procedure) (*Orchestrator, error) {
	seen := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		if seen[p.Name()] {
			return nil, fmt.Errorf("procedure %q registered twice", p.Name())
		}
		seen[p.Name()] = true
	}

	return &Orchestrator{procedures: procedures, reports: reports}, nil
}

// Run executes every procedure the schedule kind includes and returns
// the aggregated report. A failing procedure is recorded with its error
// and does not abort the remaining procedures; the run's overall result
// shows up only in the report's hard-failure count.
func (o *Orchestrator) Run(ctx context.Context, kind types.ScheduleKind) (*types.MaintenanceReport, error) {
	started := time.Now()

	var selected []Procedure
	for _, p := range o.procedures {
		if kind.Includes(p.Schedule()) {
			selected = append(selected, p)
		}
	}

	type outcome struct {
		result   *Result
		err      error
		duration time.Duration
	}
	outcomes := make([]outcome, len(selected))

	var g errgroup.Group
	for i, p := range selected {
		i, p := i, p
		g.Go(func() error {
			procStart := time.Now()
			result, err := p.Run(ctx)
			outcomes[i] = outcome{result: result, err: err, duration: time.Since(procStart)}
			return nil
		})
	}
	_ = g.Wait() // Procedure errors are captured per outcome, never propagated.

	rep := &types.MaintenanceReport{
		RunID:     uuid.New().String(),
		Schedule:  kind,
		StartedAt: started,
	}

	for i, p := range selected {
		out := outcomes[i]

		proc := types.ProcedureResult{
			Name:     p.Name(),
			Passed:   out.err == nil,
			Duration: out.duration,
		}
		if out.result != nil {
			proc.Message = out.result.Message
			if out.result.Validation != nil {
				rep.Validation = out.result.Validation
			}
			if out.result.Sync != nil {
				rep.Sync = out.result.Sync
			}
			if out.result.Rollout != nil {
				rep.Rollout = out.result.Rollout
			}
		}
		if out.err != nil {
			proc.Error = out.err.Error()
			rep.HardFailures++
		}

		rep.Procedures = append(rep.Procedures, proc)
	}

	rep.Recommendations = Recommend(rep.Validation, rep.Sync, rep.Rollout)
	rep.FinishedAt = time.Now()

	if o.reports != nil {
		if err := o.reports.Save(rep); err != nil {
			return rep, fmt.Errorf("persisting report: %w", err)
		}
	}

	return rep, nil
}
