package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/jordanwest/sitekeeper/internal/linkcheck"
	"github.com/jordanwest/sitekeeper/internal/preview"
	"github.com/jordanwest/sitekeeper/internal/report"
	"github.com/jordanwest/sitekeeper/internal/rollout"
	"github.com/jordanwest/sitekeeper/internal/store"
	"github.com/jordanwest/sitekeeper/internal/types"
)

// LinkCheckProcedure validates the cross-document link graph every run.
type LinkCheckProcedure struct {
	Store     store.ContentStore
	Validator *linkcheck.Validator
}

// Name implements Procedure.
func (p *LinkCheckProcedure) Name() string { return "link_check" }

// Schedule implements Procedure.
func (p *LinkCheckProcedure) Schedule() types.ScheduleKind { return types.ScheduleDaily }

// Run implements Procedure.
func (p *LinkCheckProcedure) Run(ctx context.Context) (*Result, error) {
	docs, err := p.Store.ListDocuments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	result := p.Validator.Validate(docs)
	return &Result{
		Message: fmt.Sprintf("%d resolvable, %d broken, %d orphaned, %d parse warnings",
			len(result.Resolvable), len(result.Broken), len(result.Orphaned), len(result.ParseWarnings)),
		Validation: result,
	}, nil
}

// PreviewSyncProcedure regenerates stale hub previews every run.
type PreviewSyncProcedure struct {
	Synchronizer *preview.Synchronizer
}

// Name implements Procedure.
func (p *PreviewSyncProcedure) Name() string { return "preview_sync" }

// Schedule implements Procedure.
func (p *PreviewSyncProcedure) Schedule() types.ScheduleKind { return types.ScheduleDaily }

// Run implements Procedure.
func (p *PreviewSyncProcedure) Run(ctx context.Context) (*Result, error) {
	stats, err := p.Synchronizer.SyncAll(ctx, false)

	res := &Result{
		Message: fmt.Sprintf("%d updated, %d skipped, %d failed",
			stats.Updated, stats.Skipped, stats.Failed),
		Sync: stats,
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

// RolloutAuditProcedure snapshots rollout state weekly and checks the
// dependency invariant still holds in the persisted records.
type RolloutAuditProcedure struct {
	Controller *rollout.Controller
}

// Name implements Procedure.
func (p *RolloutAuditProcedure) Name() string { return "rollout_audit" }

// Schedule implements Procedure.
func (p *RolloutAuditProcedure) Schedule() types.ScheduleKind { return types.ScheduleWeekly }

// Run implements Procedure.
func (p *RolloutAuditProcedure) Run(ctx context.Context) (*Result, error) {
	phases, err := p.Controller.Status()
	if err != nil {
		return nil, fmt.Errorf("reading rollout status: %w", err)
	}

	deployed := 0
	for i, phase := range phases {
		if phase.Status == types.PhaseDeployed {
			deployed++
			if i > 0 && phases[i-1].Status != types.PhaseDeployed {
				return &Result{Rollout: phases},
					fmt.Errorf("phase %d deployed while phase %d is pending", phase.Order, phases[i-1].Order)
			}
		}
	}

	return &Result{
		Message: fmt.Sprintf("%d/%d phases deployed", deployed, len(phases)),
		Rollout: phases,
	}, nil
}

// ReportPruneProcedure enforces the run-history retention policy
// monthly.
type ReportPruneProcedure struct {
	Reports       *report.Store
	RetentionDays int
}

// Name implements Procedure.
func (p *ReportPruneProcedure) Name() string { return "report_prune" }

// Schedule implements Procedure.
func (p *ReportPruneProcedure) Schedule() types.ScheduleKind { return types.ScheduleMonthly }

// Run implements Procedure.
func (p *ReportPruneProcedure) Run(ctx context.Context) (*Result, error) {
	cutoff := time.Now().AddDate(0, 0, -p.RetentionDays)
	pruned, err := p.Reports.PruneOlderThan(cutoff)
	if err != nil {
		return nil, fmt.Errorf("pruning run history: %w", err)
	}

	return &Result{
		Message: fmt.Sprintf("%d runs pruned (retention %d days)", pruned, p.RetentionDays),
	}, nil
}
