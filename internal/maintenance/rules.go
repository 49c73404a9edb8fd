package maintenance

import (
	"fmt"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// Recommend derives the recommendation list from a run's aggregated
// findings using fixed severity rules: broken links are high priority,
// orphaned sections medium, parse warnings low.
func Recommend(validation *types.ValidationResult, sync *types.SyncStats, phases []types.RolloutPhase) []types.Recommendation {
	recs := []types.Recommendation{}

	if validation != nil {
		for _, ref := range validation.Broken {
			recs = append(recs, types.Recommendation{
				Severity: types.SeverityHigh,
				Category: "broken-link",
				Message:  fmt.Sprintf("%s links to missing document %q (anchor %q)", ref.SourceID, ref.TargetID, ref.AnchorText),
			})
		}
		for _, id := range validation.Orphaned {
			recs = append(recs, types.Recommendation{
				Severity: types.SeverityMedium,
				Category: "orphaned-section",
				Message:  fmt.Sprintf("no document links to %q; add a path from the hub or retire it", id),
			})
		}
		if n := len(validation.ParseWarnings); n > 0 {
			recs = append(recs, types.Recommendation{
				Severity: types.SeverityLow,
				Category: "parse-warning",
				Message:  fmt.Sprintf("%d reference(s) had unrecognized syntax; see the report detail", n),
			})
		}
	}

	if sync != nil && sync.Failed > 0 {
		recs = append(recs, types.Recommendation{
			Severity: types.SeverityHigh,
			Category: "preview-sync",
			Message:  fmt.Sprintf("%d preview mapping(s) failed to sync and will be retried next run", sync.Failed),
		})
	}

	// A pending phase whose dependency is satisfied is ready to go out.
	for i, phase := range phases {
		if phase.Status != types.PhasePending {
			continue
		}
		if i == 0 || phases[i-1].Status == types.PhaseDeployed {
			recs = append(recs, types.Recommendation{
				Severity: types.SeverityLow,
				Category: "rollout",
				Message:  fmt.Sprintf("phase %d (%s) is ready to deploy", phase.Order, phase.Name),
			})
		}
		break
	}

	return recs
}
