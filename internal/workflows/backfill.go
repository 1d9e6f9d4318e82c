package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// BackfillInput configures a road length backfill run.
type BackfillInput struct {
	// RoadIDs restricts the run; empty means every road.
	RoadIDs []string
	// Atomic restores the previous lengths of every updated road when a
	// later store fails.
	Atomic bool
	// DryRun computes lengths without storing them.
	DryRun bool
}

// BackfillResult summarizes a run.
type BackfillResult struct {
	Updated    int
	Unchanged  int
	NoGeometry int
	Failed     []string
}

// Activity names, registered by cmd/backfill.
const (
	ActivityListRoadIDs         = "ListRoadIDs"
	ActivityRecomputeRoad       = "RecomputeRoad"
	ActivityStoreRoadLengths    = "StoreRoadLengths"
	ActivityPublishRoadsChanged = "PublishRoadsChanged"
)

// RoadLengthBackfillWorkflow recomputes the per-segment length of every
// road from its geometry and stores it, then announces the change.
// Roads whose lengths already match are skipped. In atomic mode a failed
// store rolls every updated road back to its previous lengths.
func RoadLengthBackfillWorkflow(ctx workflow.Context, input BackfillInput) (BackfillResult, error) {
	logger := workflow.GetLogger(ctx)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	var res BackfillResult
	ids := input.RoadIDs
	if len(ids) == 0 {
		if err := workflow.ExecuteActivity(ctx, ActivityListRoadIDs).Get(ctx, &ids); err != nil {
			return res, err
		}
	}
	logger.Info("Starting road length backfill", "roads", len(ids), "atomic", input.Atomic, "dryRun", input.DryRun)

	var stored []RoadLengths
	for _, id := range ids {
		var rl RoadLengths
		if err := workflow.ExecuteActivity(ctx, ActivityRecomputeRoad, id).Get(ctx, &rl); err != nil {
			logger.Warn("recompute failed", "road", id, "error", err)
			res.Failed = append(res.Failed, id)
			continue
		}
		switch {
		case rl.NoGeometry:
			res.NoGeometry++
			continue
		case rl.Unchanged:
			res.Unchanged++
			continue
		}
		if input.DryRun {
			res.Updated++
			continue
		}

		if err := workflow.ExecuteActivity(ctx, ActivityStoreRoadLengths, rl.ID, rl.Segments).Get(ctx, nil); err != nil {
			res.Failed = append(res.Failed, id)
			if input.Atomic {
				logger.Warn("store failed, restoring previous lengths", "road", id, "error", err)
				unrestored := rollback(ctx, stored)
				res.Updated = 0
				if len(unrestored) > 0 {
					return res, fmt.Errorf("%w; roads left with new lengths: %v", err, unrestored)
				}
				return res, err
			}
			logger.Warn("store failed", "road", id, "error", err)
			continue
		}
		stored = append(stored, rl)
		res.Updated++
	}

	if len(stored) > 0 {
		if err := workflow.ExecuteActivity(ctx, ActivityPublishRoadsChanged, len(stored)).Get(ctx, nil); err != nil {
			// Non-fatal: cached roads expire after their TTL.
			logger.Warn("publish change failed", "error", err)
		}
	}

	logger.Info("Road length backfill finished",
		"updated", res.Updated, "unchanged", res.Unchanged,
		"noGeometry", res.NoGeometry, "failed", len(res.Failed))
	return res, nil
}

// rollback restores previous lengths newest first and returns the IDs it
// could not restore.
func rollback(ctx workflow.Context, stored []RoadLengths) []string {
	logger := workflow.GetLogger(ctx)
	var failed []string
	for i := len(stored) - 1; i >= 0; i-- {
		rl := stored[i]
		if err := workflow.ExecuteActivity(ctx, ActivityStoreRoadLengths, rl.ID, rl.Previous).Get(ctx, nil); err != nil {
			logger.Error("restore failed, road keeps its new lengths", "road", rl.ID, "error", err)
			failed = append(failed, rl.ID)
		}
	}
	return failed
}
