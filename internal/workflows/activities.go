package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"go.temporal.io/sdk/temporal"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/core/ports"
	"github.com/maubinnav/maubinnav/internal/pkg/metrics"
)

// RoadLengths is the outcome of recomputing one road.
type RoadLengths struct {
	ID       string
	Segments []float64
	// Previous holds the lengths stored before the run, for rollback.
	Previous []float64
	// Unchanged is set when the stored lengths already match.
	Unchanged bool
	// NoGeometry is set when the road has no usable line.
	NoGeometry bool
}

// BackfillActivities holds the activity implementations for the road
// length backfill.
type BackfillActivities struct {
	Source     ports.RecordSource
	Store      ports.RoadLengthStore
	Events     ports.EventPublisher // optional
	Normalizer *normalize.Normalizer
}

// ListRoadIDs returns every road to recompute.
func (a *BackfillActivities) ListRoadIDs(ctx context.Context) ([]string, error) {
	ids, err := a.Store.ListRoadIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list road ids: %w", err)
	}
	return ids, nil
}

// RecomputeRoad decodes a road's line and measures its segments.
func (a *BackfillActivities) RecomputeRoad(ctx context.Context, id string) (RoadLengths, error) {
	rec, err := a.Source.Get(ctx, domain.KindRoad, id)
	if errors.Is(err, domain.ErrNotFound) {
		return RoadLengths{}, temporal.NewNonRetryableApplicationError("road not found", "NotFound", err, id)
	}
	if err != nil {
		return RoadLengths{}, fmt.Errorf("load road %s: %w", id, err)
	}

	road := a.Normalizer.Road(rec)
	out := RoadLengths{
		ID:       id,
		Previous: normalize.StoredLengths(rec).Segments,
	}
	if len(road.Path) < 2 {
		out.NoGeometry = true
		return out, nil
	}
	out.Segments = road.Distance.Segments
	out.Unchanged = sameLengths(out.Segments, out.Previous)
	return out, nil
}

// StoreRoadLengths persists segment lengths of one road.
func (a *BackfillActivities) StoreRoadLengths(ctx context.Context, id string, segments []float64) error {
	if err := a.Store.UpdateRoadLengths(ctx, id, segments); err != nil {
		return fmt.Errorf("store road %s: %w", id, err)
	}
	metrics.RoadsBackfilled.Inc()
	return nil
}

// PublishRoadsChanged tells API instances to drop cached roads.
func (a *BackfillActivities) PublishRoadsChanged(ctx context.Context, updated int) error {
	if a.Events == nil {
		slog.InfoContext(ctx, "road lengths updated (no publisher)", "updated", updated)
		return nil
	}
	return a.Events.PublishChange(ctx, domain.ChangeEvent{Kind: domain.KindRoad})
}

// sameLengths compares at centimetre precision.
func sameLengths(a, b []float64) bool {
	return slices.EqualFunc(a, b, func(x, y float64) bool {
		d := x - y
		return d < 0.01 && d > -0.01
	})
}
