package ports

import (
	"context"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// RecordFilter narrows a listing. Empty fields match everything.
type RecordFilter struct {
	CityID string
	UserID string
	Limit  int
	Offset int
}

// RecordSource reads raw upstream records. Implementations return
// domain.ErrNotFound for unknown IDs.
type RecordSource interface {
	List(ctx context.Context, kind domain.RecordKind, f RecordFilter) ([]domain.RawRecord, error)
	Get(ctx context.Context, kind domain.RecordKind, id string) (domain.RawRecord, error)
	GetMany(ctx context.Context, kind domain.RecordKind, ids []string) ([]domain.RawRecord, error)
}

// RoadLengthStore persists recomputed road lengths.
type RoadLengthStore interface {
	ListRoadIDs(ctx context.Context) ([]string, error)
	UpdateRoadLengths(ctx context.Context, id string, segments []float64) error
}

// LocationWriter stores imported location records.
type LocationWriter interface {
	UpsertLocations(ctx context.Context, locs []domain.Location) error
}
