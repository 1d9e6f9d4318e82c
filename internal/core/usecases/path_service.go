package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/core/normalize"
	"github.com/maubinnav/maubinnav/internal/pkg/geospatial"
	"github.com/maubinnav/maubinnav/internal/pkg/metrics"
	"github.com/maubinnav/maubinnav/internal/pkg/telemetry"
	"github.com/maubinnav/maubinnav/internal/pkg/wkt"
)

// DefaultSnapRadius is how far a free coordinate may be from a named
// location and still be snapped onto it.
const DefaultSnapRadius = 500.0

// PathRequest describes a path to measure. Exactly one of WKT,
// Coordinates and LocationIDs must be set.
type PathRequest struct {
	WKT         string   `json:"wkt,omitempty"`
	Coordinates any      `json:"coordinates,omitempty"`
	LocationIDs []string `json:"location_ids,omitempty"`
	// Snap moves free coordinates onto the nearest location of CityID.
	Snap   bool   `json:"snap,omitempty"`
	CityID string `json:"city_id,omitempty"`
}

// SnappedPoint records a coordinate that was moved onto a location.
type SnappedPoint struct {
	Index      int     `json:"index"`
	LocationID string  `json:"location_id"`
	Meters     float64 `json:"meters"`
}

// PathResult is a measured path.
type PathResult struct {
	Path     domain.GeoPath        `json:"path"`
	LatLons  [][2]float64          `json:"lat_lons"`
	Bounds   *domain.Bounds        `json:"bounds,omitempty"`
	Distance domain.DistanceResult `json:"distance"`
	WKT      string                `json:"wkt,omitempty"`
	Snapped  []SnappedPoint        `json:"snapped,omitempty"`
}

// PathService measures user-built paths: drawn lines, clicked coordinates
// and ordered stops.
type PathService struct {
	directory  *DirectoryService
	snapRadius float64
}

// NewPathService creates a new PathService. A non-positive radius selects
// DefaultSnapRadius.
func NewPathService(directory *DirectoryService, snapRadius float64) *PathService {
	if snapRadius <= 0 {
		snapRadius = DefaultSnapRadius
	}
	return &PathService{directory: directory, snapRadius: snapRadius}
}

// Measure builds the requested path and computes its segment lengths.
// Unreadable geometry yields an empty path with zero length, not an error.
func (s *PathService) Measure(ctx context.Context, req PathRequest) (*PathResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "PathService.Measure")
	defer span.End()

	req.WKT = strings.TrimSpace(req.WKT)
	sources := 0
	if req.WKT != "" {
		sources++
	}
	if req.Coordinates != nil {
		sources++
	}
	if len(req.LocationIDs) > 0 {
		sources++
	}
	if sources != 1 {
		return nil, fmt.Errorf("%w: exactly one of wkt, coordinates or location_ids is required", domain.ErrInvalidInput)
	}

	res := &PathResult{}
	switch {
	case req.WKT != "":
		res.Path = wkt.DecodeLineString(req.WKT)
	case req.Coordinates != nil:
		res.Path = normalize.Coordinates(req.Coordinates)
		if req.Snap {
			snapped, err := s.snap(ctx, req.CityID, res.Path)
			if err != nil {
				return nil, err
			}
			res.Snapped = snapped
		}
	default:
		path, err := s.pathThrough(ctx, req.LocationIDs)
		if err != nil {
			return nil, err
		}
		res.Path = path
	}

	res.LatLons = res.Path.LatLons()
	res.Bounds = res.Path.Bounds()
	res.Distance = geospatial.Measure(res.Path)
	if enc, ok := wkt.EncodeLineString(res.Path); ok {
		res.WKT = enc
	}

	metrics.PathsMeasured.Observe(res.Distance.Total)
	span.SetAttributes(
		telemetry.AttrPathPoints.Int(len(res.Path)),
		telemetry.AttrPathMeters.Float64(res.Distance.Total),
	)
	return res, nil
}

// pathThrough returns the points of the given locations in request order.
func (s *PathService) pathThrough(ctx context.Context, ids []string) (domain.GeoPath, error) {
	locs, err := s.directory.GetLocations(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Location, len(locs))
	for _, l := range locs {
		byID[l.ID] = l
	}

	path := make(domain.GeoPath, 0, len(ids))
	for _, id := range ids {
		l, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("location %s: %w", id, domain.ErrNotFound)
		}
		if l.Point == nil {
			return nil, fmt.Errorf("%w: location %s has no geometry", domain.ErrInvalidInput, id)
		}
		path = append(path, *l.Point)
	}
	return path, nil
}

// snap moves each point of path onto the nearest location within the snap
// radius, in place.
func (s *PathService) snap(ctx context.Context, cityID string, path domain.GeoPath) ([]SnappedPoint, error) {
	if len(path) == 0 {
		return nil, nil
	}
	locs, err := s.directory.allLocations(ctx, cityID)
	if err != nil {
		return nil, fmt.Errorf("snap: %w", err)
	}

	points := make([]domain.GeoPoint, 0, len(locs))
	owners := make([]string, 0, len(locs))
	for _, l := range locs {
		if l.Point != nil {
			points = append(points, *l.Point)
			owners = append(owners, l.ID)
		}
	}

	var snapped []SnappedPoint
	for i, p := range path {
		idx, meters, ok := geospatial.Nearest(points, p, s.snapRadius)
		if !ok {
			continue
		}
		path[i] = points[idx]
		snapped = append(snapped, SnappedPoint{Index: i, LocationID: owners[idx], Meters: meters})
	}
	return snapped, nil
}
