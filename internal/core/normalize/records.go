package normalize

import (
	"log/slog"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/category"
	"github.com/maubinnav/maubinnav/internal/pkg/geospatial"
	"github.com/maubinnav/maubinnav/internal/pkg/metrics"
)

// Normalizer converts raw records using a configured taxonomy.
type Normalizer struct {
	taxonomy category.Taxonomy
}

// New returns a Normalizer classifying with t.
func New(t category.Taxonomy) *Normalizer {
	return &Normalizer{taxonomy: t}
}

var std = New(category.Default)

// City normalizes rec with the built-in taxonomy.
func City(rec domain.RawRecord) domain.City { return std.City(rec) }

// Location normalizes rec with the built-in taxonomy.
func Location(rec domain.RawRecord) domain.Location { return std.Location(rec) }

// Road normalizes rec with the built-in taxonomy.
func Road(rec domain.RawRecord) domain.Road { return std.Road(rec) }

// CityDetail normalizes rec.
func CityDetail(rec domain.RawRecord) domain.CityDetail { return std.CityDetail(rec) }

// Classify maps a raw type tag with the configured taxonomy.
func (n *Normalizer) Classify(raw string) domain.CategoryKey {
	key := n.taxonomy.Classify(raw)
	metrics.CategoriesClassified.WithLabelValues(string(key)).Inc()
	return key
}

func (n *Normalizer) City(rec domain.RawRecord) domain.City {
	metrics.RecordsNormalized.WithLabelValues(string(domain.KindCity)).Inc()
	c := domain.City{
		ID:          str(rec, "id"),
		UserID:      str(rec, "user_id"),
		Name:        Text(rec, "name"),
		Address:     Text(rec, "address"),
		Description: Text(rec, "description"),
		ImageURLs:   ImageURLs(rec["image_urls"]),
		IsActive:    optionalBool(rec["is_active"]),
	}
	c.Point = point(rec, domain.KindCity, c.ID)
	return c
}

func (n *Normalizer) Location(rec domain.RawRecord) domain.Location {
	metrics.RecordsNormalized.WithLabelValues(string(domain.KindLocation)).Inc()
	l := domain.Location{
		ID:           str(rec, "id"),
		CityID:       str(rec, "city_id"),
		UserID:       str(rec, "user_id"),
		Name:         Text(rec, "name"),
		Address:      Text(rec, "address"),
		Description:  Text(rec, "description"),
		ImageURLs:    ImageURLs(rec["image_urls"]),
		LocationType: str(rec, "location_type", "type"),
		IsActive:     optionalBool(rec["is_active"]),
	}
	l.Category = n.Classify(l.LocationType)
	l.Point = point(rec, domain.KindLocation, l.ID)
	return l
}

func (n *Normalizer) Road(rec domain.RawRecord) domain.Road {
	metrics.RecordsNormalized.WithLabelValues(string(domain.KindRoad)).Inc()
	r := domain.Road{
		ID:       str(rec, "id"),
		CityID:   str(rec, "city_id"),
		UserID:   str(rec, "user_id"),
		Name:     Text(rec, "name"),
		RoadType: str(rec, "road_type", "type"),
		IsActive: optionalBool(rec["is_active"]),
	}
	r.IsOneway, _ = boolean(rec["is_oneway"])
	r.Category = n.Classify(r.RoadType)

	path, present := Path(rec)
	if present && len(path) == 0 {
		geometryFailed(domain.KindRoad, r.ID)
	}
	r.Path = path
	r.Bounds = path.Bounds()
	r.Distance = geospatial.Measure(path)
	if v, ok := rec["length_m"]; ok && v != nil {
		stored := storedLengths(v)
		r.StoredLength = &stored
	}
	return r
}

func (n *Normalizer) CityDetail(rec domain.RawRecord) domain.CityDetail {
	metrics.RecordsNormalized.WithLabelValues(string(domain.KindCityDetail)).Inc()
	return domain.CityDetail{
		ID:              str(rec, "id"),
		CityID:          str(rec, "city_id"),
		UserID:          str(rec, "user_id"),
		PredefinedTitle: str(rec, "predefined_title"),
		Subtitle:        Text(rec, "subtitle"),
		Body:            Text(rec, "body"),
		ImageURLs:       ImageURLs(rec["image_urls"]),
	}
}

func point(rec domain.RawRecord, kind domain.RecordKind, id string) *domain.GeoPoint {
	p, present := Point(rec)
	if p == nil && present {
		geometryFailed(kind, id)
	}
	return p
}

func geometryFailed(kind domain.RecordKind, id string) {
	metrics.GeometryFailures.WithLabelValues(string(kind)).Inc()
	slog.Debug("geometry unreadable, record kept without it", "kind", kind, "id", id)
}

// StoredLengths returns the segment lengths persisted on a road record,
// ignoring its geometry.
func StoredLengths(rec domain.RawRecord) domain.DistanceResult {
	return storedLengths(rec["length_m"])
}

// storedLengths reads a persisted length_m column: an array of segment
// lengths, or a single total.
func storedLengths(v any) domain.DistanceResult {
	res := domain.DistanceResult{Segments: []float64{}}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if f, ok := number(item); ok && f >= 0 {
				res.Segments = append(res.Segments, f)
			}
		}
	case []float64:
		for _, f := range t {
			if f >= 0 && finite(f) {
				res.Segments = append(res.Segments, f)
			}
		}
	default:
		if f, ok := number(v); ok && f > 0 {
			res.Segments = append(res.Segments, f)
		}
	}
	res.Total = geospatial.Total(res.Segments)
	return res
}
