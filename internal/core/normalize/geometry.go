package normalize

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/wkt"
)

var (
	geometryKeys = []string{"geometry", "geom", "wkt"}
	pointKeys    = []string{"geometry", "geom", "wkt", "point", "location"}
	pathKeys     = []string{"coordinates", "path", "points"}
	lonKeys      = []string{"lon", "lng", "longitude"}
	latKeys      = []string{"lat", "latitude"}
)

// Point extracts a point from explicit lon/lat fields, a WKT string or a
// GeoJSON Point. present reports whether the record carried any geometry at
// all, so callers can tell "no geometry" from "unreadable geometry".
func Point(rec domain.RawRecord) (p *domain.GeoPoint, present bool) {
	if lon, lat, ok := lonLat(rec); ok {
		return &domain.GeoPoint{Lon: lon, Lat: lat}, true
	}
	for _, k := range pointKeys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if k == "location" && !geometryLike(v) {
			continue
		}
		present = true
		if p := pointFrom(v); p != nil {
			return p, true
		}
	}
	return nil, present
}

// Path extracts a line from a WKT LINESTRING, a GeoJSON LineString or a
// coordinate list.
func Path(rec domain.RawRecord) (path domain.GeoPath, present bool) {
	for _, k := range geometryKeys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		present = true
		if p := pathFrom(v); len(p) > 0 {
			return p, true
		}
	}
	for _, k := range pathKeys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		present = true
		if p := Coordinates(v); len(p) > 0 {
			return p, true
		}
	}
	return domain.GeoPath{}, present
}

func lonLat(rec domain.RawRecord) (float64, float64, bool) {
	lon, okLon := firstNumber(rec, lonKeys)
	lat, okLat := firstNumber(rec, latKeys)
	return lon, lat, okLon && okLat
}

func firstNumber(rec domain.RawRecord, keys []string) (float64, bool) {
	for _, k := range keys {
		if f, ok := number(rec[k]); ok {
			return f, true
		}
	}
	return 0, false
}

// geometryLike reports whether a value under an ambiguous key such as
// "location" is meant as geometry rather than a place name.
func geometryLike(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return true
	case []byte:
		return geometryLike(string(t))
	case string:
		s := strings.ToUpper(strings.TrimSpace(t))
		return strings.HasPrefix(s, "POINT") || strings.HasPrefix(s, "SRID=") || strings.HasPrefix(s, "{")
	}
	return false
}

func pointFrom(v any) *domain.GeoPoint {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "{") {
			return geoJSONPoint([]byte(s))
		}
		return wkt.DecodePoint(s)
	case []byte:
		return pointFrom(string(t))
	case map[string]any:
		if lon, lat, ok := lonLat(domain.RawRecord(t)); ok {
			return &domain.GeoPoint{Lon: lon, Lat: lat}
		}
		data, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return geoJSONPoint(data)
	}
	return nil
}

func pathFrom(v any) domain.GeoPath {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "{") {
			return geoJSONPath([]byte(s))
		}
		return wkt.DecodeLineString(s)
	case []byte:
		return pathFrom(string(t))
	case map[string]any:
		data, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return geoJSONPath(data)
	case []any:
		return Coordinates(t)
	}
	return nil
}

func geoJSONPoint(data []byte) *domain.GeoPoint {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil
	}
	pt, ok := g.Geometry().(orb.Point)
	if !ok || !finite(pt[0], pt[1]) {
		return nil
	}
	return &domain.GeoPoint{Lon: pt[0], Lat: pt[1]}
}

func geoJSONPath(data []byte) domain.GeoPath {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil
	}
	ls, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil
	}
	path := make(domain.GeoPath, 0, len(ls))
	for _, pt := range ls {
		if finite(pt[0], pt[1]) {
			path = append(path, domain.GeoPoint{Lon: pt[0], Lat: pt[1]})
		}
	}
	return path
}

// Coordinates parses a user-supplied coordinate list. Accepted shapes are
// [[lon, lat], ...], [{"lon": .., "lat": ..}, ...] and "lon,lat;lon,lat"
// (newlines work as separators too). Unreadable entries are skipped.
func Coordinates(v any) domain.GeoPath {
	path := domain.GeoPath{}
	switch t := v.(type) {
	case string:
		text := strings.ReplaceAll(t, ";", "\n")
		for _, line := range strings.Split(text, "\n") {
			parts := strings.FieldsFunc(line, func(r rune) bool { return r == ',' })
			if len(parts) < 2 {
				continue
			}
			lon, okLon := number(parts[0])
			lat, okLat := number(parts[1])
			if okLon && okLat {
				path = append(path, domain.GeoPoint{Lon: lon, Lat: lat})
			}
		}
	case []any:
		for _, item := range t {
			if p, ok := coordinate(item); ok {
				path = append(path, p)
			}
		}
	case [][]float64:
		for _, pair := range t {
			if len(pair) >= 2 && finite(pair[0], pair[1]) {
				path = append(path, domain.GeoPoint{Lon: pair[0], Lat: pair[1]})
			}
		}
	case []domain.GeoPoint:
		path = append(path, t...)
	}
	return path
}

func coordinate(item any) (domain.GeoPoint, bool) {
	switch t := item.(type) {
	case map[string]any:
		lon, lat, ok := lonLat(domain.RawRecord(t))
		return domain.GeoPoint{Lon: lon, Lat: lat}, ok
	case []any:
		if len(t) < 2 {
			return domain.GeoPoint{}, false
		}
		lon, okLon := number(t[0])
		lat, okLat := number(t[1])
		return domain.GeoPoint{Lon: lon, Lat: lat}, okLon && okLat
	case []float64:
		if len(t) < 2 || !finite(t[0], t[1]) {
			return domain.GeoPoint{}, false
		}
		return domain.GeoPoint{Lon: t[0], Lat: t[1]}, true
	}
	return domain.GeoPoint{}, false
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
