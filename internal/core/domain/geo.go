package domain

import "github.com/paulmach/orb"

// GeoPoint represents a geographic coordinate (WGS 84).
// Fields follow the WKT wire order: longitude first.
type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// LatLon returns the point swapped into (lat, lon) order, which is what map
// widgets expect when plotting. Decoded WKT is always (lon, lat).
func (p GeoPoint) LatLon() [2]float64 {
	return [2]float64{p.Lat, p.Lon}
}

// Orb converts the point to an orb.Point ([lon, lat]).
func (p GeoPoint) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// GeoPath is an ordered sequence of geographic coordinates.
type GeoPath []GeoPoint

// LatLons returns every point of the path in (lat, lon) order.
func (g GeoPath) LatLons() [][2]float64 {
	out := make([][2]float64, len(g))
	for i, p := range g {
		out[i] = p.LatLon()
	}
	return out
}

// Orb converts the path to an orb.LineString.
func (g GeoPath) Orb() orb.LineString {
	ls := make(orb.LineString, len(g))
	for i, p := range g {
		ls[i] = p.Orb()
	}
	return ls
}

// Bounds returns the bounding box of the path, or nil when it is empty.
func (g GeoPath) Bounds() *Bounds {
	if len(g) == 0 {
		return nil
	}
	b := g.Orb().Bound()
	return &Bounds{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// DistanceResult holds per-segment geodesic lengths of a path in meters.
// len(Segments) == max(0, len(path)-1) and Total == sum(Segments).
type DistanceResult struct {
	Segments []float64 `json:"segments"`
	Total    float64   `json:"total"`
}
