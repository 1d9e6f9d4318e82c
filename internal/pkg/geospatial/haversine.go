// Package geospatial measures great-circle distances on a spherical Earth.
package geospatial

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// EarthRadiusMeters is the IUGG mean Earth radius.
const EarthRadiusMeters = 6371008.8

// metersPerDegree is the length of one degree of latitude at this radius.
const metersPerDegree = EarthRadiusMeters * math.Pi / 180

// Haversine returns the great-circle distance in metres between two
// coordinates given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := radians(lat1), radians(lat2)
	h := hav(phi2-phi1) + math.Cos(phi1)*math.Cos(phi2)*hav(radians(lon2-lon1))
	// rounding can push h just past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Distance is Haversine over two GeoPoints.
func Distance(a, b domain.GeoPoint) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// Around returns a lon/lat box that contains every point within
// radiusMeters of p. Near the poles the box widens to every longitude. Near
// the antimeridian the box extends past ±180; use InBox to test points.
func Around(p domain.GeoPoint, radiusMeters float64) orb.Bound {
	dLat := radiusMeters / metersPerDegree
	dLon := 180.0
	if c := math.Cos(radians(p.Lat)); c > 1e-9 {
		dLon = math.Min(180, dLat/c)
	}
	return orb.Bound{
		Min: orb.Point{p.Lon - dLon, p.Lat - dLat},
		Max: orb.Point{p.Lon + dLon, p.Lat + dLat},
	}
}

// InBox reports whether p lies in a box from Around, also trying p shifted
// by a full turn so boxes that cross the antimeridian match.
func InBox(box orb.Bound, p domain.GeoPoint) bool {
	for _, lon := range [...]float64{p.Lon, p.Lon + 360, p.Lon - 360} {
		if box.Contains(orb.Point{lon, p.Lat}) {
			return true
		}
	}
	return false
}

func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
