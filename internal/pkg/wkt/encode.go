package wkt

import (
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// SRID is the spatial reference written in front of encoded geometries.
const SRID = "SRID=4326;"

// EncodePoint returns p as EWKT, e.g. "SRID=4326;POINT(95.65 16.73)".
func EncodePoint(p domain.GeoPoint) string {
	return SRID + wkt.MarshalString(p.Orb())
}

// EncodeLineString returns path as EWKT. A line needs at least two points;
// ok is false otherwise.
func EncodeLineString(path domain.GeoPath) (s string, ok bool) {
	if len(path) < 2 {
		return "", false
	}
	return SRID + wkt.MarshalString(path.Orb()), true
}
