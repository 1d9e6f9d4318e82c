// Package wkt reads and writes the subset of Well-Known Text used by the
// directory: POINT and LINESTRING in (lon lat) order, optionally prefixed by
// an EWKT SRID clause.
//
// Decoding is total. Malformed input yields nil (points) or an empty path
// (line strings), never a panic or an error.
package wkt

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

const num = `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`

var (
	pointRe = regexp.MustCompile(`(?i)^\s*(?:SRID=\d+\s*;\s*)?POINT\s*\(\s*(` + num + `)\s+(` + num + `)\s*\)\s*$`)
	lineRe  = regexp.MustCompile(`(?i)^\s*(?:SRID=\d+\s*;\s*)?LINESTRING\s*\(([^()]*)\)\s*$`)
	pairRe  = regexp.MustCompile(`^\s*(` + num + `)\s+(` + num + `)\s*$`)
)

// DecodePoint parses "POINT(lon lat)". It returns nil when s is empty or
// malformed.
func DecodePoint(s string) *domain.GeoPoint {
	m := pointRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	p, ok := parsePair(m[1], m[2])
	if !ok {
		return nil
	}
	return &p
}

// DecodeLineString parses "LINESTRING(lon lat, lon lat, ...)". Pairs that do
// not parse are skipped; the result is empty, not nil, when nothing parses.
func DecodeLineString(s string) domain.GeoPath {
	path := domain.GeoPath{}
	m := lineRe.FindStringSubmatch(s)
	if m == nil {
		return path
	}
	for _, part := range strings.Split(m[1], ",") {
		pm := pairRe.FindStringSubmatch(part)
		if pm == nil {
			continue
		}
		if p, ok := parsePair(pm[1], pm[2]); ok {
			path = append(path, p)
		}
	}
	return path
}

func parsePair(lonText, latText string) (domain.GeoPoint, bool) {
	lon, err := strconv.ParseFloat(lonText, 64)
	if err != nil || math.IsInf(lon, 0) {
		return domain.GeoPoint{}, false
	}
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil || math.IsInf(lat, 0) {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lon: lon, Lat: lat}, true
}
