package geospatial

import (
	"math"

	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// SegmentLengths returns the great-circle length of every consecutive pair
// of points, in path order. Paths shorter than two points yield an empty slice.
func SegmentLengths(path domain.GeoPath) []float64 {
	if len(path) < 2 {
		return []float64{}
	}
	out := make([]float64, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		out[i] = Distance(path[i], path[i+1])
	}
	return out
}

// Total sums segment lengths.
func Total(segments []float64) float64 {
	var sum float64
	for _, s := range segments {
		sum += s
	}
	return sum
}

// Measure computes segment lengths and their total for path.
func Measure(path domain.GeoPath) domain.DistanceResult {
	segs := SegmentLengths(path)
	return domain.DistanceResult{Segments: segs, Total: Total(segs)}
}

// Nearest returns the index of the point closest to target, provided it lies
// within maxMeters. ok is false for an empty slice or when nothing is close enough.
func Nearest(points []domain.GeoPoint, target domain.GeoPoint, maxMeters float64) (index int, meters float64, ok bool) {
	index, meters = -1, math.Inf(1)
	box := Around(target, maxMeters)
	for i, p := range points {
		if !InBox(box, p) {
			continue
		}
		if d := Distance(p, target); d < meters {
			index, meters = i, d
		}
	}
	if index < 0 || meters > maxMeters {
		return -1, 0, false
	}
	return index, meters, true
}
