package geospatial_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/geospatial"
)

func TestSegmentLengths_IdenticalPoints(t *testing.T) {
	segs := geospatial.SegmentLengths(domain.GeoPath{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 0}})
	require.Len(t, segs, 1)
	assert.Equal(t, 0.0, segs[0])
	assert.Equal(t, 0.0, geospatial.Total(segs))
}

func TestSegmentLengths_OneDegreeOfLatitude(t *testing.T) {
	segs := geospatial.SegmentLengths(domain.GeoPath{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 1}})
	require.Len(t, segs, 1)
	assert.InDelta(t, 111195, segs[0], 100)
}

func TestSegmentLengths_ShortPaths(t *testing.T) {
	for _, path := range []domain.GeoPath{nil, {}, {{Lon: 95.6, Lat: 16.7}}} {
		segs := geospatial.SegmentLengths(path)
		assert.NotNil(t, segs)
		assert.Empty(t, segs)
		assert.Zero(t, geospatial.Measure(path).Total)
	}
}

func TestMeasure_TotalIsSumAndOrderMatters(t *testing.T) {
	path := domain.GeoPath{
		{Lon: 95.6500, Lat: 16.7300},
		{Lon: 95.6600, Lat: 16.7300},
		{Lon: 95.6600, Lat: 16.7400},
		{Lon: 95.6600, Lat: 16.7400},
	}
	res := geospatial.Measure(path)
	require.Len(t, res.Segments, 3)
	assert.InDelta(t, res.Segments[0]+res.Segments[1]+res.Segments[2], res.Total, 1e-9)
	assert.Equal(t, 0.0, res.Segments[2])

	reversed := domain.GeoPath{path[3], path[2], path[1], path[0]}
	rev := geospatial.Measure(reversed)
	assert.Equal(t, 0.0, rev.Segments[0])
	assert.InDelta(t, res.Total, rev.Total, 1e-6)
}

func TestHaversine_Antipodal(t *testing.T) {
	d := geospatial.Haversine(0, 0, 0, 180)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*geospatial.EarthRadiusMeters, d, 1)
}

func TestNearest(t *testing.T) {
	points := []domain.GeoPoint{
		{Lon: 95.6500, Lat: 16.7300},
		{Lon: 95.6510, Lat: 16.7300},
		{Lon: 95.7000, Lat: 16.8000},
	}

	idx, meters, ok := geospatial.Nearest(points, domain.GeoPoint{Lon: 95.6509, Lat: 16.7301}, 500)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Less(t, meters, 50.0)

	_, _, ok = geospatial.Nearest(points, domain.GeoPoint{Lon: 96.5, Lat: 17.5}, 500)
	assert.False(t, ok)

	_, _, ok = geospatial.Nearest(nil, domain.GeoPoint{}, 500)
	assert.False(t, ok)
}

func TestAround(t *testing.T) {
	center := domain.GeoPoint{Lon: 95.65, Lat: 16.73}
	box := geospatial.Around(center, 1000)
	assert.True(t, box.Contains(orb.Point{center.Lon, center.Lat}))

	// 1 km due north and due east sit inside; 2 km out does not.
	north := domain.GeoPoint{Lon: 95.65, Lat: 16.73 + 900/111195.0}
	assert.True(t, box.Contains(orb.Point{north.Lon, north.Lat}))
	assert.False(t, box.Contains(orb.Point{95.65, 16.73 + 2000/111195.0}))

	polar := geospatial.Around(domain.GeoPoint{Lon: 0, Lat: 90}, 1000)
	assert.Equal(t, -180.0, polar.Min.Lon())
	assert.Equal(t, 180.0, polar.Max.Lon())
}

func TestNearest_AcrossAntimeridian(t *testing.T) {
	points := []domain.GeoPoint{
		{Lon: 170, Lat: 0},
		{Lon: -179.999, Lat: 0},
	}
	idx, meters, ok := geospatial.Nearest(points, domain.GeoPoint{Lon: 179.999, Lat: 0}, 500)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 222.4, meters, 1)

	box := geospatial.Around(domain.GeoPoint{Lon: -179.999, Lat: 0}, 500)
	assert.True(t, geospatial.InBox(box, domain.GeoPoint{Lon: 179.999, Lat: 0}))
	assert.False(t, geospatial.InBox(box, domain.GeoPoint{Lon: 0, Lat: 0}))
}
