package wkt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/wkt"
)

func TestDecodePoint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *domain.GeoPoint
	}{
		{"plain", "POINT(95.6501 16.7305)", &domain.GeoPoint{Lon: 95.6501, Lat: 16.7305}},
		{"lowercase with spaces", "  point ( -1.5   2e1 ) ", &domain.GeoPoint{Lon: -1.5, Lat: 20}},
		{"srid prefix", "SRID=4326;POINT(96 19)", &domain.GeoPoint{Lon: 96, Lat: 19}},
		{"leading dot and sign", "POINT(+.5 -.25)", &domain.GeoPoint{Lon: 0.5, Lat: -0.25}},
		{"out of range tolerated", "POINT(500 -100)", &domain.GeoPoint{Lon: 500, Lat: -100}},

		{"empty", "", nil},
		{"missing parens", "POINT 96 19", nil},
		{"missing close paren", "POINT(96 19", nil},
		{"non numeric", "POINT(abc 19)", nil},
		{"one coordinate", "POINT(96)", nil},
		{"three coordinates", "POINT(96 19 4)", nil},
		{"comma separated", "POINT(96,19)", nil},
		{"overflow", "POINT(1e999 19)", nil},
		{"wrong type", "LINESTRING(96 19, 97 20)", nil},
		{"trailing garbage", "POINT(96 19) x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wkt.DecodePoint(tt.input))
		})
	}
}

func TestDecodeLineString(t *testing.T) {
	got := wkt.DecodeLineString("LINESTRING(96.08 19.74, 96.09 19.75)")
	assert.Equal(t, domain.GeoPath{{Lon: 96.08, Lat: 19.74}, {Lon: 96.09, Lat: 19.75}}, got)
}

func TestDecodeLineString_DropsMalformedPairs(t *testing.T) {
	got := wkt.DecodeLineString("linestring(96.08 19.74, oops, 96.09, 96.10 19.76)")
	assert.Equal(t, domain.GeoPath{{Lon: 96.08, Lat: 19.74}, {Lon: 96.10, Lat: 19.76}}, got)
}

func TestDecodeLineString_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"LINESTRING",
		"LINESTRING 96 19, 97 20",
		"LINESTRING(96 19, 97 20",
		"LINESTRING()",
		"LINESTRING(a b, c d)",
		"POINT(96 19)",
		"LINESTRING((96 19, 97 20))",
	}
	for _, in := range inputs {
		got := wkt.DecodeLineString(in)
		require.NotNil(t, got, "input %q", in)
		assert.Empty(t, got, "input %q", in)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	path := domain.GeoPath{{Lon: 95.65, Lat: 16.73}, {Lon: 95.66, Lat: 16.74}, {Lon: 95.67, Lat: 16.75}}

	s, ok := wkt.EncodeLineString(path)
	require.True(t, ok)
	assert.Contains(t, s, wkt.SRID+"LINESTRING")
	assert.Equal(t, path, wkt.DecodeLineString(s))

	p := wkt.DecodePoint(wkt.EncodePoint(path[0]))
	require.NotNil(t, p)
	assert.Equal(t, path[0], *p)
}

func TestEncodeLineString_TooShort(t *testing.T) {
	_, ok := wkt.EncodeLineString(domain.GeoPath{{Lon: 1, Lat: 2}})
	assert.False(t, ok)
}

func TestLatLonSwap(t *testing.T) {
	p := wkt.DecodePoint("POINT(95.65 16.73)")
	require.NotNil(t, p)
	assert.Equal(t, [2]float64{16.73, 95.65}, p.LatLon())
}
