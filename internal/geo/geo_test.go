package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: -33.9249, lng1: 18.4241,
			lat2: -33.9249, lng2: 18.4241,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "Sea Point to Cape Town city centre (~4km)",
			lat1: -33.915, lng1: 18.390,
			lat2: -33.9249, lng2: 18.4241,
			wantKm:    3.3,
			tolerance: 1.0,
		},
		{
			name: "Cape Town to Johannesburg (~1260km)",
			lat1: -33.9249, lng1: 18.4241,
			lat2: -26.2041, lng2: 28.0473,
			wantKm:    1265,
			tolerance: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := HaversineKm(-33.9, 18.4, -33.95, 18.47)
	d2 := HaversineKm(-33.95, 18.47, -33.9, 18.4)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestBearingDegrees(t *testing.T) {
	// Due east along the equator.
	if b := BearingDegrees(0, 0, 0, 1); math.Abs(b-90) > 0.01 {
		t.Errorf("bearing east = %f, want 90", b)
	}
	// Due north.
	if b := BearingDegrees(0, 0, 1, 0); math.Abs(b-0) > 0.01 {
		t.Errorf("bearing north = %f, want 0", b)
	}
}

type stop struct {
	id   string
	dist float64
}

func TestSortByDistance(t *testing.T) {
	stops := []stop{
		{id: "c", dist: 5.0},
		{id: "a", dist: 1.0},
		{id: "b", dist: 3.0},
	}

	SortByDistance(stops, func(s stop) float64 { return s.dist })

	if stops[0].id != "a" || stops[1].id != "b" || stops[2].id != "c" {
		t.Errorf("unexpected sort order: %v", stops)
	}
}

func TestSortByDistance_StableOnTies(t *testing.T) {
	stops := []stop{
		{id: "first", dist: 2.0},
		{id: "second", dist: 2.0},
		{id: "near", dist: 1.0},
	}

	SortByDistance(stops, func(s stop) float64 { return s.dist })

	if stops[0].id != "near" || stops[1].id != "first" || stops[2].id != "second" {
		t.Errorf("ties must keep input order: %v", stops)
	}
}

func TestSortByDistance_Empty(t *testing.T) {
	var stops []stop
	SortByDistance(stops, func(s stop) float64 { return s.dist })
}
