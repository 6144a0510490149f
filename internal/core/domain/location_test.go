package domain

import (
	"errors"
	"math"
	"testing"
)

func TestUserLocation_Validate(t *testing.T) {
	cases := []struct {
		loc   UserLocation
		valid bool
	}{
		{UserLocation{Latitude: 26.9124, Longitude: 75.7873}, true},
		{UserLocation{Latitude: 91, Longitude: 0}, false},
		{UserLocation{Latitude: 0, Longitude: -181}, false},
		{UserLocation{Latitude: math.NaN(), Longitude: 0}, false},
	}
	for _, tc := range cases {
		err := tc.loc.Validate()
		if tc.valid && err != nil {
			t.Fatalf("%+v: unexpected error %v", tc.loc, err)
		}
		if !tc.valid && !errors.Is(err, ErrInvalidLocation) {
			t.Fatalf("%+v: expected ErrInvalidLocation, got %v", tc.loc, err)
		}
	}
}

func TestUserLocation_NeighbourhoodCells(t *testing.T) {
	loc := UserLocation{Latitude: 26.9124, Longitude: 75.7873}
	cells := loc.NeighbourhoodCells(NearMeGeohashPrecision)

	if len(cells) != 9 {
		t.Fatalf("expected 9 cells, got %d", len(cells))
	}
	if cells[0] != loc.Geohash(NearMeGeohashPrecision) {
		t.Fatalf("first cell must be the user's own cell")
	}
	seen := map[string]bool{}
	for _, c := range cells {
		if len(c) != NearMeGeohashPrecision {
			t.Fatalf("unexpected cell precision: %q", c)
		}
		if seen[c] {
			t.Fatalf("duplicate cell %q", c)
		}
		seen[c] = true
	}
}

func TestUserLocation_DistanceKm(t *testing.T) {
	jaipur := UserLocation{Latitude: 26.9124, Longitude: 75.7873}
	d := jaipur.DistanceKm(28.6139, 77.2090) // Дели
	if d < 220 || d > 250 {
		t.Fatalf("unexpected Jaipur-Delhi distance: %.1f km", d)
	}
	if jaipur.DistanceKm(jaipur.Latitude, jaipur.Longitude) != 0 {
		t.Fatalf("distance to itself must be zero")
	}
}
