package domain

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestFilterState_WithCityClearsLocality(t *testing.T) {
	cases := []struct {
		name  string
		start FilterState
		city  any
	}{
		{"new city", FilterState{City: strPtr("Jaipur"), Locality: strPtr("Malviya Nagar")}, "Indore"},
		{"same city", FilterState{City: strPtr("Jaipur"), Locality: strPtr("Malviya Nagar")}, "Jaipur"},
		{"clear city", FilterState{City: strPtr("Jaipur"), Locality: strPtr("Malviya Nagar")}, nil},
		{"locality without city", FilterState{Locality: strPtr("Vaishali Nagar")}, "Jaipur"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.start.With(FilterCity, tc.city)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Has(FilterLocality) {
				t.Fatalf("expected locality to be removed, got %q", *got.Locality)
			}
		})
	}
}

func TestFilterState_WithEmptyValueRemovesKey(t *testing.T) {
	full := FilterState{
		City:         strPtr("Jaipur"),
		Type:         strPtr("PG"),
		Search:       strPtr("near metro"),
		Verified:     true,
		PriceMin:     intPtr(3000),
		PriceMax:     intPtr(9000),
		Amenities:    []string{"WiFi"},
		SuitableFor:  strPtr("Students"),
		FoodIncluded: true,
	}

	for _, key := range FilterKeys {
		t.Run(string(key), func(t *testing.T) {
			before := full.ActiveCount()
			had := full.Has(key)

			got, err := full.With(key, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Has(key) {
				t.Fatalf("expected %s to be removed", key)
			}

			want := before
			if had {
				want--
			}
			// city тянет за собой locality, которого в full нет
			if got.ActiveCount() != want {
				t.Fatalf("expected count %d, got %d", want, got.ActiveCount())
			}
		})
	}
}

func TestFilterState_WithEmptySentinels(t *testing.T) {
	s := FilterState{Amenities: []string{"AC"}, Search: strPtr("x"), Verified: true}

	s, _ = s.With(FilterAmenities, []string{})
	s, _ = s.With(FilterSearch, "")
	s, _ = s.With(FilterVerified, false)

	if !s.IsEmpty() {
		t.Fatalf("expected empty state, got %+v", s)
	}
	if s.Amenities != nil || s.Search != nil {
		t.Fatalf("expected keys to be deleted, got %+v", s)
	}
}

func TestFilterState_WithCoercesJSONShapes(t *testing.T) {
	s, err := FilterState{}.With(FilterPriceMin, float64(5000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.PriceMin == nil || *s.PriceMin != 5000 {
		t.Fatalf("expected price_min 5000, got %v", s.PriceMin)
	}

	s, err = s.With(FilterAmenities, []any{"WiFi", "", "AC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Amenities) != 2 || s.Amenities[0] != "WiFi" || s.Amenities[1] != "AC" {
		t.Fatalf("unexpected amenities: %v", s.Amenities)
	}

	s, err = s.With(FilterPriceMax, "12000")
	if err != nil || s.PriceMax == nil || *s.PriceMax != 12000 {
		t.Fatalf("expected numeric string to be accepted, got %v, %v", s.PriceMax, err)
	}
}

func TestFilterState_WithRejectsBadInput(t *testing.T) {
	start := FilterState{City: strPtr("Jaipur")}

	cases := []struct {
		name    string
		key     FilterKey
		value   any
		wantErr error
	}{
		{"unknown key", FilterKey("bedrooms"), 2, ErrUnknownFilterKey},
		{"number for string", FilterCity, 42, ErrInvalidFilterValue},
		{"fractional price", FilterPriceMin, 10.5, ErrInvalidFilterValue},
		{"text price", FilterPriceMax, "cheap", ErrInvalidFilterValue},
		{"string for flag", FilterVerified, "yes", ErrInvalidFilterValue},
		{"mixed list", FilterAmenities, []any{"WiFi", 3}, ErrInvalidFilterValue},
		{"price beyond int", FilterPriceMin, 1e20, ErrInvalidFilterValue},
		{"negative price beyond int", FilterPriceMax, -1e20, ErrInvalidFilterValue},
		{"amenity with separator", FilterAmenities, []any{"Wi,Fi"}, ErrInvalidFilterValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := start.With(tc.key, tc.value)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if !got.Equal(start) {
				t.Fatalf("state must not change on error, got %+v", got)
			}
		})
	}
}

func TestFilterState_ActiveCountIgnoresEmptyValues(t *testing.T) {
	s := FilterState{City: strPtr(""), Amenities: []string{}, PriceMin: intPtr(0)}
	if got := s.ActiveCount(); got != 1 {
		t.Fatalf("expected only price_min to count, got %d", got)
	}
}

func TestFilterState_WithDoesNotMutateReceiver(t *testing.T) {
	s := FilterState{Amenities: []string{"WiFi"}}
	next, _ := s.With(FilterAmenities, []string{"AC"})
	next.Amenities[0] = "Parking"

	if s.Amenities[0] != "WiFi" {
		t.Fatalf("receiver was mutated: %v", s.Amenities)
	}
}

func TestFilterState_Validate(t *testing.T) {
	if err := (FilterState{Amenities: []string{"WiFi", "Power Backup"}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := FilterState{Amenities: []string{"AC", "Wi,Fi"}}.Validate()
	if !errors.Is(err, ErrInvalidFilterValue) {
		t.Fatalf("expected ErrInvalidFilterValue, got %v", err)
	}
}
