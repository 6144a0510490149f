package searchfilter

import (
	"context"
	"errors"
	"testing"

	"rental-search-service/internal/adapters/location"
	"rental-search-service/internal/adapters/sessionstore"
	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"

	"github.com/google/uuid"
)

type failingStorage struct {
	err error
}

func (s *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, s.err
}
func (s *failingStorage) Set(ctx context.Context, key, value string) error { return s.err }
func (s *failingStorage) Remove(ctx context.Context, key string) error     { return s.err }

func newTestProvider(t *testing.T, rawQuery string) (*Provider, *location.Location, port.SessionStoragePort) {
	t.Helper()
	loc := location.New("/search")
	loc.ReplaceQuery(rawQuery)
	storage := sessionstore.NewMemoryBackend().Scope(uuid.New())
	return NewProvider(context.Background(), loc, storage, contextkeys.NoopLogger()), loc, storage
}

func TestProvider_MountParsesURL(t *testing.T) {
	p, _, _ := newTestProvider(t, "type=PG&amenities=WiFi,AC")

	got := p.Filters()
	if got.Type == nil || *got.Type != "PG" {
		t.Fatalf("expected type PG, got %+v", got)
	}
	if len(got.Amenities) != 2 || got.Amenities[0] != "WiFi" || got.Amenities[1] != "AC" {
		t.Fatalf("unexpected amenities: %v", got.Amenities)
	}
	if p.ActiveFilterCount() != 2 {
		t.Fatalf("expected 2 active filters, got %d", p.ActiveFilterCount())
	}
}

func TestProvider_UpdateFilterDoesNotTouchURL(t *testing.T) {
	p, loc, _ := newTestProvider(t, "city=Jaipur&locality=Mansarovar")

	if err := p.UpdateFilter(domain.FilterCity, "Kota"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.RawQuery() != "city=Jaipur&locality=Mansarovar" {
		t.Fatalf("URL must not change before apply, got %q", loc.RawQuery())
	}

	f := p.Filters()
	if f.Has(domain.FilterLocality) {
		t.Fatalf("locality must be dropped when city changes")
	}
	if *f.City != "Kota" {
		t.Fatalf("expected city Kota, got %q", *f.City)
	}
}

func TestProvider_UpdateFilterError(t *testing.T) {
	p, _, _ := newTestProvider(t, "city=Jaipur")

	err := p.UpdateFilter(domain.FilterPriceMin, "lots")
	if !errors.Is(err, domain.ErrInvalidFilterValue) {
		t.Fatalf("expected ErrInvalidFilterValue, got %v", err)
	}
	if p.ActiveFilterCount() != 1 {
		t.Fatalf("state must be unchanged after a rejected update")
	}
}

func TestProvider_ApplyFiltersToURL(t *testing.T) {
	p, loc, _ := newTestProvider(t, "")

	_ = p.UpdateFilter(domain.FilterCity, "Jaipur")
	_ = p.UpdateFilter(domain.FilterVerified, true)
	_ = p.UpdateFilter(domain.FilterPriceMin, 5000)

	first := p.ApplyFiltersToURL()
	second := p.ApplyFiltersToURL()

	if first != "/search?city=Jaipur&verified=true&price_min=5000" {
		t.Fatalf("unexpected URL %q", first)
	}
	if first != second {
		t.Fatalf("apply is not idempotent: %q vs %q", first, second)
	}
	if loc.RawQuery() != "city=Jaipur&verified=true&price_min=5000" {
		t.Fatalf("location not updated: %q", loc.RawQuery())
	}
}

func TestProvider_ClearFiltersIsEager(t *testing.T) {
	p, loc, _ := newTestProvider(t, "city=Jaipur&type=PG&verified=true")

	_ = p.UpdateFilter(domain.FilterSearch, "balcony")
	p.ClearFilters()

	if !p.Filters().IsEmpty() {
		t.Fatalf("expected empty filters after clear")
	}
	if loc.RawQuery() != "" || loc.URL() != "/search" {
		t.Fatalf("expected URL query to be cleared immediately, got %q", loc.URL())
	}
}

func TestProvider_NavigateReplacesUnsyncedEdits(t *testing.T) {
	p, loc, _ := newTestProvider(t, "city=Jaipur")

	_ = p.UpdateFilter(domain.FilterType, "Flat")
	_ = p.UpdateFilter(domain.FilterFoodIncluded, true)

	p.Navigate("?city=Udaipur&price_max=8000")

	want := domain.ParseFilterQuery("city=Udaipur&price_max=8000")
	if !p.Filters().Equal(want) {
		t.Fatalf("navigation must replace state, got %+v", p.Filters())
	}
	if loc.RawQuery() != "city=Udaipur&price_max=8000" {
		t.Fatalf("unexpected location query %q", loc.RawQuery())
	}
}

func TestProvider_SetFiltersNormalizes(t *testing.T) {
	p, loc, _ := newTestProvider(t, "city=Jaipur")

	empty := ""
	p.SetFilters(domain.FilterState{Search: &empty, Amenities: []string{}, Verified: true})

	if p.ActiveFilterCount() != 1 {
		t.Fatalf("expected only verified to be active, got %d", p.ActiveFilterCount())
	}
	if loc.RawQuery() != "city=Jaipur" {
		t.Fatalf("SetFilters must not touch URL")
	}
}

func TestProvider_LocationAndNearMeMirrorToStorage(t *testing.T) {
	ctx := context.Background()
	p, _, storage := newTestProvider(t, "")

	loc := &domain.UserLocation{Latitude: 26.9124, Longitude: 75.7873}
	if err := p.SetUserLocation(ctx, loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, ok, _ := storage.Get(ctx, StorageKeyUserLocation)
	if !ok || raw != `{"latitude":26.9124,"longitude":75.7873}` {
		t.Fatalf("unexpected stored location %q (present=%t)", raw, ok)
	}

	if err := p.SetNearMeActive(ctx, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw, _, _ := storage.Get(ctx, StorageKeyNearMeActive); raw != "true" {
		t.Fatalf("expected near-me flag \"true\", got %q", raw)
	}

	if err := p.SetUserLocation(ctx, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := storage.Get(ctx, StorageKeyUserLocation); ok {
		t.Fatalf("expected stored location to be removed")
	}
	if p.UserLocation() != nil {
		t.Fatalf("expected location to be cleared in memory")
	}

	if err := p.SetNearMeActive(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw, _, _ := storage.Get(ctx, StorageKeyNearMeActive); raw != "false" {
		t.Fatalf("expected near-me flag \"false\", got %q", raw)
	}
}

func TestProvider_ReadsStorageOnMount(t *testing.T) {
	ctx := context.Background()
	backend := sessionstore.NewMemoryBackend()
	sessionID := uuid.New()
	storage := backend.Scope(sessionID)
	_ = storage.Set(ctx, StorageKeyUserLocation, `{"latitude":25.18,"longitude":75.83}`)
	_ = storage.Set(ctx, StorageKeyNearMeActive, "true")

	p := NewProvider(ctx, location.New(""), backend.Scope(sessionID), contextkeys.NoopLogger())

	loc := p.UserLocation()
	if loc == nil || loc.Latitude != 25.18 || loc.Longitude != 75.83 {
		t.Fatalf("expected stored location, got %+v", loc)
	}
	if !p.NearMeActive() {
		t.Fatalf("expected near-me to be restored")
	}
	if !p.Filters().IsEmpty() {
		t.Fatalf("filters must come from URL only")
	}
}

func TestProvider_IgnoresMalformedStoredLocation(t *testing.T) {
	ctx := context.Background()
	backend := sessionstore.NewMemoryBackend()
	sessionID := uuid.New()
	_ = backend.Scope(sessionID).Set(ctx, StorageKeyUserLocation, "{not json")
	_ = backend.Scope(sessionID).Set(ctx, StorageKeyNearMeActive, "yes")

	p := NewProvider(ctx, location.New(""), backend.Scope(sessionID), contextkeys.NoopLogger())
	if p.UserLocation() != nil || p.NearMeActive() {
		t.Fatalf("malformed stored values must be ignored")
	}
}

func TestProvider_StorageFailures(t *testing.T) {
	ctx := context.Background()
	storageErr := errors.New("storage unavailable")
	p := NewProvider(ctx, location.New(""), &failingStorage{err: storageErr}, contextkeys.NoopLogger())

	err := p.SetNearMeActive(ctx, true)
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !p.NearMeActive() {
		t.Fatalf("in-memory value must be updated even if storage write fails")
	}

	err = p.SetUserLocation(ctx, &domain.UserLocation{Latitude: 100})
	if !errors.Is(err, domain.ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
	if p.UserLocation() != nil {
		t.Fatalf("invalid location must not be stored")
	}
}

func TestProvider_SnapshotIsACopy(t *testing.T) {
	p, _, _ := newTestProvider(t, "amenities=WiFi,AC")

	snap := p.Snapshot()
	snap.Filters.Amenities[0] = "Gym"

	if p.Filters().Amenities[0] != "WiFi" {
		t.Fatalf("snapshot must not share memory with provider")
	}
	if snap.ActiveFilterCount != 1 || snap.URL != "/search?amenities=WiFi,AC" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
