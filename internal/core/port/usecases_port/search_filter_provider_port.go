package usecases_port

import (
	"context"

	"rental-search-service/internal/core/domain"

	"github.com/google/uuid"
)

// SearchFilterProvider - состояние фильтров одной сессии поиска.
type SearchFilterProvider interface {
	Filters() domain.FilterState
	SetFilters(state domain.FilterState)
	UpdateFilter(key domain.FilterKey, value any) error
	ClearFilters()
	ApplyFiltersToURL() string
	Navigate(rawQuery string)

	UserLocation() *domain.UserLocation
	SetUserLocation(ctx context.Context, location *domain.UserLocation) error
	NearMeActive() bool
	SetNearMeActive(ctx context.Context, active bool) error

	ActiveFilterCount() int
	Snapshot() domain.FilterSnapshot
}

// FilterSessionsPort выдает провайдер фильтров для сессии браузера.
type FilterSessionsPort interface {
	Acquire(ctx context.Context, sessionID uuid.UUID) (SearchFilterProvider, error)
}
