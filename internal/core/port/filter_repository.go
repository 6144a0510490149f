package port

import (
	"context"

	"rental-search-service/internal/core/domain"
)

type FilterOptionsRepositoryPort interface {
	GetPriceRange(ctx context.Context, city string) (lo, hi int, err error)
	GetDistinctTypes(ctx context.Context, city string) ([]string, error)
	GetDistinctAmenities(ctx context.Context, city string) ([]string, error)

	GetUniqueCities(ctx context.Context) ([]domain.DictionaryItem, error)
	GetLocalitiesByCity(ctx context.Context, city string) ([]domain.DictionaryItem, error)
}
