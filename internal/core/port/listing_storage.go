package port

import (
	"context"

	"rental-search-service/internal/core/domain"

	"github.com/google/uuid"
)

// ListingStoragePort - поиск объявлений по фильтрам.
type ListingStoragePort interface {
	FindWithFilters(ctx context.Context, query domain.ListingQuery, limit, offset int) (*domain.PaginatedListings, error)
	Exists(ctx context.Context, listingID uuid.UUID) (bool, error)
}
