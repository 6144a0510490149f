package usecases_port

import (
	"context"

	"rental-search-service/internal/core/domain"
)

type FindListingsUseCase interface {
	Execute(ctx context.Context, query domain.ListingQuery, limit, offset int) (*domain.PaginatedListings, error)
}
