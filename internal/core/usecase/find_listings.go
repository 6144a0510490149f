package usecase

import (
	"context"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"
)

type FindListingsUseCase struct {
	storage port.ListingStoragePort
}

func NewFindListingsUseCase(storage port.ListingStoragePort) *FindListingsUseCase {
	return &FindListingsUseCase{storage: storage}
}

func (uc *FindListingsUseCase) Execute(ctx context.Context, query domain.ListingQuery, limit, offset int) (*domain.PaginatedListings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "FindListings",
		"filters":  query.Filters.EncodeQuery(),
		"near_me":  query.NearMe != nil,
		"limit":    limit,
		"offset":   offset,
	})

	ucLogger.Info("Use case started", nil)

	result, err := uc.storage.FindWithFilters(ctx, query, limit, offset)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	// Расстояние считаем здесь, а не в SQL: хранилищу нужен только порядок
	if query.NearMe != nil {
		for i := range result.Listings {
			card := &result.Listings[i]
			d := query.NearMe.DistanceKm(card.Latitude, card.Longitude)
			card.DistanceKm = &d
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Listings),
	})

	return result, nil
}
