package usecase

import (
	"context"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"
)

type GetFilterOptionsUseCase struct {
	repo port.FilterOptionsRepositoryPort
}

func NewGetFilterOptionsUseCase(repo port.FilterOptionsRepositoryPort) *GetFilterOptionsUseCase {
	return &GetFilterOptionsUseCase{repo: repo}
}

// Execute собирает значения для контролов фильтра. Город необязателен:
// без него опции считаются по всем объявлениям.
// Ошибка отдельной опции не валит весь ответ, опция просто остается пустой.
func (uc *GetFilterOptionsUseCase) Execute(ctx context.Context, city string) (*domain.FilterOptionsResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetFilterOptions",
		"city":     city,
	})

	ucLogger.Info("Use case started", nil)

	result := &domain.FilterOptionsResult{}
	failed := 0

	lo, hi, err := uc.repo.GetPriceRange(ctx, city)
	if err != nil {
		ucLogger.Warn("Failed to get price range", port.Fields{"error": err.Error()})
		failed++
	} else {
		result.PriceMin, result.PriceMax = lo, hi
	}

	types, err := uc.repo.GetDistinctTypes(ctx, city)
	if err != nil {
		ucLogger.Warn("Failed to get property types", port.Fields{"error": err.Error()})
		failed++
	} else {
		result.Types = types
	}

	amenities, err := uc.repo.GetDistinctAmenities(ctx, city)
	if err != nil {
		ucLogger.Warn("Failed to get amenities", port.Fields{"error": err.Error()})
		failed++
	} else {
		result.Amenities = amenities
	}

	if failed == 3 {
		ucLogger.Error("All filter options failed", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"failed_options": failed})
	return result, nil
}
