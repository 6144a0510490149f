package usecase

import (
	"context"
	"strings"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"
)

type GetDictionariesUseCase struct {
	repo port.FilterOptionsRepositoryPort
}

func NewGetDictionariesUseCase(repo port.FilterOptionsRepositoryPort) *GetDictionariesUseCase {
	return &GetDictionariesUseCase{repo: repo}
}

// Cities - фиксированный набор городов, в которых есть объявления.
func (uc *GetDictionariesUseCase) Cities(ctx context.Context) ([]domain.DictionaryItem, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetDictionaries", "dictionary": "cities"})

	cities, err := uc.repo.GetUniqueCities(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error while getting cities", err, nil)
		return nil, err
	}
	ucLogger.Debug("Cities loaded", port.Fields{"count": len(cities)})
	return cities, nil
}

// Localities - районы внутри города.
func (uc *GetDictionariesUseCase) Localities(ctx context.Context, city string) ([]domain.DictionaryItem, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetDictionaries", "dictionary": "localities", "city": city})

	city = strings.TrimSpace(city)
	if city == "" {
		return []domain.DictionaryItem{}, nil
	}

	localities, err := uc.repo.GetLocalitiesByCity(ctx, city)
	if err != nil {
		ucLogger.Error("Storage returned an error while getting localities", err, nil)
		return nil, err
	}
	ucLogger.Debug("Localities loaded", port.Fields{"count": len(localities)})
	return localities, nil
}
