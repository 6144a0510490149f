package usecases_port

import (
	"context"

	"rental-search-service/internal/core/domain"
)

type GetDictionariesUseCase interface {
	Cities(ctx context.Context) ([]domain.DictionaryItem, error)
	Localities(ctx context.Context, city string) ([]domain.DictionaryItem, error)
}
