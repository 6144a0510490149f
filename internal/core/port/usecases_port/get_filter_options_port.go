package usecases_port

import (
	"context"

	"rental-search-service/internal/core/domain"
)

type GetFilterOptionsUseCase interface {
	Execute(ctx context.Context, city string) (*domain.FilterOptionsResult, error)
}
