package usecases_port

import (
	"context"

	"rental-search-service/internal/core/domain"
)

type CreateInquiryUseCase interface {
	Execute(ctx context.Context, req domain.NewInquiry) (*domain.BookingInquiry, error)
}
