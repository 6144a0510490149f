package port

import (
	"context"

	"rental-search-service/internal/core/domain"
)

// InquiryRepositoryPort - хранилище заявок на бронирование.
type InquiryRepositoryPort interface {
	Save(ctx context.Context, inquiry *domain.BookingInquiry) error
}

// InquiryNotifierPort публикует событие о новой заявке для владельца объявления.
type InquiryNotifierPort interface {
	InquiryCreated(ctx context.Context, inquiry *domain.BookingInquiry) error
}
