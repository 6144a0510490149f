package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

const defaultPhoneRegion = "IN"

type CreateInquiryUseCase struct {
	listings    port.ListingStoragePort
	repo        port.InquiryRepositoryPort
	notifier    port.InquiryNotifierPort
	phoneRegion string
	now         func() time.Time
}

func NewCreateInquiryUseCase(
	listings port.ListingStoragePort,
	repo port.InquiryRepositoryPort,
	notifier port.InquiryNotifierPort,
	phoneRegion string,
) *CreateInquiryUseCase {
	if phoneRegion == "" {
		phoneRegion = defaultPhoneRegion
	}
	return &CreateInquiryUseCase{
		listings:    listings,
		repo:        repo,
		notifier:    notifier,
		phoneRegion: phoneRegion,
		now:         time.Now,
	}
}

func (uc *CreateInquiryUseCase) Execute(ctx context.Context, req domain.NewInquiry) (*domain.BookingInquiry, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "CreateInquiry",
		"listing_id": req.ListingID,
		"session_id": req.SessionID,
	})

	ucLogger.Info("Use case started", nil)

	phone, err := normalizePhone(req.Phone, uc.phoneRegion)
	if err != nil {
		ucLogger.Warn("Rejected inquiry with invalid phone", nil)
		return nil, err
	}

	exists, err := uc.listings.Exists(ctx, req.ListingID)
	if err != nil {
		ucLogger.Error("Failed to check listing", err, nil)
		return nil, fmt.Errorf("failed to check listing: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrListingNotFound, req.ListingID)
	}

	inquiry := &domain.BookingInquiry{
		ID:         uuid.New(),
		ListingID:  req.ListingID,
		SessionID:  req.SessionID,
		Name:       strings.TrimSpace(req.Name),
		Phone:      phone,
		Email:      strings.TrimSpace(req.Email),
		Message:    strings.TrimSpace(req.Message),
		MoveInDate: req.MoveInDate,
		CreatedAt:  uc.now().UTC(),
	}

	if err := uc.repo.Save(ctx, inquiry); err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return nil, fmt.Errorf("failed to save inquiry: %w", err)
	}

	// Заявка уже сохранена; если брокер недоступен, владелец увидит ее в кабинете
	if err := uc.notifier.InquiryCreated(ctx, inquiry); err != nil {
		ucLogger.Error("Failed to publish inquiry event", err, port.Fields{"inquiry_id": inquiry.ID})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"inquiry_id": inquiry.ID})
	return inquiry, nil
}

// normalizePhone приводит номер к E.164.
func normalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", domain.ErrInvalidPhone)
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(number) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidPhone, raw)
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}
