package postgres

import (
	"context"
	"errors"
	"fmt"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreign_key_violation
const pgForeignKeyViolation = "23503"

type InquiryRepository struct {
	pool *pgxpool.Pool
}

func NewInquiryRepository(pool *pgxpool.Pool) (*InquiryRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &InquiryRepository{pool: pool}, nil
}

func (r *InquiryRepository) Save(ctx context.Context, inquiry *domain.BookingInquiry) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "InquiryRepository",
		"inquiry_id": inquiry.ID,
		"listing_id": inquiry.ListingID,
	})

	_, err := r.pool.Exec(ctx, `
		INSERT INTO booking_inquiries (id, listing_id, session_id, name, phone, email, message, move_in_date, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)`,
		inquiry.ID, inquiry.ListingID, inquiry.SessionID, inquiry.Name, inquiry.Phone,
		inquiry.Email, inquiry.Message, inquiry.MoveInDate, inquiry.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w: %s", domain.ErrListingNotFound, inquiry.ListingID)
		}
		logger.Error("Failed to insert inquiry", err, nil)
		return fmt.Errorf("failed to save inquiry: %w", err)
	}

	logger.Debug("Inquiry saved", nil)
	return nil
}
