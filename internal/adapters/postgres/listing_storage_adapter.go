package postgres

import (
	"context"
	"fmt"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ListingStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewListingStorageAdapter(pool *pgxpool.Pool) (*ListingStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingStorageAdapter{pool: pool}, nil
}

// FindWithFilters ищет объявления по фильтрам сессии с пагинацией
func (a *ListingStorageAdapter) FindWithFilters(ctx context.Context, query domain.ListingQuery, limit, offset int) (*domain.PaginatedListings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ListingStorageAdapter",
		"method":    "FindWithFilters",
		"limit":     limit,
		"offset":    offset,
		"near_me":   query.NearMe != nil,
	})

	whereClause, args, orderBy := applyListingFilters(query)

	// COUNT и выборка страницы в одной транзакции
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings l %s", whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count listings with filters", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count listings with filters: %w", err)
	}

	result := &domain.PaginatedListings{
		Listings:     []domain.ListingCard{},
		TotalCount:   totalCount,
		CurrentPage:  offset/limit + 1,
		ItemsPerPage: limit,
	}

	if totalCount == 0 {
		repoLogger.Debug("No listings match filters", nil)
		return result, nil
	}

	dataQuery := fmt.Sprintf(`
		SELECT l.id, l.title, l.city, l.locality, l.type, l.address, l.price, l.verified,
			   l.amenities, l.suitable_for, l.food_included, l.images, l.latitude, l.longitude, l.updated_at
		FROM listings l
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, whereClause, orderBy, len(args)+1, len(args)+2)

	rows, err := tx.Query(ctx, dataQuery, append(args, limit, offset)...)
	if err != nil {
		repoLogger.Error("Failed to find listings with filters", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to find listings with filters: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.ListingCard, 0, limit)
	for rows.Next() {
		var card domain.ListingCard
		if err := rows.Scan(
			&card.ID, &card.Title, &card.City, &card.Locality, &card.Type, &card.Address, &card.Price,
			&card.Verified, &card.Amenities, &card.SuitableFor, &card.FoodIncluded, &card.Images,
			&card.Latitude, &card.Longitude, &card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Successfully found listings for page", port.Fields{
		"total_count": totalCount,
		"count":       len(listings),
	})

	result.Listings = listings
	return result, nil
}

// Exists проверяет, что объявление существует и активно
func (a *ListingStorageAdapter) Exists(ctx context.Context, listingID uuid.UUID) (bool, error) {
	var exists bool
	err := a.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1 AND status = 'active')`, listingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check listing %s: %w", listingID, err)
	}
	return exists, nil
}
