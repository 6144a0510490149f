package postgres

import (
	"context"
	"fmt"
	"strings"

	"rental-search-service/internal/core/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type FilterRepository struct {
	pool *pgxpool.Pool
}

func NewFilterRepository(pool *pgxpool.Pool) (*FilterRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FilterRepository{pool: pool}, nil
}

// buildCityWhere - хелпер для WHERE с необязательным городом
func buildCityWhere(city string) (string, []interface{}) {
	conditions := []string{"status = 'active'"}
	args := make([]interface{}, 0, 1)
	if city != "" {
		conditions = append(conditions, "city = $1")
		args = append(args, city)
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// GetPriceRange получает минимальную и максимальную месячную цену
func (r *FilterRepository) GetPriceRange(ctx context.Context, city string) (lo, hi int, err error) {
	whereClause, args := buildCityWhere(city)
	query := fmt.Sprintf(`SELECT COALESCE(MIN(price), 0), COALESCE(MAX(price), 0) FROM listings %s`, whereClause)

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&lo, &hi); err != nil {
		return 0, 0, fmt.Errorf("failed to get price range: %w", err)
	}
	return lo, hi, nil
}

// GetDistinctTypes получает типы жилья (PG, Flat, Hostel...)
func (r *FilterRepository) GetDistinctTypes(ctx context.Context, city string) ([]string, error) {
	whereClause, args := buildCityWhere(city)
	query := fmt.Sprintf(`
		SELECT DISTINCT type FROM listings
		%s AND type IS NOT NULL AND type != ''
		ORDER BY type`, whereClause)

	return r.queryStrings(ctx, "types", query, args...)
}

// GetDistinctAmenities разворачивает массивы удобств в плоский список
func (r *FilterRepository) GetDistinctAmenities(ctx context.Context, city string) ([]string, error) {
	whereClause, args := buildCityWhere(city)
	query := fmt.Sprintf(`
		SELECT DISTINCT a FROM listings, unnest(amenities) AS a
		%s AND a != ''
		ORDER BY a`, whereClause)

	return r.queryStrings(ctx, "amenities", query, args...)
}

// GetUniqueCities извлекает города, в которых есть активные объявления
func (r *FilterRepository) GetUniqueCities(ctx context.Context) ([]domain.DictionaryItem, error) {
	query := `
		SELECT DISTINCT city FROM listings
		WHERE status = 'active' AND city IS NOT NULL AND city != ''
		ORDER BY city`

	names, err := r.queryStrings(ctx, "cities", query)
	if err != nil {
		return nil, err
	}
	return toDictionary(names), nil
}

// GetLocalitiesByCity извлекает районы выбранного города
func (r *FilterRepository) GetLocalitiesByCity(ctx context.Context, city string) ([]domain.DictionaryItem, error) {
	query := `
		SELECT DISTINCT locality FROM listings
		WHERE status = 'active' AND city = $1 AND locality IS NOT NULL AND locality != ''
		ORDER BY locality`

	names, err := r.queryStrings(ctx, "localities", query, city)
	if err != nil {
		return nil, err
	}
	return toDictionary(names), nil
}

func (r *FilterRepository) queryStrings(ctx context.Context, what, query string, args ...interface{}) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", what, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// toDictionary: системное имя хранится как есть, отображаемое - в Title Case
func toDictionary(names []string) []domain.DictionaryItem {
	caser := cases.Title(language.English)
	items := make([]domain.DictionaryItem, 0, len(names))
	for _, name := range names {
		items = append(items, domain.DictionaryItem{
			SystemName:  name,
			DisplayName: caser.String(strings.TrimSpace(name)),
		})
	}
	return items
}
