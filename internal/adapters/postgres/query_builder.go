package postgres

import (
	"fmt"
	"strings"

	"rental-search-service/internal/core/domain"
)

const defaultListingOrder = "l.updated_at DESC, l.id ASC"

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
	orderBy    string
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: []string{"l.status = 'active'"},
		args:       make([]interface{}, 0),
		orderBy:    defaultListingOrder,
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

func (qb *queryBuilder) addIntFilter(fieldName string, min *int, max *int) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) addStringFilter(fieldName string, value *string) {
	if value != nil && *value != "" {
		qb.addCondition("%s = $%d", fieldName, *value)
	}
}

// addNearMe ограничивает выборку ячейкой пользователя и ее соседями
// и сортирует по приблизительному расстоянию до пользователя
func (qb *queryBuilder) addNearMe(loc *domain.UserLocation) {
	if loc == nil {
		return
	}

	cells := loc.NeighbourhoodCells(domain.NearMeGeohashPrecision)
	qb.conditions = append(qb.conditions, fmt.Sprintf("left(l.geohash, %d) = ANY($%d)", domain.NearMeGeohashPrecision, qb.argId))
	qb.args = append(qb.args, cells)
	qb.argId++

	// Равнопрямоугольная проекция: для сортировки в пределах пары десятков км точности хватает
	latArg, lonArg := qb.argId, qb.argId+1
	qb.args = append(qb.args, loc.Latitude, loc.Longitude)
	qb.argId += 2
	qb.orderBy = fmt.Sprintf(
		"power(l.latitude - $%d, 2) + power((l.longitude - $%d) * cos(radians($%d)), 2) ASC, l.id ASC",
		latArg, lonArg, latArg,
	)
}

// build создает финальные части запроса
func (qb *queryBuilder) build() (string, []interface{}, string) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args, qb.orderBy
}

// applyListingFilters разбирает запрос поиска и строит WHERE и ORDER BY
func applyListingFilters(query domain.ListingQuery) (string, []interface{}, string) {
	qb := newQueryBuilder()
	f := query.Filters

	qb.addStringFilter("l.city", f.City)
	qb.addStringFilter("l.locality", f.Locality)
	qb.addStringFilter("l.type", f.Type)
	qb.addStringFilter("l.suitable_for", f.SuitableFor)

	// Текстовый поиск по заголовку и адресу
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + escapeLike(*f.Search) + "%"
		qb.conditions = append(qb.conditions, fmt.Sprintf("(l.title ILIKE $%d OR l.address ILIKE $%d)", qb.argId, qb.argId))
		qb.args = append(qb.args, pattern)
		qb.argId++
	}

	if f.Verified {
		qb.conditions = append(qb.conditions, "l.verified = true")
	}
	if f.FoodIncluded {
		qb.conditions = append(qb.conditions, "l.food_included = true")
	}

	qb.addIntFilter("l.price", f.PriceMin, f.PriceMax)

	// Объявление должно содержать все выбранные удобства
	if len(f.Amenities) > 0 {
		qb.addCondition("%s @> $%d", "l.amenities", f.Amenities)
	}

	qb.addNearMe(query.NearMe)

	return qb.build()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
