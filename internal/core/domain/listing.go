package domain

import (
	"time"

	"github.com/google/uuid"
)

// ListingQuery - то, по чему ищутся объявления: фильтры плюс,
// если режим "рядом со мной" включен, координаты пользователя.
type ListingQuery struct {
	Filters FilterState
	NearMe  *UserLocation
}

// NewListingQuery строит запрос из снимка состояния сессии.
// Координаты учитываются только при включенном near-me.
func NewListingQuery(snapshot FilterSnapshot) ListingQuery {
	q := ListingQuery{Filters: snapshot.Filters.Clone()}
	if snapshot.NearMeActive && snapshot.UserLocation != nil {
		loc := *snapshot.UserLocation
		q.NearMe = &loc
	}
	return q
}

// ListingCard - краткая информация об объявлении для списка.
type ListingCard struct {
	ID           uuid.UUID
	Title        string
	City         string
	Locality     string
	Type         string
	Address      string
	Price        int
	Verified     bool
	Amenities    []string
	SuitableFor  string
	FoodIncluded bool
	Images       []string
	Latitude     float64
	Longitude    float64
	UpdatedAt    time.Time

	// Заполняется только в режиме near-me
	DistanceKm *float64
}

// PaginatedListings - страница результатов поиска.
type PaginatedListings struct {
	Listings     []ListingCard
	TotalCount   int64
	CurrentPage  int
	ItemsPerPage int
}

// FilterOptionsResult - доступные значения для контролов фильтра.
type FilterOptionsResult struct {
	PriceMin  int
	PriceMax  int
	Types     []string
	Amenities []string
}

// DictionaryItem - элемент справочника (город, район).
type DictionaryItem struct {
	SystemName  string
	DisplayName string
}
