package rest

import (
	"time"

	"rental-search-service/internal/core/domain"
)

// FilterSnapshotResponse - состояние поиска одной сессии
type FilterSnapshotResponse struct {
	Filters           domain.FilterState   `json:"filters"`
	ActiveFilterCount int                  `json:"active_filter_count"`
	URL               string               `json:"url"`
	Query             string               `json:"query"`
	UserLocation      *domain.UserLocation `json:"user_location"`
	NearMeActive      bool                 `json:"near_me_active"`
}

func toSnapshotResponse(s domain.FilterSnapshot) FilterSnapshotResponse {
	return FilterSnapshotResponse{
		Filters:           s.Filters,
		ActiveFilterCount: s.ActiveFilterCount,
		URL:               s.URL,
		Query:             s.Query,
		UserLocation:      s.UserLocation,
		NearMeActive:      s.NearMeActive,
	}
}

// FilterUpdateRequest - PATCH /filters
type FilterUpdateRequest struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// NearMeRequest - PUT /session/near-me
type NearMeRequest struct {
	Active bool `json:"active"`
}

// ApplyFiltersResponse - URL после синхронизации фильтров
type ApplyFiltersResponse struct {
	URL               string `json:"url"`
	ActiveFilterCount int    `json:"active_filter_count"`
}

// ListingCardResponse - карточка объявления в выдаче
type ListingCardResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	City         string    `json:"city"`
	Locality     string    `json:"locality,omitempty"`
	Type         string    `json:"type"`
	Address      string    `json:"address"`
	Price        int       `json:"price"`
	Verified     bool      `json:"verified"`
	Amenities    []string  `json:"amenities"`
	SuitableFor  string    `json:"suitable_for,omitempty"`
	FoodIncluded bool      `json:"food_included"`
	Images       []string  `json:"images"`
	UpdatedAt    time.Time `json:"updated_at"`
	DistanceKm   *float64  `json:"distance_km,omitempty"`
}

// SearchResponse - страница выдачи вместе с состоянием фильтров
type SearchResponse struct {
	Data    []ListingCardResponse  `json:"listings"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"per_page"`
	State   FilterSnapshotResponse `json:"state"`
}

type FilterOptionsResponse struct {
	PriceMin  int      `json:"price_min"`
	PriceMax  int      `json:"price_max"`
	Types     []string `json:"types"`
	Amenities []string `json:"amenities"`
}

type DictionaryItemResponse struct {
	SystemName  string `json:"system_name"`
	DisplayName string `json:"display_name"`
}

// InquiryRequest - POST /listings/{listingID}/inquiries
type InquiryRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	MoveInDate string `json:"move_in_date"`
}

type InquiryResponse struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func toListingCardResponse(card domain.ListingCard) ListingCardResponse {
	amenities := card.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := card.Images
	if images == nil {
		images = []string{}
	}
	return ListingCardResponse{
		ID:           card.ID.String(),
		Title:        card.Title,
		City:         card.City,
		Locality:     card.Locality,
		Type:         card.Type,
		Address:      card.Address,
		Price:        card.Price,
		Verified:     card.Verified,
		Amenities:    amenities,
		SuitableFor:  card.SuitableFor,
		FoodIncluded: card.FoodIncluded,
		Images:       images,
		UpdatedAt:    card.UpdatedAt,
		DistanceKm:   card.DistanceKm,
	}
}

func toDictionaryResponse(items []domain.DictionaryItem) []DictionaryItemResponse {
	response := make([]DictionaryItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, DictionaryItemResponse{
			SystemName:  item.SystemName,
			DisplayName: item.DisplayName,
		})
	}
	return response
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
