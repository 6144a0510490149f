package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// FilterKey - имя фильтра. Совпадает с именем query-параметра в URL.
type FilterKey string

const (
	FilterCity         FilterKey = "city"
	FilterLocality     FilterKey = "locality"
	FilterType         FilterKey = "type"
	FilterSearch       FilterKey = "search"
	FilterVerified     FilterKey = "verified"
	FilterPriceMin     FilterKey = "price_min"
	FilterPriceMax     FilterKey = "price_max"
	FilterAmenities    FilterKey = "amenities"
	FilterSuitableFor  FilterKey = "suitable_for"
	FilterFoodIncluded FilterKey = "food_included"
)

// FilterKeys - все поддерживаемые ключи в каноническом порядке.
// В этом же порядке параметры пишутся в URL.
var FilterKeys = []FilterKey{
	FilterCity,
	FilterLocality,
	FilterType,
	FilterSearch,
	FilterVerified,
	FilterPriceMin,
	FilterPriceMax,
	FilterAmenities,
	FilterSuitableFor,
	FilterFoodIncluded,
}

// ParseFilterKey проверяет, что строка - известный ключ фильтра.
func ParseFilterKey(s string) (FilterKey, error) {
	key := FilterKey(s)
	if !slices.Contains(FilterKeys, key) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilterKey, s)
	}
	return key, nil
}

// FilterState - набор активных фильтров поиска.
//
// Ключ считается присутствующим только если его значение осмысленно:
// не nil, не пустая строка, не пустой список, true для флагов.
// Очистка фильтра удаляет ключ, а не записывает пустое значение.
type FilterState struct {
	City         *string  `json:"city,omitempty"`
	Locality     *string  `json:"locality,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Search       *string  `json:"search,omitempty"`
	Verified     bool     `json:"verified,omitempty"`
	PriceMin     *int     `json:"price_min,omitempty"`
	PriceMax     *int     `json:"price_max,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	SuitableFor  *string  `json:"suitable_for,omitempty"`
	FoodIncluded bool     `json:"food_included,omitempty"`
}

func (s FilterState) stringField(key FilterKey) *string {
	switch key {
	case FilterCity:
		return s.City
	case FilterLocality:
		return s.Locality
	case FilterType:
		return s.Type
	case FilterSearch:
		return s.Search
	case FilterSuitableFor:
		return s.SuitableFor
	}
	return nil
}

// Has сообщает, присутствует ли ключ в состоянии.
func (s FilterState) Has(key FilterKey) bool {
	switch key {
	case FilterCity, FilterLocality, FilterType, FilterSearch, FilterSuitableFor:
		v := s.stringField(key)
		return v != nil && *v != ""
	case FilterVerified:
		return s.Verified
	case FilterFoodIncluded:
		return s.FoodIncluded
	case FilterPriceMin:
		return s.PriceMin != nil
	case FilterPriceMax:
		return s.PriceMax != nil
	case FilterAmenities:
		return len(s.Amenities) > 0
	}
	return false
}

// ActiveCount - количество присутствующих ключей.
func (s FilterState) ActiveCount() int {
	count := 0
	for _, key := range FilterKeys {
		if s.Has(key) {
			count++
		}
	}
	return count
}

// IsEmpty - true, если ни один фильтр не задан.
func (s FilterState) IsEmpty() bool {
	return s.ActiveCount() == 0
}

// Clone возвращает глубокую копию состояния.
func (s FilterState) Clone() FilterState {
	out := FilterState{
		City:         cloneString(s.City),
		Locality:     cloneString(s.Locality),
		Type:         cloneString(s.Type),
		Search:       cloneString(s.Search),
		Verified:     s.Verified,
		PriceMin:     cloneInt(s.PriceMin),
		PriceMax:     cloneInt(s.PriceMax),
		SuitableFor:  cloneString(s.SuitableFor),
		FoodIncluded: s.FoodIncluded,
	}
	if len(s.Amenities) > 0 {
		out.Amenities = slices.Clone(s.Amenities)
	}
	return out
}

// Normalized удаляет ключи с пустыми значениями, чтобы состояние
// соответствовало правилу присутствия.
func (s FilterState) Normalized() FilterState {
	out := s.Clone()
	for _, key := range []FilterKey{FilterCity, FilterLocality, FilterType, FilterSearch, FilterSuitableFor} {
		if !out.Has(key) {
			out = out.Without(key)
		}
	}
	out.Amenities = compactStrings(out.Amenities)
	return out
}

// Equal сравнивает два состояния по присутствующим ключам.
func (s FilterState) Equal(other FilterState) bool {
	for _, key := range FilterKeys {
		if s.Has(key) != other.Has(key) {
			return false
		}
	}
	a, b := s.Normalized(), other.Normalized()
	return equalString(a.City, b.City) &&
		equalString(a.Locality, b.Locality) &&
		equalString(a.Type, b.Type) &&
		equalString(a.Search, b.Search) &&
		equalString(a.SuitableFor, b.SuitableFor) &&
		equalInt(a.PriceMin, b.PriceMin) &&
		equalInt(a.PriceMax, b.PriceMax) &&
		a.Verified == b.Verified &&
		a.FoodIncluded == b.FoodIncluded &&
		slices.Equal(a.Amenities, b.Amenities)
}

// Without возвращает копию состояния без указанного ключа.
func (s FilterState) Without(key FilterKey) FilterState {
	out := s.Clone()
	switch key {
	case FilterCity:
		out.City = nil
	case FilterLocality:
		out.Locality = nil
	case FilterType:
		out.Type = nil
	case FilterSearch:
		out.Search = nil
	case FilterVerified:
		out.Verified = false
	case FilterPriceMin:
		out.PriceMin = nil
	case FilterPriceMax:
		out.PriceMax = nil
	case FilterAmenities:
		out.Amenities = nil
	case FilterSuitableFor:
		out.SuitableFor = nil
	case FilterFoodIncluded:
		out.FoodIncluded = false
	}
	return out
}

// With возвращает новое состояние, в котором ключ key установлен в value.
// Пустое значение (nil, "", пустой список, false) удаляет ключ.
// Установка city всегда сбрасывает locality.
// При ошибке исходное состояние не меняется.
func (s FilterState) With(key FilterKey, value any) (FilterState, error) {
	if !slices.Contains(FilterKeys, key) {
		return s, fmt.Errorf("%w: %q", ErrUnknownFilterKey, key)
	}

	out := s.Clone()
	switch key {
	case FilterCity, FilterLocality, FilterType, FilterSearch, FilterSuitableFor:
		str, err := coerceString(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidFilterValue, key, err)
		}
		out = out.Without(key)
		if str != "" {
			out.setString(key, str)
		}
	case FilterVerified, FilterFoodIncluded:
		flag, err := coerceBool(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidFilterValue, key, err)
		}
		if key == FilterVerified {
			out.Verified = flag
		} else {
			out.FoodIncluded = flag
		}
	case FilterPriceMin, FilterPriceMax:
		n, err := coerceInt(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidFilterValue, key, err)
		}
		if key == FilterPriceMin {
			out.PriceMin = n
		} else {
			out.PriceMax = n
		}
	case FilterAmenities:
		list, err := coerceStrings(value)
		if err == nil {
			err = checkAmenities(list)
		}
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidFilterValue, key, err)
		}
		out.Amenities = list
	}

	if key == FilterCity {
		out.Locality = nil
	}
	return out, nil
}

func (s *FilterState) setString(key FilterKey, v string) {
	switch key {
	case FilterCity:
		s.City = &v
	case FilterLocality:
		s.Locality = &v
	case FilterType:
		s.Type = &v
	case FilterSearch:
		s.Search = &v
	case FilterSuitableFor:
		s.SuitableFor = &v
	}
}

func coerceString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case *string:
		if v == nil {
			return "", nil
		}
		return *v, nil
	}
	return "", fmt.Errorf("expected string, got %T", value)
}

func coerceBool(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case *bool:
		return v != nil && *v, nil
	}
	return false, fmt.Errorf("expected bool, got %T", value)
}

func coerceInt(value any) (*int, error) {
	var n int
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		n = v
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	case *int:
		if v == nil {
			return nil, nil
		}
		n = *v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("expected integer, got %v", v)
		}
		// float64(math.MaxInt) округляется вверх до 2^63, поэтому граница строгая
		if v < math.MinInt || v >= math.MaxInt {
			return nil, fmt.Errorf("integer out of range: %v", v)
		}
		n = int(v)
	case json.Number:
		i, err := strconv.Atoi(v.String())
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", v.String())
		}
		n = i
	case string:
		if v == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", v)
		}
		n = i
	default:
		return nil, fmt.Errorf("expected integer, got %T", value)
	}
	return &n, nil
}

func coerceStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return compactStrings(v), nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of strings, got element %T", item)
			}
			list = append(list, str)
		}
		return compactStrings(list), nil
	}
	return nil, fmt.Errorf("expected list of strings, got %T", value)
}

// checkAmenities не пропускает элементы с разделителем списка: в URL они бы распались на несколько.
func checkAmenities(list []string) error {
	for _, item := range list {
		if strings.Contains(item, amenitiesSeparator) {
			return fmt.Errorf("amenity %q contains %q", item, amenitiesSeparator)
		}
	}
	return nil
}

// Validate проверяет состояние, пришедшее целиком (PUT), на то, что оно переживет URL.
func (s FilterState) Validate() error {
	if err := checkAmenities(s.Amenities); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFilterValue, FilterAmenities, err)
	}
	return nil
}

// compactStrings убирает пустые элементы; пустой результат - nil.
func compactStrings(list []string) []string {
	var out []string
	for _, item := range list {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
