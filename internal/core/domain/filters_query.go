package domain

import (
	"net/url"
	"strconv"
	"strings"
)

const amenitiesSeparator = ","

// ParseFilterQuery собирает FilterState из query-строки URL.
// Разбор "best effort": некорректные параметры просто пропускаются,
// неизвестные игнорируются.
func ParseFilterQuery(rawQuery string) FilterState {
	// ParseQuery возвращает все, что удалось разобрать, даже при ошибке
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	return ParseFilterValues(values)
}

// ParseFilterValues - то же, что ParseFilterQuery, но для уже разобранных url.Values.
func ParseFilterValues(values url.Values) FilterState {
	var s FilterState

	for _, key := range []FilterKey{FilterCity, FilterLocality, FilterType, FilterSearch, FilterSuitableFor} {
		if v := values.Get(string(key)); v != "" {
			s.setString(key, v)
		}
	}

	s.Verified = values.Get(string(FilterVerified)) == "true"
	s.FoodIncluded = values.Get(string(FilterFoodIncluded)) == "true"

	s.PriceMin = parseIntParam(values, FilterPriceMin)
	s.PriceMax = parseIntParam(values, FilterPriceMax)

	if raw := values.Get(string(FilterAmenities)); raw != "" {
		s.Amenities = compactStrings(strings.Split(raw, amenitiesSeparator))
	}

	return s
}

// parseIntParam возвращает nil, если параметра нет или он не целое число.
func parseIntParam(values url.Values, key FilterKey) *int {
	raw := values.Get(string(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// EncodeQuery сериализует состояние в query-строку (без ведущего "?").
// Порядок параметров фиксирован (FilterKeys), флаги пишутся только когда true,
// списки склеиваются через запятую.
func (s FilterState) EncodeQuery() string {
	var b strings.Builder
	for _, key := range FilterKeys {
		if !s.Has(key) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(string(key)))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(s.paramValue(key)))
	}
	return b.String()
}

// QueryValues - представление состояния в виде url.Values.
func (s FilterState) QueryValues() url.Values {
	values := make(url.Values)
	for _, key := range FilterKeys {
		if s.Has(key) {
			values.Set(string(key), s.paramValue(key))
		}
	}
	return values
}

func (s FilterState) paramValue(key FilterKey) string {
	switch key {
	case FilterCity, FilterLocality, FilterType, FilterSearch, FilterSuitableFor:
		return *s.stringField(key)
	case FilterVerified, FilterFoodIncluded:
		return "true"
	case FilterPriceMin:
		return strconv.Itoa(*s.PriceMin)
	case FilterPriceMax:
		return strconv.Itoa(*s.PriceMax)
	case FilterAmenities:
		return strings.Join(s.Amenities, amenitiesSeparator)
	}
	return ""
}
