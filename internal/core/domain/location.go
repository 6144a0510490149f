package domain

import (
	"fmt"
	"math"

	"github.com/mmcloughlin/geohash"
)

// NearMeGeohashPrecision - точность ячейки geohash для режима "рядом со мной" (~5 км).
const NearMeGeohashPrecision = 5

const earthRadiusKm = 6371.0

// UserLocation - координаты пользователя, закэшированные на время сессии.
type UserLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate проверяет диапазоны координат.
func (l UserLocation) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidLocation, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidLocation, l.Longitude)
	}
	return nil
}

// Geohash кодирует координаты с заданной точностью.
func (l UserLocation) Geohash(precision uint) string {
	return geohash.EncodeWithPrecision(l.Latitude, l.Longitude, precision)
}

// NeighbourhoodCells возвращает ячейку пользователя и 8 соседних:
// объявления из этих ячеек считаются "рядом".
func (l UserLocation) NeighbourhoodCells(precision uint) []string {
	center := l.Geohash(precision)
	return append([]string{center}, geohash.Neighbors(center)...)
}

// DistanceKm - расстояние по большому кругу до точки (lat, lon).
func (l UserLocation) DistanceKm(lat, lon float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat - l.Latitude)
	dLon := toRad(lon - l.Longitude)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(l.Latitude))*math.Cos(toRad(lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
