package domain

// FilterSnapshot - согласованная копия состояния одной сессии поиска.
type FilterSnapshot struct {
	Filters           FilterState
	ActiveFilterCount int
	URL               string
	Query             string
	UserLocation      *UserLocation
	NearMeActive      bool
}
