package domain

import "errors"

var (
	// ErrUnknownFilterKey - ключ фильтра не входит в поддерживаемый набор.
	ErrUnknownFilterKey = errors.New("unknown filter key")
	// ErrInvalidFilterValue - значение не подходит по форме для данного ключа.
	ErrInvalidFilterValue = errors.New("invalid filter value")

	ErrInvalidLocation = errors.New("invalid user location")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrListingNotFound = errors.New("listing not found")
)
