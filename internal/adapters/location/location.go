// Package location - URL страницы поиска одной сессии, хранящийся в памяти.
package location

import (
	"strings"
	"sync"

	"rental-search-service/internal/core/port"
)

// DefaultSearchPath - путь страницы со списком объявлений.
const DefaultSearchPath = "/search"

type Location struct {
	mu       sync.RWMutex
	path     string
	rawQuery string
}

func New(path string) *Location {
	if path == "" {
		path = DefaultSearchPath
	}
	return &Location{path: path}
}

// Factory возвращает фабрику пустых URL с заданным путем.
func Factory(path string) func() port.LocationPort {
	return func() port.LocationPort {
		return New(path)
	}
}

func (l *Location) RawQuery() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rawQuery
}

func (l *Location) ReplaceQuery(rawQuery string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rawQuery = strings.TrimPrefix(rawQuery, "?")
}

func (l *Location) URL() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.rawQuery == "" {
		return l.path
	}
	return l.path + "?" + l.rawQuery
}
