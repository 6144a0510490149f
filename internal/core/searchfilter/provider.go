// Package searchfilter хранит состояние фильтров поиска для одной сессии браузера
// и синхронизирует его с query-строкой URL.
//
// Правки через UpdateFilter живут только в памяти, пока не вызван ApplyFiltersToURL.
// ClearFilters, наоборот, сразу очищает URL. Внешняя навигация (Navigate) полностью
// заменяет состояние разобранным URL, несинхронизированные правки теряются.
package searchfilter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"
)

// Ключи в session storage.
const (
	StorageKeyUserLocation = "userLocation"
	StorageKeyNearMeActive = "nearMeActive"
)

// Provider - единственный источник правды о фильтрах сессии,
// координатах пользователя и флаге near-me.
type Provider struct {
	mu sync.Mutex

	filters      domain.FilterState
	userLocation *domain.UserLocation
	nearMeActive bool

	location port.LocationPort
	storage  port.SessionStoragePort
	logger   port.LoggerPort
}

// NewProvider создает провайдер ("монтирование"): координаты и near-me читаются
// из storage один раз, фильтры разбираются из текущего URL.
func NewProvider(ctx context.Context, location port.LocationPort, storage port.SessionStoragePort, logger port.LoggerPort) *Provider {
	p := &Provider{
		location: location,
		storage:  storage,
		logger:   logger.WithFields(port.Fields{"component": "SearchFilterProvider"}),
	}

	p.userLocation = p.loadUserLocation(ctx)
	p.nearMeActive = p.loadNearMeActive(ctx)
	p.filters = domain.ParseFilterQuery(location.RawQuery())

	p.logger.Debug("Provider mounted", port.Fields{
		"active_filters": p.filters.ActiveCount(),
		"has_location":   p.userLocation != nil,
		"near_me_active": p.nearMeActive,
	})
	return p
}

func (p *Provider) loadUserLocation(ctx context.Context) *domain.UserLocation {
	raw, ok, err := p.storage.Get(ctx, StorageKeyUserLocation)
	if err != nil {
		p.logger.Warn("Failed to read user location from session storage", port.Fields{"error": err.Error()})
		return nil
	}
	if !ok {
		return nil
	}

	var loc domain.UserLocation
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		p.logger.Warn("Stored user location is malformed, ignoring", port.Fields{"error": err.Error()})
		return nil
	}
	if err := loc.Validate(); err != nil {
		p.logger.Warn("Stored user location is out of range, ignoring", port.Fields{"error": err.Error()})
		return nil
	}
	return &loc
}

func (p *Provider) loadNearMeActive(ctx context.Context) bool {
	raw, ok, err := p.storage.Get(ctx, StorageKeyNearMeActive)
	if err != nil {
		p.logger.Warn("Failed to read near-me flag from session storage", port.Fields{"error": err.Error()})
		return false
	}
	return ok && raw == "true"
}

// Filters возвращает копию текущего состояния.
func (p *Provider) Filters() domain.FilterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters.Clone()
}

// SetFilters заменяет состояние целиком. URL не трогает.
func (p *Provider) SetFilters(state domain.FilterState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = state.Normalized()
}

// UpdateFilter меняет один ключ. URL не трогает.
func (p *Provider) UpdateFilter(key domain.FilterKey, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, err := p.filters.With(key, value)
	if err != nil {
		return err
	}
	p.filters = next
	return nil
}

// ClearFilters сбрасывает фильтры и сразу же очищает query-строку URL.
func (p *Provider) ClearFilters() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filters = domain.FilterState{}
	p.location.ReplaceQuery("")
}

// ApplyFiltersToURL записывает текущие фильтры в URL и возвращает новый URL.
func (p *Provider) ApplyFiltersToURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.location.ReplaceQuery(p.filters.EncodeQuery())
	return p.location.URL()
}

// Navigate обрабатывает внешнее изменение URL: query-строка заменяется,
// состояние строится заново только из нее.
func (p *Provider) Navigate(rawQuery string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.location.ReplaceQuery(rawQuery)
	p.filters = domain.ParseFilterQuery(rawQuery)
}

func (p *Provider) UserLocation() *domain.UserLocation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneLocation(p.userLocation)
}

// SetUserLocation сохраняет координаты (nil - очищает) и сразу пишет их в storage.
func (p *Provider) SetUserLocation(ctx context.Context, location *domain.UserLocation) error {
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.userLocation = cloneLocation(location)

	if location == nil {
		if err := p.storage.Remove(ctx, StorageKeyUserLocation); err != nil {
			return fmt.Errorf("failed to remove user location from session storage: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(location)
	if err != nil {
		return fmt.Errorf("failed to encode user location: %w", err)
	}
	if err := p.storage.Set(ctx, StorageKeyUserLocation, string(raw)); err != nil {
		return fmt.Errorf("failed to write user location to session storage: %w", err)
	}
	return nil
}

func (p *Provider) NearMeActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nearMeActive
}

// SetNearMeActive переключает режим near-me и сразу пишет флаг в storage.
func (p *Provider) SetNearMeActive(ctx context.Context, active bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nearMeActive = active
	if err := p.storage.Set(ctx, StorageKeyNearMeActive, strconv.FormatBool(active)); err != nil {
		return fmt.Errorf("failed to write near-me flag to session storage: %w", err)
	}
	return nil
}

// ActiveFilterCount вычисляется на каждый вызов из текущего состояния.
func (p *Provider) ActiveFilterCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters.ActiveCount()
}

// Snapshot возвращает согласованную копию всего состояния сессии.
func (p *Provider) Snapshot() domain.FilterSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return domain.FilterSnapshot{
		Filters:           p.filters.Clone(),
		ActiveFilterCount: p.filters.ActiveCount(),
		URL:               p.location.URL(),
		Query:             p.location.RawQuery(),
		UserLocation:      cloneLocation(p.userLocation),
		NearMeActive:      p.nearMeActive,
	}
}

func cloneLocation(loc *domain.UserLocation) *domain.UserLocation {
	if loc == nil {
		return nil
	}
	c := *loc
	return &c
}
