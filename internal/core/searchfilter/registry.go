package searchfilter

import (
	"context"
	"sync"
	"time"

	"rental-search-service/internal/core/port"
	"rental-search-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

// LocationFactory создает пустой URL страницы поиска для новой сессии.
type LocationFactory func() port.LocationPort

type RegistryConfig struct {
	// IdleTTL - через сколько без обращений сессия считается закрытой.
	IdleTTL time.Duration
	// Now подменяется в тестах.
	Now func() time.Time
}

type session struct {
	provider *Provider
	lastSeen time.Time
}

// Registry хранит провайдеры фильтров по идентификатору сессии браузера.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	// evicting - сессии, чей storage сейчас чистится; закрытие канала означает конец очистки
	evicting map[uuid.UUID]chan struct{}

	backend     port.SessionBackendPort
	newLocation LocationFactory
	idleTTL     time.Duration
	now         func() time.Time
	logger      port.LoggerPort
}

func NewRegistry(backend port.SessionBackendPort, newLocation LocationFactory, cfg RegistryConfig, logger port.LoggerPort) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	return &Registry{
		sessions:    make(map[uuid.UUID]*session),
		evicting:    make(map[uuid.UUID]chan struct{}),
		backend:     backend,
		newLocation: newLocation,
		idleTTL:     cfg.IdleTTL,
		now:         cfg.Now,
		logger:      logger.WithFields(port.Fields{"component": "SessionRegistry"}),
	}
}

// Acquire возвращает провайдер сессии, создавая его при первом обращении.
func (r *Registry) Acquire(ctx context.Context, sessionID uuid.UUID) (usecases_port.SearchFilterProvider, error) {
	p, err := r.touch(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	// Провайдер читает storage при создании, поэтому создаем его без блокировки реестра
	sessionLogger := r.logger.WithFields(port.Fields{"session_id": sessionID})
	created := NewProvider(ctx, r.newLocation(), r.backend.Scope(sessionID), sessionLogger)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[sessionID]; ok {
		// другой запрос той же сессии успел раньше
		existing.lastSeen = r.now()
		return existing.provider, nil
	}
	r.sessions[sessionID] = &session{provider: created, lastSeen: r.now()}
	sessionLogger.Info("Search session started", nil)
	return created, nil
}

// touch возвращает живой провайдер сессии или nil. Если storage сессии как раз
// чистится после выселения, ждет окончания очистки, чтобы новый провайдер не прочитал старые данные.
func (r *Registry) touch(ctx context.Context, sessionID uuid.UUID) (*Provider, error) {
	for {
		r.mu.Lock()
		if s, ok := r.sessions[sessionID]; ok {
			s.lastSeen = r.now()
			r.mu.Unlock()
			return s.provider, nil
		}
		done, purging := r.evicting[sessionID]
		r.mu.Unlock()

		if !purging {
			return nil, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Len - количество живых сессий.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle удаляет сессии, простаивающие дольше IdleTTL, и чистит их session storage.
// Возвращает количество удаленных сессий.
func (r *Registry) EvictIdle(ctx context.Context) int {
	deadline := r.now().Add(-r.idleTTL)

	// Выбор и удаление под одной блокировкой: touch, обновивший lastSeen, сюда уже не попадет
	r.mu.Lock()
	var expired []uuid.UUID
	for id, s := range r.sessions {
		if s.lastSeen.Before(deadline) {
			expired = append(expired, id)
			delete(r.sessions, id)
			r.evicting[id] = make(chan struct{})
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		if err := r.backend.Purge(ctx, id); err != nil {
			r.logger.Error("Failed to purge session storage", err, port.Fields{"session_id": id})
		}
		r.mu.Lock()
		close(r.evicting[id])
		delete(r.evicting, id)
		r.mu.Unlock()
	}

	if len(expired) > 0 {
		r.logger.Info("Idle search sessions evicted", port.Fields{"evicted": len(expired)})
	}
	return len(expired)
}
