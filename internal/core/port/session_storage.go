package port

import (
	"context"

	"github.com/google/uuid"
)

// SessionStoragePort - key-value хранилище, живущее столько же, сколько сессия браузера.
// Экземпляр уже привязан к конкретной сессии.
type SessionStoragePort interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionBackendPort выдает хранилища для отдельных сессий и чистит их по окончании сессии.
type SessionBackendPort interface {
	Scope(sessionID uuid.UUID) SessionStoragePort
	Purge(ctx context.Context, sessionID uuid.UUID) error
}
