package searchfilter

import (
	"context"
	"fmt"
	"time"

	"rental-search-service/internal/core/port"
)

// Janitor периодически выселяет простаивающие сессии из реестра.
type Janitor struct {
	registry *Registry
	interval time.Duration
	logger   port.LoggerPort
}

func NewJanitor(registry *Registry, interval time.Duration, logger port.LoggerPort) (*Janitor, error) {
	if registry == nil {
		return nil, fmt.Errorf("janitor: registry cannot be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("janitor: interval must be positive, got %s", interval)
	}
	return &Janitor{
		registry: registry,
		interval: interval,
		logger:   logger.WithFields(port.Fields{"component": "SessionJanitor"}),
	}, nil
}

// Start блокируется до отмены контекста.
func (j *Janitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Session janitor started", port.Fields{"interval": j.interval.String()})
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Session janitor stopped", nil)
			return nil
		case <-ticker.C:
			j.registry.EvictIdle(ctx)
		}
	}
}

func (j *Janitor) Close() error {
	return nil
}
