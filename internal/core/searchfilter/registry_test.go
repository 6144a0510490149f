package searchfilter

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-search-service/internal/adapters/location"
	"rental-search-service/internal/adapters/sessionstore"
	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

// slowPurgeBackend держит Purge, пока тест не отпустит release.
type slowPurgeBackend struct {
	*sessionstore.MemoryBackend
	started chan struct{}
	release chan struct{}
}

func (b *slowPurgeBackend) Purge(ctx context.Context, sessionID uuid.UUID) error {
	close(b.started)
	<-b.release
	return b.MemoryBackend.Purge(ctx, sessionID)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestRegistry(clock *fakeClock, backend *sessionstore.MemoryBackend) *Registry {
	return NewRegistry(backend, location.Factory("/search"), RegistryConfig{
		IdleTTL: 10 * time.Minute,
		Now:     clock.Now,
	}, contextkeys.NoopLogger())
}

func TestRegistry_AcquireReturnsSameProvider(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	r := newTestRegistry(clock, sessionstore.NewMemoryBackend())

	sessionID := uuid.New()
	first, err := r.Acquire(ctx, sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = first.UpdateFilter(domain.FilterCity, "Jaipur")

	second, _ := r.Acquire(ctx, sessionID)
	if second.ActiveFilterCount() != 1 {
		t.Fatalf("expected the same session state")
	}

	other, _ := r.Acquire(ctx, uuid.New())
	if other.ActiveFilterCount() != 0 {
		t.Fatalf("sessions must be isolated")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}
}

func TestRegistry_EvictIdlePurgesStorage(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	backend := sessionstore.NewMemoryBackend()
	r := newTestRegistry(clock, backend)

	idle := uuid.New()
	p, _ := r.Acquire(ctx, idle)
	_ = p.SetNearMeActive(ctx, true)

	clock.now = clock.now.Add(8 * time.Minute)
	active := uuid.New()
	_, _ = r.Acquire(ctx, active)

	clock.now = clock.now.Add(5 * time.Minute)
	if n := r.EvictIdle(ctx); n != 1 {
		t.Fatalf("expected 1 evicted session, got %d", n)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 remaining session, got %d", r.Len())
	}
	if backend.Sessions() != 0 {
		t.Fatalf("expected storage of evicted session to be purged")
	}

	// После выселения сессия начинается заново
	again, _ := r.Acquire(ctx, idle)
	if again.NearMeActive() {
		t.Fatalf("evicted session must not keep near-me flag")
	}
}

func TestJanitor_StopsOnContextCancel(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	r := newTestRegistry(clock, sessionstore.NewMemoryBackend())

	j, err := NewJanitor(r, time.Millisecond, contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop")
	}

	if _, err := NewJanitor(r, 0, contextkeys.NoopLogger()); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}

func TestRegistry_AcquireWaitsForPurgeOfEvictedSession(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	backend := &slowPurgeBackend{
		MemoryBackend: sessionstore.NewMemoryBackend(),
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	r := NewRegistry(backend, location.Factory("/search"), RegistryConfig{IdleTTL: 10 * time.Minute, Now: clock.Now}, contextkeys.NoopLogger())

	sessionID := uuid.New()
	p, _ := r.Acquire(ctx, sessionID)
	_ = p.SetNearMeActive(ctx, true)
	clock.now = clock.now.Add(11 * time.Minute)

	evicted := make(chan int, 1)
	go func() { evicted <- r.EvictIdle(ctx) }()
	<-backend.started

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Acquire(cancelled, sessionID); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled while purge is running, got %v", err)
	}

	acquired := make(chan usecases_port.SearchFilterProvider, 1)
	go func() {
		next, _ := r.Acquire(ctx, sessionID)
		acquired <- next
	}()

	select {
	case <-acquired:
		t.Fatalf("Acquire must wait until storage of the evicted session is purged")
	case <-time.After(50 * time.Millisecond):
	}

	close(backend.release)
	select {
	case next := <-acquired:
		if next.NearMeActive() {
			t.Fatalf("new provider must not read storage of the evicted session")
		}
	case <-time.After(time.Second):
		t.Fatalf("Acquire did not resume after purge")
	}
	if n := <-evicted; n != 1 {
		t.Fatalf("expected 1 evicted session, got %d", n)
	}
}
