package attendance

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service manages event rosters on top of a Store. Every mutation loads the
// full roster, changes it and writes it back; there is no cache and no
// locking, so callers must not run concurrent mutations for one event.
type Service struct {
	store Store
	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(eventID int64)
}

// Option customises a Service.
type Option func(*Service)

// WithClock sets the time source used for check-in and check-out stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator sets the attendee ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
		listeners: make(map[int]func(int64)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to run after every persisted roster change.
// The returned func removes the subscription.
func (s *Service) Subscribe(fn func()) (unsubscribe func()) {
	return s.SubscribeEvents(func(int64) { fn() })
}

// SubscribeEvents is like Subscribe but passes the changed event's ID.
func (s *Service) SubscribeEvents(fn func(eventID int64)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) notify(eventID int64) {
	// Listeners run in subscription order, outside the lock so they may
	// subscribe or unsubscribe themselves.
	s.mu.Lock()
	fns := make([]func(int64), 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		callListener(fn, eventID)
	}
}

func callListener(fn func(int64), eventID int64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("roster change listener panicked for event %d: %v", eventID, r)
		}
	}()
	fn(eventID)
}

// Roster returns the current roster of an event, empty if none is stored.
func (s *Service) Roster(ctx context.Context, eventID int64) ([]Entry, error) {
	return s.load(ctx, eventID)
}

// ResetRoster deletes the stored roster of an event.
func (s *Service) ResetRoster(ctx context.Context, eventID int64) error {
	if err := s.store.Remove(ctx, RosterKey(eventID)); err != nil {
		return fmt.Errorf("remove roster %d: %w", eventID, err)
	}
	s.notify(eventID)
	return nil
}

// Stats computes attendance statistics for an event.
func (s *Service) Stats(ctx context.Context, eventID int64) (Stats, error) {
	entries, err := s.load(ctx, eventID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(entries), nil
}
