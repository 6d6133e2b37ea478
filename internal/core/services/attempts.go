package services

import (
	"sync"
	"time"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// AttemptStore is the in-process correlation map for pending OAuth
// attempts, keyed by the attempt ID carried in the state parameter.
// Entries are inserted on flow start and removed on resolution or expiry,
// so concurrent flows from the same host never overwrite each other.
type AttemptStore struct {
	mu       sync.Mutex
	attempts map[string]*domain.Attempt
}

// NewAttemptStore creates an empty attempt store.
func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]*domain.Attempt),
	}
}

// Save registers a pending attempt.
func (s *AttemptStore) Save(a *domain.Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.ID] = a
}

// Get returns the pending attempt for an ID. Expired attempts are dropped
// and reported as absent.
func (s *AttemptStore) Get(id string) (*domain.Attempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[id]
	if !ok {
		return nil, false
	}
	if a.Expired(time.Now()) {
		delete(s.attempts, id)
		return nil, false
	}
	return a, true
}

// GetAndDelete atomically removes and returns the pending attempt,
// guaranteeing an envelope resolves an attempt at most once.
func (s *AttemptStore) GetAndDelete(id string) (*domain.Attempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[id]
	if !ok {
		return nil, false
	}
	delete(s.attempts, id)
	if a.Expired(time.Now()) {
		return nil, false
	}
	return a, true
}

// Delete removes an attempt without returning it.
func (s *AttemptStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, id)
}

// Cleanup removes expired attempts, resolving each as cancelled so waiters
// observe the abandonment instead of hanging. Returns how many were removed.
func (s *AttemptStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, a := range s.attempts {
		if !a.Expired(now) {
			continue
		}
		delete(s.attempts, id)
		a.Resolve(domain.AttemptResult{
			Err: domain.NewCancelledError("attempt expired without completion"),
		})
		removed++
	}
	return removed
}

// Len returns the number of pending attempts.
func (s *AttemptStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}
