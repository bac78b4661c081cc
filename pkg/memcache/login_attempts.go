package memcache

import (
	"sync"
	"time"
)

// AttemptStore counts failures per key inside a sliding TTL.
type AttemptStore interface {
	// Fail records a failure and returns the count inside the current window.
	Fail(key string) int

	// Blocked reports whether key has reached the limit and is still inside
	// its window.
	Blocked(key string) bool

	// Reset forgets key.
	Reset(key string)
}

type entry struct {
	count     int
	expiresAt time.Time
}

type LoginAttempts struct {
	mu    sync.Mutex
	data  map[string]entry
	limit int
	ttl   time.Duration
	now   func() time.Time
}

func NewLoginAttempts(limit int, ttl time.Duration) *LoginAttempts {
	return &LoginAttempts{
		data:  make(map[string]entry),
		limit: limit,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *LoginAttempts) Fail(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.data[key]
	if !ok || now.After(e.expiresAt) {
		e = entry{}
	}
	e.count++
	e.expiresAt = now.Add(s.ttl)
	s.data[key] = e

	s.sweep(now)
	return e.count
}

func (s *LoginAttempts) Blocked(key string) bool {
	if s.limit <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.data, key) // cleanup expired
		return false
	}
	return e.count >= s.limit
}

func (s *LoginAttempts) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// sweep drops expired entries once the map grows; callers hold mu.
func (s *LoginAttempts) sweep(now time.Time) {
	if len(s.data) < 1024 {
		return
	}
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
