package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sourceRateLimiter tracks ingest rate limits per source host, so one noisy
// callback sender cannot starve deliveries from another.
type sourceRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	lastAccess map[string]time.Time
	rate       rate.Limit
	burst      int
}

func newSourceRateLimiter(perSecond int) *sourceRateLimiter {
	return &sourceRateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		lastAccess: make(map[string]time.Time),
		rate:       rate.Limit(perSecond),
		burst:      max(1, perSecond*2),
	}
}

func (s *sourceRateLimiter) Allow(source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, exists := s.limiters[source]
	if !exists {
		limiter = rate.NewLimiter(s.rate, s.burst)
		s.limiters[source] = limiter
	}
	s.lastAccess[source] = time.Now()
	return limiter.Allow()
}

// Evict removes source limiters that haven't been accessed within maxAge.
func (s *sourceRateLimiter) Evict(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	for source, last := range s.lastAccess {
		if last.Before(cutoff) {
			delete(s.limiters, source)
			delete(s.lastAccess, source)
		}
	}
}
