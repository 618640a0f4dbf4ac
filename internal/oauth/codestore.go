package oauth

import (
	"sync"
	"time"
)

// CodeStore tracks consumed authorization codes so a replayed code is
// rejected before any exchange is attempted. Claims are atomic under the
// mutex, and entries expire after the TTL so the set stays bounded.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]time.Time
	ttl   time.Duration
}

// NewCodeStore creates a CodeStore with the given entry TTL
func NewCodeStore(ttl time.Duration) *CodeStore {
	return &CodeStore{
		codes: make(map[string]time.Time),
		ttl:   ttl,
	}
}

// Claim marks a code as consumed. It returns false if the code was already
// claimed and has not yet expired.
func (s *CodeStore) Claim(code string) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for c, expiry := range s.codes {
		if now.After(expiry) {
			delete(s.codes, c)
		}
	}

	if _, used := s.codes[code]; used {
		return false
	}
	s.codes[code] = now.Add(s.ttl)
	return true
}
