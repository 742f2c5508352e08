package webhook

import (
	"sync"
	"time"
)

// SeenSet remembers payment ids that have already been delivered, so a
// provider retry of the same notification becomes a no-op. In-memory
// only: the TTL keeps the map bounded across long uptimes, and losing
// the set on restart degrades to the provider's own retry window.
type SeenSet struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewSeenSet(ttl time.Duration) *SeenSet {
	return &SeenSet{
		ttl:  ttl,
		seen: map[string]time.Time{},
		now:  time.Now,
	}
}

// MarkIfNew inserts id if absent and reports whether it was new. Insert
// and check are one step under the lock, so two concurrent retries
// cannot both pass.
func (s *SeenSet) MarkIfNew(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = now
	return true
}

// Forget releases an id whose delivery failed, so the provider's retry
// gets another chance.
func (s *SeenSet) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, id)
}

func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// caller holds the lock
func (s *SeenSet) sweep(now time.Time) {
	for id, at := range s.seen {
		if now.Sub(at) > s.ttl {
			delete(s.seen, id)
		}
	}
}
