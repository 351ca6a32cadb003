package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"
	"github.com/okian/visitas/pkg/logger"
	"github.com/okian/visitas/pkg/metrics"
)

// Defaults for a Store.
const (
	DefaultTTL           = 30 * time.Minute
	DefaultMaxSessions   = 10_000
	DefaultSweepInterval = time.Minute
)

// Store maps session ids to sessions. Sessions idle longer than the TTL
// expire; when the store is full the least recently used one is evicted.
type Store struct {
	ttl           time.Duration
	maxSessions   int
	sweepInterval time.Duration
	now           func() time.Time
	log           logger.Logger

	mu       sync.Mutex
	lru      *lru.Cache
	sessions map[string]*Session
	expiring bool // set while removing expired entries, so OnEvicted can tell them apart

	created atomic.Int64
	evicted atomic.Int64
	expired atomic.Int64

	wg sync.WaitGroup
}

// Stats is a point-in-time view of the store.
type Stats struct {
	Active  int   `json:"active"`
	Created int64 `json:"created"`
	Evicted int64 `json:"evicted"`
	Expired int64 `json:"expired"`
}

// New creates a Store.
func New(opts ...Option) *Store {
	s := &Store{
		ttl:           DefaultTTL,
		maxSessions:   DefaultMaxSessions,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		sessions:      make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("session")
	}
	s.lru = lru.New(s.maxSessions)
	s.lru.OnEvicted = s.onEvicted
	return s
}

func (s *Store) onEvicted(key lru.Key, _ any) {
	delete(s.sessions, key.(string))
	if s.expiring {
		s.expired.Add(1)
		return
	}
	s.evicted.Add(1)
	metrics.RecordSessionsEvicted(1)
}

// Resolve returns the live session for id, or a new one when id is empty,
// unknown or expired. The second result reports whether it was created.
func (s *Store) Resolve(id string) (*Session, bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(), true
}

// Get returns the live session for id and marks it used.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.lru.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	now := s.now()
	if now.Sub(sess.lastSeen) >= s.ttl {
		s.expireLocked(id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Create starts a session with default state.
func (s *Store) Create() *Session {
	now := s.now()
	sess := &Session{
		id:       uuid.NewString(),
		created:  now,
		state:    NewState(),
		lastSeen: now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.lru.Add(sess.id, sess)
	active := s.lru.Len()
	s.mu.Unlock()

	s.created.Add(1)
	metrics.UpdateSessionsActive(active)
	return sess
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	s.expireLocked(id)
	active := s.lru.Len()
	s.mu.Unlock()
	metrics.UpdateSessionsActive(active)
}

// Len returns the number of live sessions, expired ones included until the
// next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Sweep removes every expired session and returns how many it removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	now := s.now()
	var stale []string
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) >= s.ttl {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		s.expireLocked(id)
	}
	active := s.lru.Len()
	s.mu.Unlock()

	metrics.UpdateSessionsActive(active)
	return len(stale)
}

// Stats reports session counters.
func (s *Store) Stats() Stats {
	return Stats{
		Active:  s.Len(),
		Created: s.created.Load(),
		Evicted: s.evicted.Load(),
		Expired: s.expired.Load(),
	}
}

// Run sweeps expired sessions periodically until ctx is done.
func (s *Store) Run(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					s.log.Debug(ctx, "expired sessions removed", logger.Int("count", n))
				}
			}
		}
	}()
}

// Wait blocks until the sweeper started by Run has exited.
func (s *Store) Wait() { s.wg.Wait() }

func (s *Store) expireLocked(id string) {
	s.expiring = true
	s.lru.Remove(id)
	s.expiring = false
}
