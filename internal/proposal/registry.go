package proposal

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atmosphere-labs/proposal-engine/lru"
)

// Registry is the in-memory home of live sessions, bounded by an LRU so an
// abandoned-session pileup cannot grow without limit. Evicted sessions are
// simply gone; a client holding a stale ID gets a not-found and starts over.
type Registry struct {
	cache  *lru.Cache[string, *Session]
	logger zerolog.Logger
	onSize func(int)
}

// NewRegistry creates a registry holding at most capacity sessions.
// onSize, if non-nil, observes the resident count after each change.
func NewRegistry(capacity int, logger zerolog.Logger, onSize func(int)) *Registry {
	return &Registry{
		cache:  lru.New[string, *Session](capacity),
		logger: logger.With().Str("component", "session_registry").Logger(),
		onSize: onSize,
	}
}

// Create makes a new session with a fresh ID and registers it.
func (r *Registry) Create() *Session {
	s := NewSession(uuid.New().String())
	if evicted, ok := r.cache.Put(s.ID(), s); ok {
		r.logger.Info().Str("session_id", evicted).Msg("evicted least recently used session")
	}
	r.notify()
	return s
}

// Get retrieves a session by ID, refreshing its recency.
func (r *Registry) Get(id string) (*Session, bool) {
	return r.cache.Get(id)
}

// Delete removes a session. Returns true if it existed.
func (r *Registry) Delete(id string) bool {
	ok := r.cache.Delete(id)
	r.notify()
	return ok
}

// Len returns the resident session count.
func (r *Registry) Len() int {
	return r.cache.Len()
}

func (r *Registry) notify() {
	if r.onSize != nil {
		r.onSize(r.cache.Len())
	}
}
