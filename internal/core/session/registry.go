package session

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/pkg/observability"
)

var ErrNotFound = errors.New("session not found")

// Registry keeps the sessions of this process. A session not touched for the configured idle
// TTL is evicted.
type Registry struct {
	// Instance identifies this process. Frames queued for its sessions are routed by it.
	Instance string

	c   *cache.Cache
	ttl time.Duration
}

func NewRegistry(conf *appconfig.Config) *Registry {
	return newRegistry(conf.SessionIdleTTL)
}

func newRegistry(ttl time.Duration) *Registry {
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, _ any) {
		observability.ActiveSessions.Dec()
		log.Debug().
			Str("evt.name", "session.evicted").
			Str("session.id", id).
			Msg("session evicted")
	})

	return &Registry{
		Instance: xid.New().String(),
		c:        c,
		ttl:      ttl,
	}
}

func (r *Registry) Create() *Session {
	s := newSession(xid.New().String())
	r.c.Set(s.ID, s, r.ttl)
	observability.ActiveSessions.Inc()

	log.Info().
		Str("evt.name", "session.created").
		Str("session.id", s.ID).
		Msg("session created")

	return s
}

// Get returns the session with id and extends its idle TTL.
func (r *Registry) Get(id string) (*Session, error) {
	v, ok := r.c.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s := v.(*Session)
	r.c.Set(id, s, r.ttl)
	return s, nil
}

func (r *Registry) Delete(id string) error {
	if _, ok := r.c.Get(id); !ok {
		return ErrNotFound
	}
	r.c.Delete(id)
	return nil
}

func (r *Registry) Count() int {
	return r.c.ItemCount()
}

// Each calls fn for every live session.
func (r *Registry) Each(fn func(s *Session)) {
	for _, item := range r.c.Items() {
		fn(item.Object.(*Session))
	}
}
