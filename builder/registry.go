package builder

import (
	"errors"
	"sync"
	"time"

	"github.com/erni27/imcache"
)

var ErrSessionNotFound = errors.New("builder session not found")

type entry struct {
	mu      sync.Mutex
	session *Session
}

// Registry keeps one Session per editing client. Sessions idle for longer
// than the ttl are dropped, whether or not anybody asks for them again.
type Registry struct {
	repo  Saver
	ttl   time.Duration
	cache *imcache.Cache[string, *entry]
}

func NewRegistry(repo Saver, ttl time.Duration) *Registry {
	return &Registry{
		repo:  repo,
		ttl:   ttl,
		cache: imcache.New(imcache.WithCleanerOption[string, *entry](ttl)),
	}
}

// Close drops every session and stops the background cleaner.
func (r *Registry) Close() {
	r.cache.Close()
}

func (r *Registry) expiration() imcache.Expiration {
	if r.ttl <= 0 {
		return imcache.WithNoExpiration()
	}
	return imcache.WithSlidingExpiration(r.ttl)
}

// Create registers an empty session and returns its id.
func (r *Registry) Create() string {
	id := newID()
	r.cache.Set(id, &entry{session: NewSession(r.repo)}, r.expiration())
	return id
}

// Do runs fn with exclusive access to the session.
func (r *Registry) Do(id string, fn func(*Session) error) error {
	e, ok := r.cache.Get(id)
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

func (r *Registry) Remove(id string) bool {
	return r.cache.Remove(id)
}
