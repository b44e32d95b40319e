package server

import (
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/image-router/internal/engine"
)

// SessionCache keeps one open Session per file path so repeated tools on
// the same file skip the read-and-sniff work.
//
// Cached sessions may advance to other representations as tools route
// operations through converters; that is fine, since a Session always
// holds the same underlying picture. Entries stay until Evict() or Clear();
// long-running servers handling many files should clear periodically.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Session
}

// NewSessionCache creates an empty cache ready for use.
func NewSessionCache() *SessionCache {
	return &SessionCache{
		sessions: make(map[string]*engine.Session),
	}
}

// Open returns the cached Session for path, or reads and decodes the file
// if it is not cached. The path string is used verbatim as the cache key.
func (c *SessionCache) Open(path string) (*engine.Session, error) {
	c.mu.RLock()
	if sess, ok := c.sessions[path]; ok {
		c.mu.RUnlock()
		return sess, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	sess, err := engine.Open(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sessions[path] = sess
	c.mu.Unlock()

	return sess, nil
}

// Evict removes the Session cached for path, if any.
func (c *SessionCache) Evict(path string) {
	c.mu.Lock()
	delete(c.sessions, path)
	c.mu.Unlock()
}

// Clear drops every cached Session.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	c.sessions = make(map[string]*engine.Session)
	c.mu.Unlock()
}
