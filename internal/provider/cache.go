// Package provider holds helpers shared by the backend adapters.
package provider

import "sync"

// ClientCache keeps one SDK client per credential secret. Clients are built
// lazily on first use and reused for the life of the adapter.
type ClientCache[C any] struct {
	mu      sync.RWMutex
	clients map[string]C
	build   func(secret string) (C, error)
}

// NewClientCache returns a cache that creates clients with build.
func NewClientCache[C any](build func(secret string) (C, error)) *ClientCache[C] {
	return &ClientCache[C]{
		clients: make(map[string]C),
		build:   build,
	}
}

// Get returns the client for secret, building it if needed.
func (c *ClientCache[C]) Get(secret string) (C, error) {
	c.mu.RLock()
	client, ok := c.clients[secret]
	c.mu.RUnlock()
	if ok {
		return client, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if client, ok := c.clients[secret]; ok {
		return client, nil
	}

	client, err := c.build(secret)
	if err != nil {
		var zero C
		return zero, err
	}
	c.clients[secret] = client
	return client, nil
}

// Len returns the number of cached clients.
func (c *ClientCache[C]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients)
}
