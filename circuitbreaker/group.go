package circuitbreaker

import "sync"

// Group hands out one breaker per name, creating each on first use with
// the shared Config.
type Group struct {
	config Config

	mu       sync.Mutex
	breakers map[string]CircuitBreaker
}

// NewGroup creates an empty group.
func NewGroup(cfg Config) *Group {
	return &Group{
		config:   cfg,
		breakers: make(map[string]CircuitBreaker),
	}
}

// Get returns the breaker for name.
func (g *Group) Get(name string) CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[name]; ok {
		return cb
	}
	cb := New(name, g.config)
	g.breakers[name] = cb
	return cb
}
