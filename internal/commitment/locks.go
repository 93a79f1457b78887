package commitment

import "sync"

// providerLocks serializes mutations per provider. Detection is lock-free,
// but a conflict check immediately before a write must not be invalidated by
// a concurrent write for the same provider.
type providerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProviderLocks() *providerLocks {
	return &providerLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *providerLocks) lock(providerID string) *sync.Mutex {
	p.mu.Lock()
	m, ok := p.locks[providerID]
	if !ok {
		m = &sync.Mutex{}
		p.locks[providerID] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m
}
