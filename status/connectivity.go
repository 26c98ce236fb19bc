package status

import (
	"context"
	"sync"
	"time"

	"github.com/sp0x/solrctl/store"
)

// Pinger checks whether a collection can serve requests.
type Pinger interface {
	Ping(ctx context.Context, addr store.Address) error
}

// ConnectivityCache remembers successful pings for a while so that health checks
// don't hit the stores on every request.
type ConnectivityCache struct {
	pinger Pinger
	ttl    time.Duration
	lock   sync.RWMutex
	ok     map[string]time.Time
}

func NewConnectivityCache(pinger Pinger, ttl time.Duration) *ConnectivityCache {
	return &ConnectivityCache{
		pinger: pinger,
		ttl:    ttl,
		ok:     make(map[string]time.Time),
	}
}

// IsOk returns whether a successful ping for addr is still cached.
func (c *ConnectivityCache) IsOk(addr store.Address) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	checked, found := c.ok[addr.String()]
	return found && time.Since(checked) < c.ttl
}

// Invalidate drops the cached result of addr.
func (c *ConnectivityCache) Invalidate(addr store.Address) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.ok, addr.String())
}

// Test pings addr unless a recent ping succeeded. Failures are never cached.
func (c *ConnectivityCache) Test(ctx context.Context, addr store.Address) error {
	if c.IsOk(addr) {
		return nil
	}
	if err := c.pinger.Ping(ctx, addr); err != nil {
		c.Invalidate(addr)
		return err
	}
	c.lock.Lock()
	c.ok[addr.String()] = time.Now()
	c.lock.Unlock()
	return nil
}
