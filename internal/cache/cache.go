package cache

import (
	"fmt"
	"sync"

	"github.com/mkravets/sdeconv/internal/montecarlo"
)

// Cache maps a (scenario, ε, parameters) key to a previously computed
// realization batch with reload-or-regenerate semantics. Reads and writes
// for distinct keys may run concurrently; access to one key is serialized
// so a write and a read never interleave.
type Cache struct {
	store   Store
	reload  bool
	persist bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New builds a cache over the given backend. reload enables returning
// persisted entries; persist enables writing freshly computed ones.
func New(store Store, reload, persist bool) *Cache {
	return &Cache{
		store:   store,
		reload:  reload,
		persist: persist,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (c *Cache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// GetOrCompute returns the persisted batch for key if present and reload
// is enabled, validating the stored parameters and shape against the key.
// Otherwise it invokes compute, persists the result when enabled, and
// returns it. A stored entry whose parameters or shape disagree with the
// key is an explicit error — never silently reshaped or regenerated.
func (c *Cache) GetOrCompute(key Key, compute func() (*montecarlo.Batch, error)) (*montecarlo.Batch, error) {
	l := c.keyLock(key.String())
	l.Lock()
	defer l.Unlock()

	if c.reload {
		entry, ok, err := c.store.Load(key.String())
		if err != nil {
			return nil, fmt.Errorf("cache load %s: %w", key, err)
		}
		if ok {
			if !entry.Meta.Matches(key) {
				return nil, fmt.Errorf("cache entry %s: stored parameters %+v do not match request", key, entry.Meta)
			}
			if entry.Batch.Dim != key.Dim || entry.Batch.N() != key.N {
				return nil, fmt.Errorf("cache entry %s: stored shape (%d, %d), expected (%d, %d)",
					key, entry.Batch.Dim, entry.Batch.N(), key.Dim, key.N)
			}
			return entry.Batch, nil
		}
	}

	batch, err := compute()
	if err != nil {
		return nil, err
	}

	if c.persist {
		if err := c.store.Save(key.String(), &Entry{Meta: key.Meta(), Batch: batch}); err != nil {
			return nil, fmt.Errorf("cache save %s: %w", key, err)
		}
	}
	return batch, nil
}
