/*
Package registry owns the process's cache of built zones.

PURPOSE:
  Compiled zones are immutable singletons that callers look up by id. This
  package makes that cache an explicit, explicitly-owned object instead of
  ambient global state: construct a Registry, hand it a Store if compiled
  zones should outlive the process, and pass it to whatever serves queries.

CACHE-MISS PATH:
  Get checks memory first, then the Store (decoding and memoizing the
  blob), then reports ErrZoneNotFound.

CONCURRENCY:
  A RWMutex guards the map; the zones themselves are immutable, so handing
  the same Zone to many goroutines is free.

SEE ALSO:
  - store/sqlite: the SQLite-backed Store
  - zone/codec.go: the blob format
*/
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/meridian/zone-engine/zone"
)

// ErrZoneNotFound is returned by Get when neither memory nor the store
// knows the id.
var ErrZoneNotFound = errors.New("zone not found")

// Store persists encoded zones. Implementations must be safe for
// concurrent use.
type Store interface {
	// SaveZone writes the encoded zone, replacing any previous blob for id.
	SaveZone(ctx context.Context, id string, data []byte) error

	// LoadZone returns the encoded zone, or ErrZoneNotFound.
	LoadZone(ctx context.Context, id string) ([]byte, error)

	// ListZones returns the ids of every persisted zone.
	ListZones(ctx context.Context) ([]string, error)
}

// Registry is a thread-safe cache of built zones, optionally backed by a
// Store. The zero value is not usable; call New.
type Registry struct {
	mu    sync.RWMutex
	zones map[string]zone.Zone
	store Store // nil = memory only
}

// New creates a registry. store may be nil for a memory-only registry.
func New(store Store) *Registry {
	return &Registry{
		zones: make(map[string]zone.Zone),
		store: store,
	}
}

// Register caches the zone and, when a store is present, persists its
// encoded form. A zone with the same id is replaced.
func (r *Registry) Register(ctx context.Context, z zone.Zone) error {
	id := z.ID()
	if id == "" {
		return zone.ErrMissingID
	}

	if r.store != nil {
		data, err := zone.MarshalZone(z)
		if err != nil {
			return fmt.Errorf("encode zone %s: %w", id, err)
		}
		if err := r.store.SaveZone(ctx, id, data); err != nil {
			return fmt.Errorf("persist zone %s: %w", id, err)
		}
	}

	r.mu.Lock()
	r.zones[id] = z
	r.mu.Unlock()
	return nil
}

// Get returns the zone for id, loading it from the store on a memory miss.
func (r *Registry) Get(ctx context.Context, id string) (zone.Zone, error) {
	r.mu.RLock()
	z, ok := r.zones[id]
	r.mu.RUnlock()
	if ok {
		return z, nil
	}

	if r.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, id)
	}

	data, err := r.store.LoadZone(ctx, id)
	if err != nil {
		return nil, err
	}
	z, err = zone.UnmarshalZone(data)
	if err != nil {
		return nil, fmt.Errorf("decode zone %s: %w", id, err)
	}

	r.mu.Lock()
	// Another goroutine may have loaded it meanwhile; keep whichever is
	// already there so callers keep seeing one instance.
	if cached, ok := r.zones[id]; ok {
		z = cached
	} else {
		r.zones[id] = z
	}
	r.mu.Unlock()
	return z, nil
}

// IDs returns the sorted union of cached and persisted zone ids.
func (r *Registry) IDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)

	r.mu.RLock()
	for id := range r.zones {
		seen[id] = true
	}
	r.mu.RUnlock()

	if r.store != nil {
		stored, err := r.store.ListZones(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range stored {
			seen[id] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
