package ports

import (
	"context"
	"encoding/json"
)

// CacheEntry pairs a request-parameter map with the payload to cache
// under its derived key.
type CacheEntry struct {
	Params  map[string]any
	Payload any
}

// ResultCache caches expensive upstream responses keyed by a
// deterministic hash of the request parameters. A miss is signalled by
// ok=false and is the only outcome callers must distinguish from a hit;
// whether a miss came from absence, staleness or a store failure is an
// implementation detail. Implementations degrade gracefully so callers
// can always fall through to the upstream.
type ResultCache interface {
	// Get returns the cached payload for the parameter set. ok=false on miss.
	Get(ctx context.Context, params map[string]any) (json.RawMessage, bool, error)
	// Put caches payload under the parameter set's key.
	Put(ctx context.Context, params map[string]any, payload any) error
	// BatchPut caches all entries in one unordered bulk write and
	// returns how many were persisted; partial failure does not abort.
	BatchPut(ctx context.Context, entries []CacheEntry) (int, error)
}
