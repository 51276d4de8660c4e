package ports

import (
	"context"
	"encoding/json"
	"time"
)

// Document is one cached entry as persisted in the document store. The
// original request parameters ride along for auditing; Payload stays
// opaque at this boundary.
type Document struct {
	Key           string          `json:"cache_key" db:"cache_key"`
	RequestParams json.RawMessage `json:"request_params" db:"request_params"`
	Payload       json.RawMessage `json:"payload" db:"payload"`
	CachedAt      time.Time       `json:"cached_at" db:"cached_at"`
}

// DocumentStore is the minimal key/document contract the cache needs
// from its backing store. Nothing beyond upsert, point lookup, delete
// and unordered bulk upsert is part of this contract; implementations
// may be relational, key-value or document databases.
type DocumentStore interface {
	// FindByKey returns the document for key, or (nil, nil) when absent.
	FindByKey(ctx context.Context, collection, key string) (*Document, error)
	// Upsert inserts or replaces the document identified by doc.Key.
	Upsert(ctx context.Context, collection string, doc *Document) error
	// Delete removes the document for key; absence is not an error.
	Delete(ctx context.Context, collection, key string) error
	// BulkUpsert upserts all documents without ordering guarantees and
	// returns how many were persisted. A failing document must not
	// prevent the others from being written.
	BulkUpsert(ctx context.Context, collection string, docs []*Document) (int, error)
}
