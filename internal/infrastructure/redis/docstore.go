package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/go-redis/redis/v8"
)

// DocumentStore implements ports.DocumentStore on Redis. Each document
// is one JSON value under "<collection>:<key>". Entries carry no Redis
// TTL; staleness is judged by the reader against the CachedAt stamp, so
// both store backends behave identically.
type DocumentStore struct {
	r redis.Cmdable
}

func NewDocumentStore(r redis.Cmdable) *DocumentStore {
	return &DocumentStore{r: r}
}

func docKey(collection, key string) string {
	return collection + ":" + key
}

func (s *DocumentStore) FindByKey(ctx context.Context, collection, key string) (*ports.Document, error) {
	val, err := s.r.Get(ctx, docKey(collection, key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var doc ports.Document
	if err := json.Unmarshal(val, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStore) Upsert(ctx context.Context, collection string, doc *ports.Document) error {
	val, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := s.r.Set(ctx, docKey(collection, doc.Key), val, 0).Err(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, key string) error {
	if err := s.r.Del(ctx, docKey(collection, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// BulkUpsert pipelines the writes and reports how many succeeded. A
// partially failed pipeline is not an error as long as something stuck.
func (s *DocumentStore) BulkUpsert(ctx context.Context, collection string, docs []*ports.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	pipe := s.r.Pipeline()
	queued := 0
	for _, doc := range docs {
		val, err := json.Marshal(doc)
		if err != nil {
			continue
		}
		pipe.Set(ctx, docKey(collection, doc.Key), val, 0)
		queued++
	}

	cmds, err := pipe.Exec(ctx)
	saved := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			saved++
		}
	}
	if saved == 0 && err != nil {
		return 0, fmt.Errorf("bulk document write failed: %w", err)
	}
	return saved, nil
}
