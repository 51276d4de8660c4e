package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// CacheKey derives the deterministic cache key for a request-parameter
// map: the sha256 hex digest of its canonical JSON form. encoding/json
// marshals map keys in sorted order at every nesting level, so two
// set-equal parameter maps always hash identically regardless of how
// they were assembled.
func CacheKey(params map[string]any) (string, error) {
	canonical, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize request params: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// CacheService implements ports.ResultCache over a document store with
// a fixed TTL. Staleness is enforced by the reader: an expired entry is
// deleted on lookup and reported as a plain miss.
type CacheService struct {
	store      ports.DocumentStore
	collection string
	ttl        time.Duration
	logger     *logrus.Logger
	lookups    *prometheus.CounterVec
}

func NewCacheService(store ports.DocumentStore, collection string, ttl time.Duration, logger *logrus.Logger, lookups *prometheus.CounterVec) ports.ResultCache {
	return &CacheService{
		store:      store,
		collection: collection,
		ttl:        ttl,
		logger:     logger,
		lookups:    lookups,
	}
}

func (s *CacheService) Get(ctx context.Context, params map[string]any) (json.RawMessage, bool, error) {
	key, err := CacheKey(params)
	if err != nil {
		return nil, false, err
	}

	doc, err := s.store.FindByKey(ctx, s.collection, key)
	if err != nil {
		// A failing store must not fail the pipeline; the caller falls
		// through to the upstream as on any miss.
		if s.logger != nil {
			s.logger.WithField("cache_key", shortKey(key)).WithError(err).Warn("cache lookup failed")
		}
		s.count("miss")
		return nil, false, nil
	}
	if doc == nil {
		s.count("miss")
		return nil, false, nil
	}

	age := time.Since(doc.CachedAt)
	if age >= s.ttl {
		if err := s.store.Delete(ctx, s.collection, key); err != nil && s.logger != nil {
			s.logger.WithField("cache_key", shortKey(key)).WithError(err).Warn("failed to delete stale cache entry")
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"cache_key": shortKey(key), "age": age}).Debug("cache entry stale")
		}
		s.count("miss")
		return nil, false, nil
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"cache_key": shortKey(key), "age": age}).Debug("cache hit")
	}
	s.count("hit")
	return doc.Payload, true, nil
}

func (s *CacheService) Put(ctx context.Context, params map[string]any, payload any) error {
	doc, err := s.document(params, payload)
	if err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, s.collection, doc); err != nil {
		return fmt.Errorf("failed to cache entry %s: %w", shortKey(doc.Key), err)
	}
	return nil
}

func (s *CacheService) BatchPut(ctx context.Context, entries []ports.CacheEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	docs := make([]*ports.Document, 0, len(entries))
	for _, e := range entries {
		doc, err := s.document(e.Params, e.Payload)
		if err != nil {
			// One unmarshalable entry must not block the batch.
			if s.logger != nil {
				s.logger.WithError(err).Warn("skipping unencodable cache entry")
			}
			continue
		}
		docs = append(docs, doc)
	}

	saved, err := s.store.BulkUpsert(ctx, s.collection, docs)
	if err != nil {
		return saved, fmt.Errorf("bulk cache write failed: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"saved": saved, "total": len(docs)}).Debug("batch cache write complete")
	}
	return saved, nil
}

func (s *CacheService) document(params map[string]any, payload any) (*ports.Document, error) {
	key, err := CacheKey(params)
	if err != nil {
		return nil, err
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request params: %w", err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache payload: %w", err)
	}
	return &ports.Document{
		Key:           key,
		RequestParams: paramsJSON,
		Payload:       payloadJSON,
		CachedAt:      time.Now().UTC(),
	}, nil
}

func (s *CacheService) count(outcome string) {
	if s.lookups != nil {
		s.lookups.WithLabelValues(outcome).Inc()
	}
}

func shortKey(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}
