package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/farepilot/farepilot/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// CacheDocumentRepository implements ports.DocumentStore on the
// api_cache table, one JSONB document per (collection, cache_key).
type CacheDocumentRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewCacheDocumentRepository(database *db.Database, logger *logrus.Logger) ports.DocumentStore {
	return &CacheDocumentRepository{
		db:     database,
		logger: logger,
	}
}

func (r *CacheDocumentRepository) FindByKey(ctx context.Context, collection, key string) (*ports.Document, error) {
	var doc ports.Document

	query := `
		SELECT cache_key, request_params, payload, cached_at
		FROM api_cache
		WHERE collection = $1 AND cache_key = $2`

	err := r.db.DB.QueryRowContext(ctx, query, collection, key).Scan(
		&doc.Key, &doc.RequestParams, &doc.Payload, &doc.CachedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache document: %w", err)
	}

	return &doc, nil
}

func (r *CacheDocumentRepository) Upsert(ctx context.Context, collection string, doc *ports.Document) error {
	query := `
		INSERT INTO api_cache (collection, cache_key, request_params, payload, cached_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, cache_key)
		DO UPDATE SET request_params = $3, payload = $4, cached_at = $5`

	_, err := r.db.DB.ExecContext(ctx, query,
		collection, doc.Key, []byte(doc.RequestParams), []byte(doc.Payload), doc.CachedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cache document: %w", err)
	}

	return nil
}

func (r *CacheDocumentRepository) Delete(ctx context.Context, collection, key string) error {
	query := `DELETE FROM api_cache WHERE collection = $1 AND cache_key = $2`

	_, err := r.db.DB.ExecContext(ctx, query, collection, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache document: %w", err)
	}

	return nil
}

// BulkUpsert writes each document independently and reports how many
// stuck. One failing row does not stop the rest; an error comes back
// only when every row failed.
func (r *CacheDocumentRepository) BulkUpsert(ctx context.Context, collection string, docs []*ports.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	saved := 0
	var lastErr error
	for _, doc := range docs {
		if err := r.Upsert(ctx, collection, doc); err != nil {
			lastErr = err
			r.logger.WithField("cache_key", doc.Key).WithError(err).Warn("bulk upsert row failed")
			continue
		}
		saved++
	}

	if saved == 0 && lastErr != nil {
		return 0, fmt.Errorf("bulk cache write failed entirely: %w", lastErr)
	}
	return saved, nil
}
