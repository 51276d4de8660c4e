package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/farepilot/farepilot/internal/core/domain/flight"
	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/farepilot/farepilot/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type searchOutcome struct {
	results   []flight.Flight
	fromCache bool
}

// SearchService resolves queries through the result cache, falling back
// to the retried upstream search. Identical concurrent queries are
// coalesced into a single upstream call.
type SearchService struct {
	cache    ports.ResultCache
	api      ports.FlightAPI
	tripType string
	retry    utils.RetryConfig
	logger   *logrus.Logger
	calls    *prometheus.CounterVec
	sf       singleflight.Group
}

func NewSearchService(cache ports.ResultCache, api ports.FlightAPI, tripType string, retry utils.RetryConfig, logger *logrus.Logger, calls *prometheus.CounterVec) *SearchService {
	return &SearchService{
		cache:    cache,
		api:      api,
		tripType: tripType,
		retry:    retry,
		logger:   logger,
		calls:    calls,
	}
}

// Search returns budget-filtered candidates for the query and whether
// they came from the cache. Upstream exhaustion is a hard error for the
// query; an empty candidate list is not.
func (s *SearchService) Search(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, bool, error) {
	params := query.Params(s.tripType)

	key, err := CacheKey(params)
	if err != nil {
		return nil, false, err
	}

	if payload, ok, _ := s.cache.Get(ctx, params); ok {
		var cached []flight.Flight
		if err := json.Unmarshal(payload, &cached); err == nil {
			s.logger.WithField("cache_key", shortKey(key)).Info("serving flights from cache")
			return flight.FilterByBudget(cached, query.MaxPrice), true, nil
		}
		// Undecodable entries fall through to a fresh fetch.
		s.logger.WithField("cache_key", shortKey(key)).Warn("discarding undecodable cached flights")
	}

	out, err, _ := s.sf.Do(key, func() (any, error) {
		results, err := utils.Retry(ctx, s.logger, s.retry, "flight search", func(ctx context.Context) ([]flight.Flight, error) {
			if s.calls != nil {
				s.calls.WithLabelValues("search").Inc()
			}
			return s.api.Search(ctx, query)
		})
		if err != nil {
			return nil, err
		}

		// The upstream answered nothing; do not pin an empty result in
		// the cache, the next request should ask again.
		if len(results) > 0 {
			if err := s.cache.Put(ctx, params, results); err != nil {
				s.logger.WithError(err).Warn("failed to cache flight search results")
			}
		}
		return searchOutcome{results: results, fromCache: false}, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("flight search failed: %w", err)
	}

	outcome := out.(searchOutcome)
	s.logger.WithFields(logrus.Fields{
		"results": len(outcome.results),
		"route":   query.DepartureID + "-" + query.ArrivalID,
	}).Info("fetched flights from upstream")
	return flight.FilterByBudget(outcome.results, query.MaxPrice), outcome.fromCache, nil
}
