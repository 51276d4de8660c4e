package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/farepilot/farepilot/internal/core/domain/flight"
	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/farepilot/farepilot/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// EnrichmentService fans per-candidate booking-detail lookups out to the
// upstream API, consulting the result cache only when the candidates
// themselves came from it. A failed lookup drops its candidate; the
// batch never fails as a whole.
type EnrichmentService struct {
	cache    ports.ResultCache
	api      ports.FlightAPI
	retry    utils.RetryConfig
	logger   *logrus.Logger
	calls    *prometheus.CounterVec
	failures prometheus.Counter
}

func NewEnrichmentService(cache ports.ResultCache, api ports.FlightAPI, retry utils.RetryConfig, logger *logrus.Logger, calls *prometheus.CounterVec, failures prometheus.Counter) *EnrichmentService {
	return &EnrichmentService{
		cache:    cache,
		api:      api,
		retry:    retry,
		logger:   logger,
		calls:    calls,
		failures: failures,
	}
}

func bookingParams(token string) map[string]any {
	return map[string]any{"booking_token": token}
}

// Enrich resolves booking detail for every tokened candidate. When the
// candidates were served from the cache their details are looked up
// there first, and only once every lookup has finished do the misses go
// upstream as a second concurrent phase; fresh candidates skip straight
// to that phase. Freshly fetched details are written back in one
// trailing batch that survives cancellation of the request context.
func (s *EnrichmentService) Enrich(ctx context.Context, query flight.SearchQuery, results []flight.Flight, fromCache bool) ([]flight.Enriched, error) {
	candidates := make([]flight.Flight, 0, len(results))
	for _, f := range results {
		if f.Token() == "" {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return []flight.Enriched{}, nil
	}

	enriched := make([]*flight.Enriched, len(candidates))
	var (
		mu      sync.Mutex
		pending []ports.CacheEntry
	)

	fetch := func(wg *sync.WaitGroup, i int, f flight.Flight) {
		defer wg.Done()
		req := flight.BookingRequest{
			Token:         f.Token(),
			DepartureID:   query.DepartureID,
			ArrivalID:     query.ArrivalID,
			DepartureDate: query.DepartureDate,
		}
		resp, err := utils.Retry(ctx, s.logger, s.retry, "booking options", func(ctx context.Context) (*flight.BookingResponse, error) {
			if s.calls != nil {
				s.calls.WithLabelValues("booking").Inc()
			}
			return s.api.BookingOptions(ctx, req)
		})
		if err != nil || resp.Empty() {
			if s.logger != nil {
				s.logger.WithField("booking_token", shortKey(f.Token())).WithError(err).Warn("dropping candidate, booking detail unavailable")
			}
			if s.failures != nil {
				s.failures.Inc()
			}
			return
		}

		e := flight.NewEnriched(resp)
		mu.Lock()
		enriched[i] = &e
		pending = append(pending, ports.CacheEntry{Params: bookingParams(f.Token()), Payload: resp})
		mu.Unlock()
	}

	// Resolve the cached details first; the upstream phase starts only
	// after every lookup has come back.
	misses := make([]int, 0, len(candidates))
	if fromCache {
		var lookups sync.WaitGroup
		for i, f := range candidates {
			lookups.Add(1)
			go func(i int, f flight.Flight) {
				defer lookups.Done()
				payload, ok, _ := s.cache.Get(ctx, bookingParams(f.Token()))
				if ok {
					var resp flight.BookingResponse
					if err := json.Unmarshal(payload, &resp); err == nil && !resp.Empty() {
						e := flight.NewEnriched(&resp)
						mu.Lock()
						enriched[i] = &e
						mu.Unlock()
						return
					}
				}
				mu.Lock()
				misses = append(misses, i)
				mu.Unlock()
			}(i, f)
		}
		lookups.Wait()
	} else {
		for i := range candidates {
			misses = append(misses, i)
		}
	}

	var fetches sync.WaitGroup
	for _, i := range misses {
		fetches.Add(1)
		go fetch(&fetches, i, candidates[i])
	}
	fetches.Wait()

	// The batch write must finish even if the caller has gone away.
	if len(pending) > 0 {
		saved, err := s.cache.BatchPut(context.WithoutCancel(ctx), pending)
		if err != nil && s.logger != nil {
			s.logger.WithError(err).Warn("failed to cache booking details")
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"saved": saved, "fetched": len(pending)}).Debug("cached booking details")
		}
	}

	out := make([]flight.Enriched, 0, len(candidates))
	for _, e := range enriched {
		if e != nil {
			out = append(out, *e)
		}
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"candidates": len(candidates),
			"enriched":   len(out),
			"from_cache": fromCache,
		}).Info("enrichment complete")
	}
	return out, nil
}
