package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	impl "github.com/farepilot/farepilot/internal/application/services"
	"github.com/farepilot/farepilot/internal/core/domain/flight"
	"github.com/farepilot/farepilot/internal/utils"
)

var testRetry = utils.RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

func testQuery() flight.SearchQuery {
	return flight.SearchQuery{DepartureID: "DEL", ArrivalID: "BOM", DepartureDate: "2026-09-01"}
}

func TestSearchCacheHitSkipsUpstream(t *testing.T) {
	cached, _ := json.Marshal([]flight.Flight{{Price: 4500, BookingToken: "t1"}})
	cache := &resultCacheMock{getFn: func(ctx context.Context, params map[string]any) (json.RawMessage, bool, error) {
		return cached, true, nil
	}}
	api := &flightAPIMock{}
	svc := impl.NewSearchService(cache, api, "2", testRetry, quietLogger(), nil)

	results, fromCache, err := svc.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fromCache {
		t.Fatalf("expected cache provenance")
	}
	if len(results) != 1 || results[0].Price != 4500 {
		t.Fatalf("unexpected results: %v", results)
	}
	if api.searches != 0 {
		t.Fatalf("cache hit must not call upstream, got %d calls", api.searches)
	}
}

func TestSearchMissFetchesAndCaches(t *testing.T) {
	cache := &resultCacheMock{}
	api := &flightAPIMock{searchFn: func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error) {
		return []flight.Flight{{Price: 6000, BookingToken: "t1"}}, nil
	}}
	svc := impl.NewSearchService(cache, api, "2", testRetry, quietLogger(), nil)

	results, fromCache, err := svc.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromCache {
		t.Fatalf("expected upstream provenance")
	}
	if len(results) != 1 {
		t.Fatalf("unexpected results: %v", results)
	}
	if cache.puts != 1 {
		t.Fatalf("expected 1 cache write, got %d", cache.puts)
	}
}

func TestSearchEmptyUpstreamNotCached(t *testing.T) {
	cache := &resultCacheMock{}
	api := &flightAPIMock{searchFn: func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error) {
		return []flight.Flight{}, nil
	}}
	svc := impl.NewSearchService(cache, api, "2", testRetry, quietLogger(), nil)

	results, _, err := svc.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("empty results are not an error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("unexpected results: %v", results)
	}
	if cache.puts != 0 {
		t.Fatalf("empty results must not be cached")
	}
}

func TestSearchRetriesThenSucceeds(t *testing.T) {
	calls := 0
	cache := &resultCacheMock{}
	api := &flightAPIMock{searchFn: func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return []flight.Flight{{Price: 100}}, nil
	}}
	svc := impl.NewSearchService(cache, api, "2", testRetry, quietLogger(), nil)

	results, _, err := svc.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || calls != 2 {
		t.Fatalf("expected success on second attempt, calls=%d", calls)
	}
}

func TestSearchExhaustionPropagates(t *testing.T) {
	cache := &resultCacheMock{}
	api := &flightAPIMock{searchFn: func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error) {
		return nil, errors.New("upstream down")
	}}
	svc := impl.NewSearchService(cache, api, "2", testRetry, quietLogger(), nil)

	_, _, err := svc.Search(context.Background(), testQuery())
	if err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
	if cache.puts != 0 {
		t.Fatalf("failed search must not be cached")
	}
}

func TestSearchCachePutFailureIsNotFatal(t *testing.T) {
	cache := &resultCacheMock{putFn: func(ctx context.Context, params map[string]any, payload any) error {
		return errors.New("store down")
	}}
	api := &flightAPIMock{searchFn: func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error) {
		return []flight.Flight{{Price: 100}}, nil
	}}
	svc := impl.NewSearchService(cache, api, "2", testRetry, quietLogger(), nil)

	results, _, err := svc.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("cache write failure must not fail the search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestSearchAppliesBudgetFilter(t *testing.T) {
	cache := &resultCacheMock{}
	api := &flightAPIMock{searchFn: func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error) {
		return []flight.Flight{{Price: 4000}, {Price: 9000}}, nil
	}}
	svc := impl.NewSearchService(cache, api, "2", testRetry, quietLogger(), nil)

	q := testQuery()
	q.MaxPrice = "₹5,000"
	results, _, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Price != 4000 {
		t.Fatalf("budget filter not applied: %v", results)
	}
}
