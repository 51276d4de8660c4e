package ports

import (
	"context"

	"github.com/farepilot/farepilot/internal/core/domain/flight"
)

// FlightAPI is the upstream flight-search provider boundary. Both
// calls are single round trips; retry policy belongs to the caller.
type FlightAPI interface {
	// Search runs a primary flight search for the query.
	Search(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error)
	// BookingOptions fetches booking detail for one candidate's token.
	BookingOptions(ctx context.Context, req flight.BookingRequest) (*flight.BookingResponse, error)
}

// SearchService resolves a query to candidate flights, via cache or
// upstream. fromCache reports the provenance so downstream enrichment
// can pick its strategy.
type SearchService interface {
	Search(ctx context.Context, query flight.SearchQuery) (results []flight.Flight, fromCache bool, err error)
}

// EnrichmentService fans out per-candidate booking-detail lookups.
// Candidates without a token are skipped; individual failures drop the
// candidate from the output without failing the batch. An empty result
// is a valid outcome, not an error.
type EnrichmentService interface {
	Enrich(ctx context.Context, query flight.SearchQuery, results []flight.Flight, fromCache bool) ([]flight.Enriched, error)
}
