package httpserver

import (
	"net/http"

	"github.com/farepilot/farepilot/internal/core/domain/flight"
	"github.com/labstack/echo/v4"
)

type searchFlightsResponse struct {
	Flights   []flight.Enriched `json:"flights"`
	FromCache bool              `json:"from_cache"`
	Count     int               `json:"count"`
}

// searchFlights runs the full pipeline: resolve candidates through the
// cache or the upstream, then enrich each with booking detail. An empty
// flight list is a successful response; only upstream exhaustion on the
// primary search fails the request.
func (s *Server) searchFlights(c echo.Context) error {
	var query flight.SearchQuery
	if err := c.Bind(&query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if query.DepartureID == "" || query.ArrivalID == "" || query.DepartureDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "departure_id, arrival_id and departure_date are required")
	}

	ctx := c.Request().Context()

	results, fromCache, err := s.searchSvc.Search(ctx, query)
	if err != nil {
		s.logger.WithError(err).Error("flight search failed")
		return echo.NewHTTPError(http.StatusBadGateway, "Flight search is currently unavailable")
	}

	enriched, err := s.enrichmentSvc.Enrich(ctx, query, results, fromCache)
	if err != nil {
		s.logger.WithError(err).Error("flight enrichment failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to enrich flight results")
	}

	return c.JSON(http.StatusOK, searchFlightsResponse{
		Flights:   enriched,
		FromCache: fromCache,
		Count:     len(enriched),
	})
}
