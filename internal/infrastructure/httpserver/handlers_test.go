package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farepilot/farepilot/internal/core/domain/flight"
	"github.com/farepilot/farepilot/internal/core/domain/offer"
	"github.com/farepilot/farepilot/internal/core/ports"
	fphttp "github.com/farepilot/farepilot/internal/infrastructure/httpserver"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type searchServiceMock struct {
	searchFn func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, bool, error)
}

func (m *searchServiceMock) Search(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, bool, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, false, nil
}

type enrichmentServiceMock struct {
	enrichFn func(ctx context.Context, query flight.SearchQuery, results []flight.Flight, fromCache bool) ([]flight.Enriched, error)
}

func (m *enrichmentServiceMock) Enrich(ctx context.Context, query flight.SearchQuery, results []flight.Flight, fromCache bool) ([]flight.Enriched, error) {
	if m.enrichFn != nil {
		return m.enrichFn(ctx, query, results, fromCache)
	}
	return []flight.Enriched{}, nil
}

type offerServiceMock struct {
	bestComboFn func(ctx context.Context, req ports.ComboRequest) (offer.Combo, bool, error)
}

func (m *offerServiceMock) BestCombo(ctx context.Context, req ports.ComboRequest) (offer.Combo, bool, error) {
	if m.bestComboFn != nil {
		return m.bestComboFn(ctx, req)
	}
	return offer.Combo{}, false, nil
}

func newTestServer(search ports.SearchService, enrich ports.EnrichmentService, offers ports.OfferService) *fphttp.Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &fphttp.ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
	return fphttp.NewServer(cfg, logger, fphttp.ServerDeps{
		SearchService:     search,
		EnrichmentService: enrich,
		OfferService:      offers,
	})
}

func TestSearchFlightsEndpoint(t *testing.T) {
	search := &searchServiceMock{searchFn: func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, bool, error) {
		require.Equal(t, "DEL", query.DepartureID)
		return []flight.Flight{{Price: 4500, BookingToken: "t1"}}, true, nil
	}}
	enrich := &enrichmentServiceMock{enrichFn: func(ctx context.Context, query flight.SearchQuery, results []flight.Flight, fromCache bool) ([]flight.Enriched, error) {
		require.True(t, fromCache)
		require.Len(t, results, 1)
		return []flight.Enriched{{BookingOptions: []flight.BookingOption{{}}}}, nil
	}}
	server := newTestServer(search, enrich, &offerServiceMock{})

	body, _ := json.Marshal(map[string]string{
		"departure_id":   "DEL",
		"arrival_id":     "BOM",
		"departure_date": "2026-09-01",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/flights/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		FromCache bool `json:"from_cache"`
		Count     int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.FromCache)
	require.Equal(t, 1, resp.Count)
}

func TestSearchFlightsValidation(t *testing.T) {
	server := newTestServer(&searchServiceMock{}, &enrichmentServiceMock{}, &offerServiceMock{})

	body, _ := json.Marshal(map[string]string{"departure_id": "DEL"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/flights/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchFlightsUpstreamFailure(t *testing.T) {
	search := &searchServiceMock{searchFn: func(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, bool, error) {
		return nil, false, errors.New("retries exhausted")
	}}
	server := newTestServer(search, &enrichmentServiceMock{}, &offerServiceMock{})

	body, _ := json.Marshal(map[string]string{
		"departure_id":   "DEL",
		"arrival_id":     "BOM",
		"departure_date": "2026-09-01",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/flights/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestBestComboEndpoint(t *testing.T) {
	offers := &offerServiceMock{bestComboFn: func(ctx context.Context, req ports.ComboRequest) (offer.Combo, bool, error) {
		require.Equal(t, 7550.0, req.BasePrice)
		return offer.Combo{Pairing: "payment+general", FinalPrice: 6295, TotalSavings: 1255}, true, nil
	}}
	server := newTestServer(&searchServiceMock{}, &enrichmentServiceMock{}, offers)

	body, _ := json.Marshal(map[string]any{"base_price": 7550, "platform": "cleartrip"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/combo", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Found bool         `json:"found"`
		Combo *offer.Combo `json:"combo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Found)
	require.Equal(t, float64(6295), resp.Combo.FinalPrice)
}

func TestBestComboRejectsMissingPrice(t *testing.T) {
	server := newTestServer(&searchServiceMock{}, &enrichmentServiceMock{}, &offerServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/combo", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpointNoCheckers(t *testing.T) {
	server := newTestServer(&searchServiceMock{}, &enrichmentServiceMock{}, &offerServiceMock{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
