package flightapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/farepilot/farepilot/configs"
	"github.com/farepilot/farepilot/internal/core/domain/flight"
	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Client talks to the hosted flight-search API. It implements
// ports.FlightAPI with single-shot calls; retrying belongs to callers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	engine     string
	language   string
	country    string
	currency   string
	tripType   string
	logger     *logrus.Logger
}

func NewClient(cfg *configs.UpstreamConfig, logger *logrus.Logger) ports.FlightAPI {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		engine:   cfg.Engine,
		language: cfg.Language,
		country:  cfg.Country,
		currency: cfg.Currency,
		tripType: cfg.TripType,
		logger:   logger,
	}
}

type searchResponse struct {
	BestFlights  []flight.Flight `json:"best_flights"`
	OtherFlights []flight.Flight `json:"other_flights"`
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("engine", c.engine)
	params.Set("hl", c.language)
	params.Set("gl", c.country)
	params.Set("currency", c.currency)
	params.Set("type", c.tripType)
	params.Set("no_cache", "true")
	return params
}

// Search runs a flight search and returns best and other candidates in
// one list, best first.
func (c *Client) Search(ctx context.Context, query flight.SearchQuery) ([]flight.Flight, error) {
	params := c.baseParams()
	params.Set("departure_id", query.DepartureID)
	params.Set("arrival_id", query.ArrivalID)
	params.Set("outbound_date", query.DepartureDate)
	params.Set("show_hidden", "true")
	params.Set("deep_search", "true")

	if codes := flight.MapAirlines(query.Airlines); codes != "" {
		params.Set("include_airlines", codes)
	}
	if price := flight.NormalizePrice(query.MaxPrice); price != "" {
		params.Set("max_price", price)
	}
	if query.TravelClass != "" {
		params.Set("travel_class", strconv.Itoa(flight.TravelClassCode(query.TravelClass)))
	}

	var resp searchResponse
	if err := c.do(ctx, params, &resp); err != nil {
		return nil, err
	}

	results := make([]flight.Flight, 0, len(resp.BestFlights)+len(resp.OtherFlights))
	results = append(results, resp.BestFlights...)
	results = append(results, resp.OtherFlights...)

	c.logger.WithFields(logrus.Fields{
		"route":   query.DepartureID + "-" + query.ArrivalID,
		"results": len(results),
	}).Debug("upstream search complete")
	return results, nil
}

// BookingOptions fetches booking detail for one candidate token.
func (c *Client) BookingOptions(ctx context.Context, req flight.BookingRequest) (*flight.BookingResponse, error) {
	params := c.baseParams()
	params.Set("departure_id", req.DepartureID)
	params.Set("arrival_id", req.ArrivalID)
	params.Set("outbound_date", req.DepartureDate)
	params.Set("booking_token", req.Token)

	var resp flight.BookingResponse
	if err := c.do(ctx, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read upstream response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	// The provider reports failures as an error field in a 200 body.
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		return fmt.Errorf("upstream error: %s", probe.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return nil
}
