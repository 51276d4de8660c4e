package flight_test

import (
	"testing"

	"github.com/farepilot/farepilot/internal/core/domain/flight"
)

func TestNormalizePrice(t *testing.T) {
	cases := map[string]string{
		"₹7,500":   "7500",
		"Rs. 7500": "7500",
		"7500":     "7500",
		"7500.50":  "750050",
		"":         "",
		"cheap":    "",
	}
	for in, want := range cases {
		if got := flight.NormalizePrice(in); got != want {
			t.Fatalf("NormalizePrice(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapAirlines(t *testing.T) {
	cases := map[string]string{
		"Indigo":             "6E",
		"air india":          "AI",
		"Indigo, Air India":  "6E,AI",
		"air india, indigo":  "6E,AI",
		"AI":                 "AI",
		"any":                "",
		"no preference":      "",
		"":                   "",
		"unknown carrier co": "",
		"akasa air":          "QP",
		"indigo,indigo":      "6E",
	}
	for in, want := range cases {
		if got := flight.MapAirlines(in); got != want {
			t.Fatalf("MapAirlines(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapAirlinesOrderInsensitive(t *testing.T) {
	a := flight.MapAirlines("Indigo, Air India, Vistara")
	b := flight.MapAirlines("vistara,air india , indigo")
	if a != b {
		t.Fatalf("expected identical normalization, got %q vs %q", a, b)
	}
}

func TestTravelClassCode(t *testing.T) {
	cases := map[string]int{
		"economy":         1,
		"Premium Economy": 2,
		"BUSINESS":        3,
		"first":           4,
		"":                1,
		"sleeper":         1,
	}
	for in, want := range cases {
		if got := flight.TravelClassCode(in); got != want {
			t.Fatalf("TravelClassCode(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParamsStableShape(t *testing.T) {
	q := flight.SearchQuery{
		DepartureID:   "DEL",
		ArrivalID:     "BOM",
		DepartureDate: "2026-09-01",
	}
	params := q.Params("2")
	for _, key := range []string{"departure_id", "arrival_id", "departure_date", "trip_type", "max_price", "airlines", "travel_class"} {
		if _, ok := params[key]; !ok {
			t.Fatalf("params missing key %q", key)
		}
	}
	if params["max_price"] != nil || params["airlines"] != nil || params["travel_class"] != nil {
		t.Fatalf("absent optional fields must be nil, got %v", params)
	}

	q.MaxPrice = "₹7,500"
	q.Airlines = "indigo"
	q.TravelClass = "business"
	params = q.Params("2")
	if params["max_price"] != "7500" || params["airlines"] != "6E" || params["travel_class"] != 3 {
		t.Fatalf("unexpected normalized params: %v", params)
	}
}

func TestFilterByBudget(t *testing.T) {
	flights := []flight.Flight{
		{Price: 5000},
		{Price: 8000},
		{Price: 0},
	}
	kept := flight.FilterByBudget(flights, "₹6,000")
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d", len(kept))
	}
	if kept[0].Price != 5000 || kept[1].Price != 0 {
		t.Fatalf("unexpected kept set: %v", kept)
	}

	if got := flight.FilterByBudget(flights, ""); len(got) != 3 {
		t.Fatalf("no budget must keep everything, got %d", len(got))
	}
	if got := flight.FilterByBudget(flights, "cheap"); len(got) != 3 {
		t.Fatalf("unusable budget must keep everything, got %d", len(got))
	}
}
