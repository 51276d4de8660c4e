package flight

import (
	"regexp"
	"sort"
	"strings"
)

// airlineCodes maps common airline names to IATA codes. Inputs that are
// already two/three letter codes pass through uppercased.
var airlineCodes = map[string]string{
	"air india":         "AI",
	"indigo":            "6E",
	"spicejet":          "SG",
	"goair":             "G8",
	"vistara":           "UK",
	"air asia":          "I5",
	"akasa":             "QP",
	"air india express": "IX",
	"alliance air":      "9I",
	"star air":          "S5",
	"flybig":            "S9",
	"indiaone air":      "I7",
	"fly91":             "IC",
}

// anyAirlineTokens are phrases meaning "no airline preference".
var anyAirlineTokens = []string{"any", "any airline", "no preference", "no airline", "all airlines"}

var travelClassCodes = map[string]int{
	"economy":         1,
	"premium economy": 2,
	"premium":         2,
	"business":        3,
	"first":           4,
	"first class":     4,
}

var nonDigits = regexp.MustCompile(`[^\d]`)

// NormalizePrice strips everything but digits from a price string
// ("₹7,500" -> "7500"). Returns "" when nothing numeric remains.
func NormalizePrice(value string) string {
	if value == "" {
		return ""
	}
	return nonDigits.ReplaceAllString(value, "")
}

// MapAirlines turns a free-text, comma-separated airline preference into
// a comma-joined list of IATA codes. The output is sorted and
// de-duplicated so that "Indigo, Air India" and "air india,indigo"
// normalize identically. Returns "" when the input expresses no
// preference or nothing could be mapped.
func MapAirlines(input string) string {
	if input == "" {
		return ""
	}
	raw := strings.ToLower(strings.TrimSpace(input))
	for _, tok := range anyAirlineTokens {
		if strings.Contains(raw, tok) {
			return ""
		}
	}

	seen := make(map[string]bool)
	var codes []string
	add := func(code string) {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}

	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if len(name) <= 3 && isAlpha(name) {
			add(strings.ToUpper(name))
			continue
		}
		if code, ok := airlineCodes[name]; ok {
			add(code)
			continue
		}
		compact := strings.ReplaceAll(name, " ", "")
		for known, code := range airlineCodes {
			if strings.Contains(compact, strings.ReplaceAll(known, " ", "")) {
				add(code)
				break
			}
		}
	}
	if len(codes) == 0 {
		return ""
	}
	sort.Strings(codes)
	return strings.Join(codes, ",")
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// TravelClassCode maps a cabin-class name to the provider's numeric
// code. Unknown or empty input defaults to economy.
func TravelClassCode(name string) int {
	if code, ok := travelClassCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return 1
}

// Params produces the canonical, normalized parameter map for the
// query. The same logical query always yields the same map, so it is
// what the cache keys on. Absent optional fields are present as nil to
// keep the key shape stable.
func (q SearchQuery) Params(tripType string) map[string]any {
	params := map[string]any{
		"departure_id":   q.DepartureID,
		"arrival_id":     q.ArrivalID,
		"departure_date": q.DepartureDate,
		"trip_type":      tripType,
		"max_price":      nil,
		"airlines":       nil,
		"travel_class":   nil,
	}
	if p := NormalizePrice(q.MaxPrice); p != "" {
		params["max_price"] = p
	}
	if a := MapAirlines(q.Airlines); a != "" {
		params["airlines"] = a
	}
	if strings.TrimSpace(q.TravelClass) != "" {
		params["travel_class"] = TravelClassCode(q.TravelClass)
	}
	return params
}

// UnderBudget reports whether the candidate's price fits under the raw
// budget string. Candidates without a usable price, and unusable
// budgets, pass the filter.
func UnderBudget(f Flight, maxPrice string) bool {
	if maxPrice == "" {
		return true
	}
	limit := NormalizePrice(maxPrice)
	if limit == "" || f.Price <= 0 {
		return true
	}
	max := 0
	for _, r := range limit {
		max = max*10 + int(r-'0')
	}
	return f.Price <= max
}

// FilterByBudget keeps only candidates under the given budget.
func FilterByBudget(flights []Flight, maxPrice string) []Flight {
	kept := make([]Flight, 0, len(flights))
	for _, f := range flights {
		if UnderBudget(f, maxPrice) {
			kept = append(kept, f)
		}
	}
	return kept
}
