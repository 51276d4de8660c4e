package flight

// SearchQuery is a raw flight-search request as it arrives from the
// caller. Fields other than the route and date are optional free-form
// strings; Params normalizes them before they reach the cache or the
// upstream API.
type SearchQuery struct {
	DepartureID   string `json:"departure_id"`
	ArrivalID     string `json:"arrival_id"`
	DepartureDate string `json:"departure_date"`
	Airlines      string `json:"airlines,omitempty"`
	MaxPrice      string `json:"max_price,omitempty"`
	TravelClass   string `json:"travel_class,omitempty"`
}

// Airport identifies one endpoint of a segment.
type Airport struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Time string `json:"time,omitempty"`
}

// Segment is a single leg of an itinerary.
type Segment struct {
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	Airline          string  `json:"airline,omitempty"`
	FlightNumber     string  `json:"flight_number,omitempty"`
	TravelClass      string  `json:"travel_class,omitempty"`
	Duration         int     `json:"duration,omitempty"`
}

// Layover is a stop between segments of a multi-leg itinerary.
type Layover struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

// Flight is one upstream search candidate. BookingToken, when present,
// is the opaque handle for requesting booking detail; candidates
// without one cannot be enriched.
type Flight struct {
	Price         int       `json:"price,omitempty"`
	TotalDuration int       `json:"total_duration,omitempty"`
	BookingToken  string    `json:"booking_token,omitempty"`
	Segments      []Segment `json:"flights,omitempty"`
	Layovers      []Layover `json:"layovers,omitempty"`
}

// Token returns the booking token, empty when the candidate carries none.
func (f Flight) Token() string { return f.BookingToken }

// BookingRequest asks the upstream detail API for booking options of a
// single candidate. The route and date repeat the original search
// context, which the provider requires alongside the token.
type BookingRequest struct {
	Token         string
	DepartureID   string
	ArrivalID     string
	DepartureDate string
}

// PriceDetail is the bookable price quoted by one provider.
type PriceDetail struct {
	BookWith    string   `json:"book_with,omitempty"`
	Price       int      `json:"price,omitempty"`
	LocalPrices []string `json:"marketed_as,omitempty"`
}

// BookingOption is one way to book the selected itinerary.
type BookingOption struct {
	Together *PriceDetail `json:"together,omitempty"`
}

// BookingResponse is the upstream detail payload for one token.
type BookingResponse struct {
	SelectedFlights []Flight        `json:"selected_flights,omitempty"`
	BookingOptions  []BookingOption `json:"booking_options,omitempty"`
}

// Empty reports whether the response carries nothing usable.
func (r *BookingResponse) Empty() bool {
	return r == nil || (len(r.SelectedFlights) == 0 && len(r.BookingOptions) == 0)
}

// Enriched pairs the itinerary detail of a candidate with its booking
// options. Produced per token; candidates whose detail fetch failed are
// simply absent from the enriched set.
type Enriched struct {
	FlightData     []Segment       `json:"flight_data"`
	BookingOptions []BookingOption `json:"booking_options"`
}

// NewEnriched assembles an Enriched result from a detail payload,
// taking the segments of the first selected itinerary when present.
func NewEnriched(resp *BookingResponse) Enriched {
	e := Enriched{BookingOptions: resp.BookingOptions}
	if len(resp.SelectedFlights) > 0 {
		e.FlightData = resp.SelectedFlights[0].Segments
	}
	return e
}
