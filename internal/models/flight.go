package models

import "strconv"

// FlightEndpoint is one end of a flight segment as the provider reports it.
type FlightEndpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type Segment struct {
	Departure       FlightEndpoint `json:"departure"`
	Arrival         FlightEndpoint `json:"arrival"`
	CarrierCode     string         `json:"carrierCode,omitempty"`
	Number          string         `json:"number,omitempty"`
	Duration        string         `json:"duration,omitempty"`
	NumberOfStops   int            `json:"numberOfStops,omitempty"`
	BlacklistedInEU bool           `json:"blacklistedInEU,omitempty"`
}

type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

type OfferPrice struct {
	Currency   string `json:"currency,omitempty"`
	Total      string `json:"total"`
	Base       string `json:"base,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

// FlightOffer is a provider flight offer. SearchDate and DayNumber are added
// locally to tag which day-offset search produced the offer.
type FlightOffer struct {
	Type                     string      `json:"type,omitempty"`
	ID                       string      `json:"id"`
	Source                   string      `json:"source,omitempty"`
	LastTicketingDate        string      `json:"lastTicketingDate,omitempty"`
	NumberOfBookableSeats    int         `json:"numberOfBookableSeats,omitempty"`
	Itineraries              []Itinerary `json:"itineraries"`
	Price                    OfferPrice  `json:"price"`
	ValidatingAirlineCodes   []string    `json:"validatingAirlineCodes,omitempty"`
	SearchDate               string      `json:"_search_date,omitempty"`
	DayNumber                int         `json:"_day_number,omitempty"`
	InstantTicketingRequired bool        `json:"instantTicketingRequired,omitempty"`
}

// TotalPrice parses the offer's total price.
func (o FlightOffer) TotalPrice() (float64, error) {
	return strconv.ParseFloat(o.Price.Total, 64)
}

// Outbound returns the first itinerary, if any.
func (o FlightOffer) Outbound() (Itinerary, bool) {
	if len(o.Itineraries) == 0 {
		return Itinerary{}, false
	}
	return o.Itineraries[0], true
}

// Return returns the second itinerary of a round trip, if any.
func (o FlightOffer) Return() (Itinerary, bool) {
	if len(o.Itineraries) < 2 {
		return Itinerary{}, false
	}
	return o.Itineraries[1], true
}

// LegSummary is the human-facing digest of one itinerary.
type LegSummary struct {
	DepartureAirport  string `json:"departure_airport"`
	DepartureTime     string `json:"departure_time"`
	DepartureTerminal string `json:"departure_terminal,omitempty"`
	ArrivalAirport    string `json:"arrival_airport"`
	ArrivalTime       string `json:"arrival_time"`
	ArrivalTerminal   string `json:"arrival_terminal,omitempty"`
	Duration          string `json:"duration"`
	Stops             int    `json:"stops"`
}

type FlightSummary struct {
	TripType string      `json:"trip_type"`
	Outbound *LegSummary `json:"outbound,omitempty"`
	Return   *LegSummary `json:"return,omitempty"`
}

// Summarize digests an offer into departure/arrival details per leg.
func (o FlightOffer) Summarize() FlightSummary {
	summary := FlightSummary{TripType: "one_way"}
	if len(o.Itineraries) > 1 {
		summary.TripType = "round_trip"
	}
	if out, ok := o.Outbound(); ok {
		summary.Outbound = summarizeLeg(out)
	}
	if ret, ok := o.Return(); ok {
		summary.Return = summarizeLeg(ret)
	}
	return summary
}

func summarizeLeg(it Itinerary) *LegSummary {
	if len(it.Segments) == 0 {
		return nil
	}
	first := it.Segments[0]
	last := it.Segments[len(it.Segments)-1]
	return &LegSummary{
		DepartureAirport:  first.Departure.IATACode,
		DepartureTime:     first.Departure.At,
		DepartureTerminal: first.Departure.Terminal,
		ArrivalAirport:    last.Arrival.IATACode,
		ArrivalTime:       last.Arrival.At,
		ArrivalTerminal:   last.Arrival.Terminal,
		Duration:          it.Duration,
		Stops:             len(it.Segments) - 1,
	}
}

type DateTimeRange struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type OriginDestination struct {
	ID                      string        `json:"id"`
	OriginLocationCode      string        `json:"originLocationCode"`
	DestinationLocationCode string        `json:"destinationLocationCode"`
	DepartureDateTimeRange  DateTimeRange `json:"departureDateTimeRange"`
}

type Traveler struct {
	ID           string `json:"id"`
	TravelerType string `json:"travelerType"`
}

type CabinRestriction struct {
	Cabin                string   `json:"cabin"`
	Coverage             string   `json:"coverage"`
	OriginDestinationIDs []string `json:"originDestinationIds"`
}

type FlightFilters struct {
	CabinRestrictions []CabinRestriction `json:"cabinRestrictions"`
}

type SearchCriteria struct {
	MaxFlightOffers int           `json:"maxFlightOffers"`
	FlightFilters   FlightFilters `json:"flightFilters"`
}

// FlightSearchRequest is the provider flight-search payload.
type FlightSearchRequest struct {
	CurrencyCode       string              `json:"currencyCode"`
	OriginDestinations []OriginDestination `json:"originDestinations"`
	Travelers          []Traveler          `json:"travelers"`
	Sources            []string            `json:"sources"`
	SearchCriteria     SearchCriteria      `json:"searchCriteria"`
}

// Clone returns a deep copy so per-day mutations never leak between searches.
func (r *FlightSearchRequest) Clone() *FlightSearchRequest {
	if r == nil {
		return nil
	}
	out := *r
	out.OriginDestinations = append([]OriginDestination(nil), r.OriginDestinations...)
	out.Travelers = append([]Traveler(nil), r.Travelers...)
	out.Sources = append([]string(nil), r.Sources...)
	out.SearchCriteria.FlightFilters.CabinRestrictions = make([]CabinRestriction, len(r.SearchCriteria.FlightFilters.CabinRestrictions))
	for i, cr := range r.SearchCriteria.FlightFilters.CabinRestrictions {
		cr.OriginDestinationIDs = append([]string(nil), cr.OriginDestinationIDs...)
		out.SearchCriteria.FlightFilters.CabinRestrictions[i] = cr
	}
	return &out
}
