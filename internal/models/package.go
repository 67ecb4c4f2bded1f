package models

type TravelDates struct {
	CheckIn  string `json:"checkin"`
	CheckOut string `json:"checkout"`
	Nights   int    `json:"nights"`
}

type PackageFlight struct {
	Offer    FlightOffer   `json:"offer"`
	Price    float64       `json:"price"`
	Currency string        `json:"currency"`
	Summary  FlightSummary `json:"summary"`
}

type PackageHotels struct {
	TotalFound     int           `json:"total_found"`
	AvailableCount int           `json:"available_count"`
	TopOptions     []RankedHotel `json:"top_options"`
	MinPrice       float64       `json:"min_price"`
	Currency       string        `json:"currency"`
}

type PackagePricing struct {
	FlightPrice   float64 `json:"flight_price"`
	MinHotelPrice float64 `json:"min_hotel_price"`
	TotalMinPrice float64 `json:"total_min_price"`
	Currency      string  `json:"currency"`
}

// Package pairs the flight of one day-offset with the hotels for the same stay window.
type Package struct {
	PackageID      int            `json:"package_id"`
	SearchDate     string         `json:"search_date"`
	TravelDates    TravelDates    `json:"travel_dates"`
	Flight         PackageFlight  `json:"flight"`
	Hotels         PackageHotels  `json:"hotels"`
	Pricing        PackagePricing `json:"pricing"`
	PackageSummary string         `json:"package_summary"`
}
