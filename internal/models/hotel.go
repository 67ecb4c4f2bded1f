package models

import "strconv"

type HotelInfo struct {
	HotelID   string  `json:"hotelId"`
	Name      string  `json:"name,omitempty"`
	CityCode  string  `json:"cityCode,omitempty"`
	ChainCode string  `json:"chainCode,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

type HotelRoom struct {
	Type        string `json:"type,omitempty"`
	Description struct {
		Text string `json:"text,omitempty"`
	} `json:"description,omitempty"`
}

type HotelPrice struct {
	Currency string `json:"currency,omitempty"`
	Base     string `json:"base,omitempty"`
	Total    string `json:"total"`
}

type HotelOffer struct {
	ID           string     `json:"id"`
	CheckInDate  string     `json:"checkInDate,omitempty"`
	CheckOutDate string     `json:"checkOutDate,omitempty"`
	Room         HotelRoom  `json:"room"`
	Price        HotelPrice `json:"price"`
}

// RoomType returns the offer's room type, or UNKNOWN when the provider omits it.
func (o HotelOffer) RoomType() string {
	if o.Room.Type == "" {
		return "UNKNOWN"
	}
	return o.Room.Type
}

func (o HotelOffer) TotalPrice() (float64, error) {
	return strconv.ParseFloat(o.Price.Total, 64)
}

// HotelOfferGroup is one hotel with its raw offers, as returned by the provider.
type HotelOfferGroup struct {
	Type      string       `json:"type,omitempty"`
	Hotel     HotelInfo    `json:"hotel"`
	Available *bool        `json:"available,omitempty"`
	Offers    []HotelOffer `json:"offers"`
}

// IsAvailable treats a missing availability flag as available.
func (g HotelOfferGroup) IsAvailable() bool {
	return g.Available == nil || *g.Available
}

type RoomOffer struct {
	RoomType string     `json:"room_type"`
	Offer    HotelOffer `json:"offer"`
}

// RankedHotel is a hotel reduced to its cheapest offer per room type,
// best offers ordered by ascending price.
type RankedHotel struct {
	Hotel      HotelInfo   `json:"hotel"`
	Available  bool        `json:"available"`
	BestOffers []RoomOffer `json:"best_offers"`
}
