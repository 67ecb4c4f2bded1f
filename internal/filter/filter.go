package filter

import "github.com/dharmasatrya/tripassistant/internal/models"

// Available keeps hotels that are bookable and have at least one priced offer.
func Available(hotels []models.RankedHotel) []models.RankedHotel {
	result := make([]models.RankedHotel, 0, len(hotels))
	for _, h := range hotels {
		if h.Available && len(h.BestOffers) > 0 {
			result = append(result, h)
		}
	}
	return result
}

// Top returns at most n hotels from the front of the list.
func Top(hotels []models.RankedHotel, n int) []models.RankedHotel {
	if len(hotels) <= n {
		return hotels
	}
	return hotels[:n]
}
