package ranking

import (
	"math"
	"sort"

	"github.com/dharmasatrya/tripassistant/internal/models"
)

// RankHotels reduces each available hotel's offers to the cheapest offer per
// room type, then orders hotels by their cheapest offer. Unavailable hotels
// keep no offers and sort last, as do prices that cannot be parsed.
func RankHotels(groups []models.HotelOfferGroup) []models.RankedHotel {
	ranked := make([]models.RankedHotel, 0, len(groups))
	for _, g := range groups {
		h := models.RankedHotel{
			Hotel:      g.Hotel,
			Available:  g.IsAvailable(),
			BestOffers: []models.RoomOffer{},
		}
		if h.Available {
			h.BestOffers = BestOffersByRoomType(g.Offers)
		}
		ranked = append(ranked, h)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return cheapest(ranked[i]) < cheapest(ranked[j])
	})

	return ranked
}

func cheapest(h models.RankedHotel) float64 {
	if len(h.BestOffers) == 0 {
		return math.Inf(1)
	}
	return price(h.BestOffers[0].Offer)
}

func BestOffersByRoomType(offers []models.HotelOffer) []models.RoomOffer {
	best := make(map[string]models.HotelOffer)
	order := make([]string, 0)

	for _, o := range offers {
		roomType := o.RoomType()
		current, seen := best[roomType]
		if !seen {
			order = append(order, roomType)
			best[roomType] = o
			continue
		}
		if price(o) < price(current) {
			best[roomType] = o
		}
	}

	result := make([]models.RoomOffer, 0, len(order))
	for _, roomType := range order {
		result = append(result, models.RoomOffer{RoomType: roomType, Offer: best[roomType]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return price(result[i].Offer) < price(result[j].Offer)
	})

	return result
}

func price(o models.HotelOffer) float64 {
	if o.Price.Total == "" {
		return math.Inf(1)
	}
	p, err := o.TotalPrice()
	if err != nil || math.IsNaN(p) {
		return math.Inf(1)
	}
	return p
}
