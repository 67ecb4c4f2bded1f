package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/tripassistant/internal/models"
)

func hotel(id string, available bool, offers int) models.RankedHotel {
	h := models.RankedHotel{Hotel: models.HotelInfo{HotelID: id}, Available: available}
	for i := 0; i < offers; i++ {
		h.BestOffers = append(h.BestOffers, models.RoomOffer{RoomType: "DBL"})
	}
	return h
}

func TestAvailable(t *testing.T) {
	hotels := []models.RankedHotel{
		hotel("H1", true, 1),
		hotel("H2", false, 2),
		hotel("H3", true, 0),
		hotel("H4", true, 3),
	}

	got := Available(hotels)
	assert.Len(t, got, 2)
	assert.Equal(t, "H1", got[0].Hotel.HotelID)
	assert.Equal(t, "H4", got[1].Hotel.HotelID)
}

func TestTop(t *testing.T) {
	hotels := []models.RankedHotel{hotel("H1", true, 1), hotel("H2", true, 1), hotel("H3", true, 1)}

	assert.Len(t, Top(hotels, 5), 3)
	assert.Len(t, Top(hotels, 2), 2)
	assert.Empty(t, Top(nil, 5))
}
