package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dharmasatrya/tripassistant/internal/llm"
	"github.com/dharmasatrya/tripassistant/internal/logging"
	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/providers"
	"github.com/dharmasatrya/tripassistant/internal/timezone"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeCompleter struct {
	mu      sync.Mutex
	intake  string
	summary string
	cabin   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, mode llm.Mode) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}

	switch {
	case strings.Contains(prompt, "collecting the details"):
		return f.intake, nil
	case strings.Contains(prompt, "IATA airport code"):
		return "The airport code is " + NormalizeLocation(quoted(prompt)), nil
	case strings.Contains(prompt, "standard cabin type"):
		if f.cabin != "" {
			return f.cabin, nil
		}
		return FallbackCabin(quoted(prompt)), nil
	case strings.Contains(prompt, "Summarize these"):
		return f.summary, nil
	}
	return "", fmt.Errorf("unexpected prompt")
}

func (f *fakeCompleter) count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

// quoted returns the first double-quoted value of a prompt.
func quoted(prompt string) string {
	start := strings.Index(prompt, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(prompt[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return prompt[start+1 : start+1+end]
}

type fakeProvider struct {
	mu sync.Mutex

	tokenErr error
	issued   int

	flights     func(token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error)
	hotelIDs    func(token, city string) ([]string, error)
	hotelOffers func(token string, ids []string, checkIn, checkOut string) ([]models.HotelOfferGroup, error)

	flightCalls     int
	hotelListCalls  int
	hotelOfferCalls int
	stays           []string
}

func (f *fakeProvider) Token(ctx context.Context, creds providers.Credentials) (providers.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenErr != nil {
		return providers.Token{}, f.tokenErr
	}
	f.issued++
	return providers.Token{Value: fmt.Sprintf("token-%d", f.issued), Expiry: testNow.Add(30 * time.Minute)}, nil
}

func (f *fakeProvider) SearchFlightOffers(ctx context.Context, token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
	f.mu.Lock()
	f.flightCalls++
	fn := f.flights
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(token, req)
}

func (f *fakeProvider) LookupHotelIDs(ctx context.Context, token, cityCode string) ([]string, error) {
	f.mu.Lock()
	f.hotelListCalls++
	fn := f.hotelIDs
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(token, cityCode)
}

func (f *fakeProvider) SearchHotelOffers(ctx context.Context, token string, hotelIDs []string, checkIn, checkOut, currency string) ([]models.HotelOfferGroup, error) {
	f.mu.Lock()
	f.hotelOfferCalls++
	f.stays = append(f.stays, checkIn+"/"+checkOut)
	fn := f.hotelOffers
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(token, hotelIDs, checkIn, checkOut)
}

func (f *fakeProvider) calls() (flights, hotelLists, hotelOffers int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flightCalls, f.hotelListCalls, f.hotelOfferCalls
}

func newTestPipeline(c llm.Completer, p providers.TravelProvider) *Pipeline {
	return New(Config{
		Completer:   c,
		Provider:    p,
		Credentials: providers.Credentials{ClientID: "id", ClientSecret: "secret"},
		TaskTimeout: time.Second,
		Now:         func() time.Time { return testNow },
		Logger:      logging.NewNop(),
	})
}

// roundTripOffer departs on date and returns stay days later.
func roundTripOffer(id, date string, stay int, price string) models.FlightOffer {
	ret, _ := timezone.AddDays(date, stay)
	return models.FlightOffer{
		ID: id,
		Itineraries: []models.Itinerary{
			{Duration: "PT4H", Segments: []models.Segment{{
				Departure: models.FlightEndpoint{IATACode: "CAI", At: date + "T10:00:00"},
				Arrival:   models.FlightEndpoint{IATACode: "DXB", At: date + "T14:00:00"},
			}}},
			{Duration: "PT4H", Segments: []models.Segment{{
				Departure: models.FlightEndpoint{IATACode: "DXB", At: ret + "T09:00:00"},
				Arrival:   models.FlightEndpoint{IATACode: "CAI", At: ret + "T11:00:00"},
			}}},
		},
		Price: models.OfferPrice{Currency: "EGP", Total: price},
	}
}

func hotelGroup(id string, available bool, prices ...string) models.HotelOfferGroup {
	g := models.HotelOfferGroup{Hotel: models.HotelInfo{HotelID: id, Name: "Hotel " + id}, Available: &available}
	for i, p := range prices {
		g.Offers = append(g.Offers, models.HotelOffer{
			ID:    fmt.Sprintf("%s-%d", id, i),
			Room:  models.HotelRoom{Type: fmt.Sprintf("ROOM%d", i)},
			Price: models.HotelPrice{Currency: "EGP", Total: p},
		})
	}
	return g
}

const completeIntake = `{"departure_date": "2026-04-10", "origin": "Cairo", "destination": "Dubai", "cabin_class": "economy", "duration": 5, "followup_question": null, "needs_followup": false, "info_complete": true}`
