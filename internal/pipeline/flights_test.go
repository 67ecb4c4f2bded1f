package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/providers"
)

func searchState(t *testing.T) *models.SearchState {
	t.Helper()
	s := completeState()
	body, err := BuildFlightSearchRequest("CAI", "DXB", "2026-04-10", "ECONOMY", 5, "EGP")
	require.NoError(t, err)
	s.OriginCode, s.DestinationCode = "CAI", "DXB"
	s.Body = body
	s.AccessToken = "token-1"
	return s
}

func offersByDate(req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
	date := req.OriginDestinations[0].DepartureDateTimeRange.Date
	return []models.FlightOffer{roundTripOffer("f-"+date, date, 5, "1000.00")}, nil
}

func TestSearchFlightsThreeDays(t *testing.T) {
	var seen []string
	prov := &fakeProvider{flights: func(token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
		return offersByDate(req)
	}}
	p := newTestPipeline(&fakeCompleter{}, prov)
	s := searchState(t)

	p.SearchFlights(context.Background(), s)

	for day, offers := range s.FlightOffers {
		require.Len(t, offers, 1, "day %d", day)
		seen = append(seen, offers[0].SearchDate)
		assert.Equal(t, day+1, offers[0].DayNumber)
	}
	assert.Equal(t, []string{"2026-04-10", "2026-04-11", "2026-04-12"}, seen)
	assert.Equal(t, []string{"2026-04-10", "2026-04-11", "2026-04-12"}, s.CheckinDates)
	assert.Equal(t, []string{"2026-04-15", "2026-04-16", "2026-04-17"}, s.CheckoutDates)
	assert.Empty(t, s.Failures)
	assert.Equal(t, models.SearchStats{Queried: 3, Succeeded: 3}, s.FlightSearch)
	assert.Equal(t, "2026-04-10", s.Body.OriginDestinations[0].DepartureDateTimeRange.Date, "base request must not be mutated")
}

func TestSearchFlightsPartialFailure(t *testing.T) {
	prov := &fakeProvider{flights: func(token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
		if req.OriginDestinations[0].DepartureDateTimeRange.Date == "2026-04-10" {
			return offersByDate(req)
		}
		return nil, providers.NewProviderError("amadeus", providers.OpFlightOffers, http.StatusInternalServerError, errors.New("boom"))
	}}
	p := newTestPipeline(&fakeCompleter{}, prov)
	s := searchState(t)

	p.SearchFlights(context.Background(), s)

	assert.Len(t, s.FlightOffers[0], 1)
	assert.Empty(t, s.FlightOffers[1])
	assert.Empty(t, s.FlightOffers[2])
	assert.Equal(t, []string{"2026-04-10"}, s.CheckinDates)
	assert.Equal(t, []string{"2026-04-15"}, s.CheckoutDates)
	require.Len(t, s.Failures, 2)
	assert.Equal(t, 1, s.Failures[0].Slot)
	assert.Equal(t, 2, s.Failures[1].Slot)
	assert.Equal(t, models.SearchStats{Queried: 3, Succeeded: 1, Failed: 2}, s.FlightSearch)
}

func TestSearchFlightsOneStayPerDay(t *testing.T) {
	prov := &fakeProvider{flights: func(token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
		date := req.OriginDestinations[0].DepartureDateTimeRange.Date
		return []models.FlightOffer{
			roundTripOffer("cheap-"+date, date, 5, "1000.00"),
			roundTripOffer("long-"+date, date, 9, "1400.00"),
		}, nil
	}}
	p := newTestPipeline(&fakeCompleter{}, prov)
	s := searchState(t)

	p.SearchFlights(context.Background(), s)

	assert.Len(t, s.FlightOffers[0], 2)
	assert.Equal(t, []string{"2026-04-10", "2026-04-11", "2026-04-12"}, s.CheckinDates)
	assert.Equal(t, []string{"2026-04-15", "2026-04-16", "2026-04-17"}, s.CheckoutDates, "windows follow the priced offer of each day")
}

func TestSearchFlightsRefreshesOnceOn401(t *testing.T) {
	prov := &fakeProvider{issued: 1, flights: func(token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
		if token == "token-1" {
			return nil, providers.NewProviderError("amadeus", providers.OpFlightOffers, http.StatusUnauthorized, errors.New("expired"))
		}
		return offersByDate(req)
	}}
	p := newTestPipeline(&fakeCompleter{}, prov)
	s := searchState(t)

	p.SearchFlights(context.Background(), s)

	assert.Empty(t, s.Failures)
	assert.Len(t, s.CheckinDates, 3)
	assert.Equal(t, "token-2", s.AccessToken)
	assert.Equal(t, 2, prov.issued, "parallel 401s share one refresh")
}

func TestSearchFlightsRetriesOnlyOnce(t *testing.T) {
	prov := &fakeProvider{flights: func(token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
		return nil, providers.NewProviderError("amadeus", providers.OpFlightOffers, http.StatusUnauthorized, errors.New("denied"))
	}}
	p := newTestPipeline(&fakeCompleter{}, prov)
	s := searchState(t)

	p.SearchFlights(context.Background(), s)

	flights, _, _ := prov.calls()
	assert.Equal(t, 6, flights)
	assert.Len(t, s.Failures, 3)
	assert.Empty(t, s.CheckinDates)
}

func TestSearchFlightsWithoutBody(t *testing.T) {
	prov := &fakeProvider{}
	p := newTestPipeline(&fakeCompleter{}, prov)
	s := completeState()

	p.SearchFlights(context.Background(), s)

	flights, _, _ := prov.calls()
	assert.Zero(t, flights)
	assert.Empty(t, s.CheckinDates)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, errNoRequest.Error(), s.Failures[0].Reason)
}

func TestFetchToken(t *testing.T) {
	prov := &fakeProvider{}
	p := newTestPipeline(&fakeCompleter{}, prov)
	s := completeState()

	p.FetchToken(context.Background(), s)
	assert.Equal(t, "token-1", s.AccessToken)

	prov.tokenErr = errors.New("invalid client")
	p.FetchToken(context.Background(), s)
	assert.Empty(t, s.AccessToken)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, StepToken, s.Failures[0].Step)
}

func TestStayWindow(t *testing.T) {
	in, out, err := StayWindow(roundTripOffer("1", "2026-04-10", 3, "1"))
	require.NoError(t, err)
	assert.Equal(t, "2026-04-10", in)
	assert.Equal(t, "2026-04-13", out)

	oneWay := roundTripOffer("2", "2026-12-31", 3, "1")
	oneWay.Itineraries = oneWay.Itineraries[:1]
	in, out, err = StayWindow(oneWay)
	require.NoError(t, err)
	assert.Equal(t, "2026-12-31", in)
	assert.Equal(t, "2027-01-01", out)

	_, _, err = StayWindow(models.FlightOffer{})
	assert.Error(t, err)
}
