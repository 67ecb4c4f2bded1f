package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dharmasatrya/tripassistant/internal/aggregator"
	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/providers"
	"github.com/dharmasatrya/tripassistant/internal/timezone"
)

var errNoRequest = errors.New("no flight search request")

// SearchFlights searches three consecutive departure days in parallel and
// derives one stay window per day that produced an offer, from the offer that
// package assembly prices. Days are processed in order, so CheckinDates[i]
// belongs to the i-th successful day.
//
// Reads Body, Duration and AccessToken. Writes FlightOffers, CheckinDates,
// CheckoutDates, FlightSearch and AccessToken after any refresh.
func (p *Pipeline) SearchFlights(ctx context.Context, s *models.SearchState) {
	s.FlightOffers = [models.SearchDays][]models.FlightOffer{}
	s.CheckinDates = []string{}
	s.CheckoutDates = []string{}
	s.FlightSearch = models.SearchStats{}

	if s.Body == nil || len(s.Body.OriginDestinations) == 0 {
		s.Fail(StepFlights, 0, errNoRequest)
		return
	}

	duration := 0
	if s.Duration != nil {
		duration = *s.Duration
	}

	keeper := p.keeper(s)
	tasks := make([]aggregator.Task[[]models.FlightOffer], models.SearchDays)
	for day := range tasks {
		body, date, err := dayRequest(s.Body, day, duration)
		tasks[day] = func(ctx context.Context) ([]models.FlightOffer, error) {
			if err != nil {
				return nil, err
			}
			offers, err := withAuth(ctx, keeper, func(ctx context.Context, token string) ([]models.FlightOffer, error) {
				return p.provider.SearchFlightOffers(ctx, token, body)
			})
			p.metrics.ProviderCall(providers.OpFlightOffers, err)
			if err != nil {
				return nil, err
			}
			for i := range offers {
				offers[i].SearchDate = date
				offers[i].DayNumber = day + 1
			}
			return offers, nil
		}
	}

	results := aggregator.FanOut(ctx, p.fanout, tasks)
	s.AccessToken = keeper.current()
	s.FlightSearch = searchStats(aggregator.Summarize(results))
	p.logger.Debug("flight searches done", "thread", s.ThreadID, "succeeded", s.FlightSearch.Succeeded, "failed", s.FlightSearch.Failed)

	for _, r := range results {
		if !r.OK() {
			p.logger.Warn("flight search failed", "thread", s.ThreadID, "slot", r.Slot, "error", r.Err)
			s.Fail(StepFlights, r.Slot, r.Err)
			continue
		}
		s.FlightOffers[r.Slot] = r.Value
		if len(r.Value) == 0 {
			continue
		}

		checkIn, checkOut, err := StayWindow(r.Value[0])
		if err != nil {
			p.logger.Warn("no stay window", "thread", s.ThreadID, "slot", r.Slot, "error", err)
			s.Fail(StepFlights, r.Slot, err)
			continue
		}
		s.CheckinDates = append(s.CheckinDates, checkIn)
		s.CheckoutDates = append(s.CheckoutDates, checkOut)
	}
}

func searchStats(sum aggregator.Summary) models.SearchStats {
	return models.SearchStats{Queried: sum.Queried, Succeeded: sum.Succeeded, Failed: sum.Failed}
}

// dayRequest clones base with the departure moved by day and the return leg
// kept duration days later.
func dayRequest(base *models.FlightSearchRequest, day, duration int) (*models.FlightSearchRequest, string, error) {
	body := base.Clone()
	start := body.OriginDestinations[0].DepartureDateTimeRange.Date

	date, err := timezone.AddDays(start, day)
	if err != nil {
		return nil, "", fmt.Errorf("departure date: %w", err)
	}
	body.OriginDestinations[0].DepartureDateTimeRange.Date = date

	if len(body.OriginDestinations) > 1 && duration > 0 {
		ret, err := timezone.AddDays(date, duration)
		if err != nil {
			return nil, "", fmt.Errorf("return date: %w", err)
		}
		body.OriginDestinations[1].DepartureDateTimeRange.Date = ret
	}
	return body, date, nil
}

// StayWindow derives hotel dates from an offer: check-in is the arrival date of
// the last outbound segment, check-out the departure date of the first return
// segment, or the day after check-in without a usable return leg.
func StayWindow(offer models.FlightOffer) (string, string, error) {
	out, ok := offer.Outbound()
	if !ok || len(out.Segments) == 0 {
		return "", "", errors.New("offer has no outbound segments")
	}
	arrival := out.Segments[len(out.Segments)-1].Arrival.At
	if arrival == "" {
		return "", "", errors.New("outbound arrival time missing")
	}
	checkIn, err := timezone.DateOf(arrival)
	if err != nil {
		return "", "", err
	}

	if ret, ok := offer.Return(); ok && len(ret.Segments) > 0 && ret.Segments[0].Departure.At != "" {
		if checkOut, err := timezone.DateOf(ret.Segments[0].Departure.At); err == nil {
			return checkIn, checkOut, nil
		}
	}

	checkOut, err := timezone.AddDays(checkIn, 1)
	if err != nil {
		return "", "", err
	}
	return checkIn, checkOut, nil
}
