package pipeline

import (
	"context"
	"fmt"

	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/timezone"
)

const departureTime = "10:00:00"

// BuildFlightSearchRequest assembles the provider payload: one adult, GDS
// sources, a single offer, and a return leg when duration is positive.
func BuildFlightSearchRequest(origin, destination, date, cabin string, duration int, currency string) (*models.FlightSearchRequest, error) {
	if cabin == "" {
		cabin = "ECONOMY"
	}

	legs := []models.OriginDestination{{
		ID:                      "1",
		OriginLocationCode:      origin,
		DestinationLocationCode: destination,
		DepartureDateTimeRange:  models.DateTimeRange{Date: date, Time: departureTime},
	}}
	ids := []string{"1"}

	if duration > 0 {
		returnDate, err := timezone.AddDays(date, duration)
		if err != nil {
			return nil, fmt.Errorf("return date: %w", err)
		}
		legs = append(legs, models.OriginDestination{
			ID:                      "2",
			OriginLocationCode:      destination,
			DestinationLocationCode: origin,
			DepartureDateTimeRange:  models.DateTimeRange{Date: returnDate, Time: departureTime},
		})
		ids = append(ids, "2")
	}

	return &models.FlightSearchRequest{
		CurrencyCode:       currency,
		OriginDestinations: legs,
		Travelers:          []models.Traveler{{ID: "1", TravelerType: "ADULT"}},
		Sources:            []string{"GDS"},
		SearchCriteria: models.SearchCriteria{
			MaxFlightOffers: 1,
			FlightFilters: models.FlightFilters{
				CabinRestrictions: []models.CabinRestriction{{
					Cabin:                cabin,
					Coverage:             "MOST_SEGMENTS",
					OriginDestinationIDs: ids,
				}},
			},
		},
	}, nil
}

// BuildRequest writes Body from the normalized fields and Duration.
func (p *Pipeline) BuildRequest(ctx context.Context, s *models.SearchState) {
	duration := 0
	if s.Duration != nil && s.NormalizedTripType == roundTrip {
		duration = *s.Duration
	}

	body, err := BuildFlightSearchRequest(s.OriginCode, s.DestinationCode, s.NormalizedDepartureDate, s.NormalizedCabin, duration, p.currency)
	if err != nil {
		p.logger.Warn("build flight request", "thread", s.ThreadID, "error", err)
		s.Fail(StepBuildRequest, 0, err)
		return
	}
	s.Body = body
}
