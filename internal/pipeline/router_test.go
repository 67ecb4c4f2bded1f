package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/tripassistant/internal/models"
)

func TestDecide(t *testing.T) {
	results := []models.FlightSummary{{TripType: "round_trip"}}

	tests := []struct {
		name  string
		state models.SearchState
		want  Route
	}{
		{"incomplete", models.SearchState{RequestType: models.RequestHotels}, RouteFollowup},
		{"incomplete selection", models.SearchState{CurrentMessage: "2", FormattedResults: results}, RouteFollowup},
		{"selection", models.SearchState{InfoComplete: true, CurrentMessage: "option 2", FormattedResults: results}, RouteSelection},
		{"number without results", models.SearchState{InfoComplete: true, CurrentMessage: "2"}, RouteFlights},
		{"flights", models.SearchState{InfoComplete: true, RequestType: models.RequestFlights}, RouteFlights},
		{"hotels", models.SearchState{InfoComplete: true, RequestType: models.RequestHotels}, RouteHotels},
		{"packages", models.SearchState{InfoComplete: true, RequestType: models.RequestPackages}, RoutePackages},
		{"default", models.SearchState{InfoComplete: true}, RouteFlights},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state
			assert.Equal(t, tt.want, Decide(&s))
		})
	}
}
